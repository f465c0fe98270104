package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/readtrack/internal/model"
)

// missedDayUniqueConstraint は(user_id, read_date)のマーカー一意部分インデックス名。
// 「読まなかった日」マーカーのcheck-then-insert競合をストレージ層で塞ぐ。
const missedDayUniqueConstraint = "articles_user_missed_day_idx"

// PostgresArticleRepo はPostgreSQLを使用した読書記録リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// articleColumns はarticlesテーブルのSELECT対象カラム。
const articleColumns = `id, user_id, title, publication_date, url, read_date,
		        is_missed_day, category_id, created_at, updated_at`

// scanArticle は1行をmodel.Articleに読み取る。
func scanArticle(scan func(dest ...any) error) (*model.Article, error) {
	a := &model.Article{}
	var categoryID sql.NullString

	if err := scan(
		&a.ID, &a.UserID, &a.Title, &a.PublicationDate, &a.URL, &a.ReadDate,
		&a.IsMissedDay, &categoryID, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if categoryID.Valid {
		v := categoryID.String
		a.CategoryID = &v
	}
	return a, nil
}

// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`,
		id,
	)

	a, err := scanArticle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	return a, nil
}

// ListByUser はユーザーの全記録を作成順（挿入順）で返す。
func (r *PostgresArticleRepo) ListByUser(ctx context.Context, userID string) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListByUserAndDateRange は読了日がstartからend（両端含む）の記録を返す。
func (r *PostgresArticleRepo) ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE user_id = $1 AND read_date BETWEEN $2 AND $3
		 ORDER BY created_at ASC, id ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間指定の記録取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// collectArticles は結果セットの全行を読み取る。
func collectArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("記録の読み取りに失敗しました: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記録の走査に失敗しました: %w", err)
	}
	return articles, nil
}

// Create は記録を作成する。
// マーカー一意制約の違反はDUPLICATE_MISSED_DAYのAPIErrorに変換する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	var categoryID sql.NullString
	if article.CategoryID != nil {
		categoryID = sql.NullString{String: *article.CategoryID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (id, user_id, title, publication_date, url, read_date,
		                       is_missed_day, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		article.ID, article.UserID, article.Title, article.PublicationDate,
		article.URL, article.ReadDate, article.IsMissedDay, categoryID,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == missedDayUniqueConstraint {
			return model.NewDuplicateMissedDayError()
		}
		return fmt.Errorf("記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの記録を削除する。
func (r *PostgresArticleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("記録の削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteByUserID はユーザーの全記録を削除する。
func (r *PostgresArticleRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの記録削除に失敗しました: %w", err)
	}
	return nil
}

// ExistsMissedDay は指定ユーザー・日付の「読まなかった日」マーカーの有無を返す。
func (r *PostgresArticleRepo) ExistsMissedDay(ctx context.Context, userID string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM articles
		   WHERE user_id = $1 AND read_date = $2 AND is_missed_day
		 )`,
		userID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("マーカーの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// CountByCategory は指定カテゴリを参照している記録数を返す。
func (r *PostgresArticleRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("カテゴリ参照数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
