package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/readtrack/internal/model"
)

// categoryNameUniqueConstraint は(user_id, name)の一意制約名。
const categoryNameUniqueConstraint = "categories_user_id_name_key"

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	c := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, sort_order, created_at, updated_at
		 FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	return c, nil
}

// ListByUser はユーザーのカテゴリ一覧をsort_order昇順で返す。
func (r *PostgresCategoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, sort_order, created_at, updated_at
		 FROM categories
		 WHERE user_id = $1
		 ORDER BY sort_order ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c := model.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("カテゴリの読み取りに失敗しました: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリの走査に失敗しました: %w", err)
	}
	return categories, nil
}

// ExistsByUserAndName は同名カテゴリの有無を返す。
// excludeIDが空でない場合、そのIDのカテゴリは比較から除外する。
func (r *PostgresCategoryRepo) ExistsByUserAndName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM categories
		   WHERE user_id = $1 AND name = $2 AND ($3 = '' OR id <> $3)
		 )`,
		userID, name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("カテゴリ名の重複確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Create はカテゴリを作成する。
// (user_id, name)の一意制約の違反はDUPLICATE_CATEGORY_NAMEのAPIErrorに変換する。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, color, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category.ID, category.UserID, category.Name, category.Color,
		category.SortOrder, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return mapCategoryUniqueViolation(err, category.Name, "カテゴリの作成に失敗しました")
	}
	return nil
}

// Update はカテゴリの名前・色・表示順を更新する。
func (r *PostgresCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, color = $3, sort_order = $4, updated_at = now()
		 WHERE id = $1`,
		category.ID, category.Name, category.Color, category.SortOrder,
	)
	if err != nil {
		return mapCategoryUniqueViolation(err, category.Name, "カテゴリの更新に失敗しました")
	}
	return nil
}

// Delete は指定IDのカテゴリを削除する。
func (r *PostgresCategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteByUserID はユーザーの全カテゴリを削除する。
func (r *PostgresCategoryRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ユーザーのカテゴリ削除に失敗しました: %w", err)
	}
	return nil
}

// mapCategoryUniqueViolation は一意制約違反をAPIErrorに変換する。
func mapCategoryUniqueViolation(err error, name, wrapMsg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == categoryNameUniqueConstraint {
		return model.NewDuplicateCategoryNameError(name)
	}
	return fmt.Errorf("%s: %w", wrapMsg, err)
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
