package article

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

// recentArticlesLimit はダッシュボードの最近の記録一覧の件数。
const recentArticlesLimit = 10

// MetricsRecorder はサービス層が記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordArticleLogged()
	RecordMissedDayMarked()
	RecordArticleDeleted()
}

// Service は読書記録のサービス層。
// 記録の作成・削除と一覧取得のビジネスロジックを提供する。
type Service struct {
	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	metrics      MetricsRecorder

	// now はテストで現在時刻を差し替えるためのフック。
	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(
	articleRepo repository.ArticleRepository,
	categoryRepo repository.CategoryRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		metrics:      metrics,
		now:          time.Now,
	}
}

// LogArticleInput は記録作成の入力を表す。
type LogArticleInput struct {
	Title           string
	PublicationDate time.Time
	URL             string
	ReadDate        time.Time
	CategoryID      *string
}

// LogArticle は読書記録を作成する。
// タイトル・URL・日付のバリデーションを行い、カテゴリ指定がある場合は
// 本人のカテゴリであることを確認する。
// 未来の日付（公開日・読了日）は境界でここで拒否され、
// カレンダー集計側では再検証しない。
func (s *Service) LogArticle(ctx context.Context, userID string, input LogArticleInput) (*model.Article, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateURL(input.URL); err != nil {
		return nil, err
	}

	today := s.now()
	if err := validateNotFuture("publication_date", input.PublicationDate, today); err != nil {
		return nil, err
	}
	if err := validateNotFuture("read_date", input.ReadDate, today); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("カテゴリの確認に失敗しました: %w", err)
		}
		if category == nil || category.UserID != userID {
			return nil, model.NewCategoryNotFoundError(*input.CategoryID)
		}
	}

	now := s.now()
	a := &model.Article{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           input.Title,
		PublicationDate: truncateToDay(input.PublicationDate),
		URL:             input.URL,
		ReadDate:        truncateToDay(input.ReadDate),
		IsMissedDay:     false,
		CategoryID:      input.CategoryID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.articleRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordArticleLogged()
	}

	return a, nil
}

// MarkMissedDay は今日を「読まなかった日」としてマークする。
// 同一日のマーカーがすでに存在する場合はバリデーションエラーを返す。
// 存在確認から挿入までは原子的ではないため、同時リクエストの競合は
// ストレージ層の一意制約が塞ぎ、リポジトリが同じAPIErrorに変換する。
func (s *Service) MarkMissedDay(ctx context.Context, userID string) (*model.Article, error) {
	now := s.now()
	today := truncateToDay(now)

	exists, err := s.articleRepo.ExistsMissedDay(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("マーカーの確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateMissedDayError()
	}

	a := &model.Article{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           model.MissedDayTitle,
		PublicationDate: today,
		URL:             model.MissedDayURL,
		ReadDate:        today,
		IsMissedDay:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.articleRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordMissedDayMarked()
	}

	return a, nil
}

// DeleteArticle は本人の記録を削除する。
// 他ユーザーの記録や存在しないIDにはARTICLE_NOT_FOUNDを返す
// （他人の記録の存在を漏らさないため、所有権違反も未検出として扱う）。
func (s *Service) DeleteArticle(ctx context.Context, userID, articleID string) error {
	a, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return err
	}
	if a == nil || a.UserID != userID {
		return model.NewArticleNotFoundError(articleID)
	}

	if err := s.articleRepo.Delete(ctx, articleID); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordArticleDeleted()
	}

	return nil
}

// ListArticles はユーザーの記録一覧を検索・フィルタ・ソートして返す。
func (s *Service) ListArticles(ctx context.Context, userID string, params QueryParams) (*QueryResult, error) {
	articles, err := s.articleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Query(articles, params)
}

// RecentArticles はダッシュボード用の最近の記録を返す。
// マーカーを除いた読書記録を読了日降順で最大10件。
func (s *Service) RecentArticles(ctx context.Context, userID string) ([]model.Article, error) {
	articles, err := s.articleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := Query(articles, QueryParams{
		Filter:    model.ArticleFilterRead,
		SortField: model.SortFieldReadDate,
		Direction: model.SortDesc,
	})
	if err != nil {
		return nil, err
	}

	if len(result.Articles) > recentArticlesLimit {
		return result.Articles[:recentArticlesLimit], nil
	}
	return result.Articles, nil
}
