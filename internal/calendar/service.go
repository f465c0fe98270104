package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

// MetricsRecorder はカレンダー集計のメトリクスインターフェース。
type MetricsRecorder interface {
	RecordCalendarBuild(duration time.Duration)
}

// Service はカレンダー集計のサービス層。
// リポジトリから入力を集めて純粋関数のAggregateに渡す。
type Service struct {
	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	settingsRepo repository.SettingsRepository
	metrics      MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewService(
	articleRepo repository.ArticleRepository,
	categoryRepo repository.CategoryRepository,
	settingsRepo repository.SettingsRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		metrics:      metrics,
	}
}

// YearCalendar は指定年の日別セルを返す。
// 読了日がその年に含まれる記録のみを取得して集計する。
// ユーザー設定が未作成の場合はデフォルトの複数カテゴリ色を使用する。
func (s *Service) YearCalendar(ctx context.Context, userID string, year int) ([]DayCell, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	articles, err := s.articleRepo.ListByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("カレンダー対象の記録取得に失敗しました: %w", err)
	}

	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}

	multipleColor := model.DefaultMultipleCategoriesColor
	settings, err := s.settingsRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー設定の取得に失敗しました: %w", err)
	}
	if settings != nil && settings.MultipleCategoriesColor != "" {
		multipleColor = settings.MultipleCategoriesColor
	}

	buildStart := time.Now()
	cells := Aggregate(articles, categories, multipleColor, year)

	if s.metrics != nil {
		s.metrics.RecordCalendarBuild(time.Since(buildStart))
	}

	return cells, nil
}
