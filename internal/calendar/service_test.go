package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

type mockArticleRepo struct {
	repository.ArticleRepository
	ListByUserAndDateRangeFn func(ctx context.Context, userID string, start, end time.Time) ([]model.Article, error)
}

func (m *mockArticleRepo) ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Article, error) {
	return m.ListByUserAndDateRangeFn(ctx, userID, start, end)
}

type mockCategoryRepo struct {
	repository.CategoryRepository
	ListByUserFn func(ctx context.Context, userID string) ([]model.Category, error)
}

func (m *mockCategoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	return m.ListByUserFn(ctx, userID)
}

type mockSettingsRepo struct {
	repository.SettingsRepository
	FindByUserIDFn func(ctx context.Context, userID string) (*model.UserSettings, error)
}

func (m *mockSettingsRepo) FindByUserID(ctx context.Context, userID string) (*model.UserSettings, error) {
	return m.FindByUserIDFn(ctx, userID)
}

type mockMetrics struct {
	calendarBuilds []time.Duration
}

func (m *mockMetrics) RecordCalendarBuild(d time.Duration) {
	m.calendarBuilds = append(m.calendarBuilds, d)
}

func emptyRepos() (*mockArticleRepo, *mockCategoryRepo, *mockSettingsRepo) {
	articleRepo := &mockArticleRepo{
		ListByUserAndDateRangeFn: func(_ context.Context, _ string, _, _ time.Time) ([]model.Article, error) {
			return nil, nil
		},
	}
	categoryRepo := &mockCategoryRepo{
		ListByUserFn: func(_ context.Context, _ string) ([]model.Category, error) {
			return nil, nil
		},
	}
	settingsRepo := &mockSettingsRepo{
		FindByUserIDFn: func(_ context.Context, _ string) (*model.UserSettings, error) {
			return nil, nil
		},
	}
	return articleRepo, categoryRepo, settingsRepo
}

func TestService_YearCalendar_QueriesFullYearRange(t *testing.T) {
	articleRepo, categoryRepo, settingsRepo := emptyRepos()

	var gotUserID string
	var gotStart, gotEnd time.Time
	articleRepo.ListByUserAndDateRangeFn = func(_ context.Context, userID string, start, end time.Time) ([]model.Article, error) {
		gotUserID = userID
		gotStart = start
		gotEnd = end
		return nil, nil
	}

	svc := NewService(articleRepo, categoryRepo, settingsRepo, nil)

	cells, err := svc.YearCalendar(context.Background(), "user-1", 2025)
	if err != nil {
		t.Fatalf("YearCalendar failed: %v", err)
	}

	if gotUserID != "user-1" {
		t.Errorf("userID = %q, want %q", gotUserID, "user-1")
	}
	wantStart := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !gotStart.Equal(wantStart) {
		t.Errorf("start = %v, want %v", gotStart, wantStart)
	}
	if !gotEnd.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", gotEnd, wantEnd)
	}
	if len(cells) != 365 {
		t.Errorf("len(cells) = %d, want 365", len(cells))
	}
}

func TestService_YearCalendar_UsesDefaultColorWhenNoSettings(t *testing.T) {
	articleRepo, categoryRepo, settingsRepo := emptyRepos()

	catA := "cat-a"
	catB := "cat-b"
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	articleRepo.ListByUserAndDateRangeFn = func(_ context.Context, _ string, _, _ time.Time) ([]model.Article, error) {
		return []model.Article{
			{ID: "a1", ReadDate: day, CategoryID: &catA},
			{ID: "a2", ReadDate: day, CategoryID: &catB},
		}, nil
	}
	categoryRepo.ListByUserFn = func(_ context.Context, _ string) ([]model.Category, error) {
		return []model.Category{
			{ID: catA, Name: "技術", Color: "#111111"},
			{ID: catB, Name: "小説", Color: "#222222"},
		}, nil
	}

	svc := NewService(articleRepo, categoryRepo, settingsRepo, nil)

	cells, err := svc.YearCalendar(context.Background(), "user-1", 2025)
	if err != nil {
		t.Fatalf("YearCalendar failed: %v", err)
	}

	cell := findCell(t, cells, day)
	if cell.Kind != ColorMultipleCategories {
		t.Errorf("Kind = %v, want ColorMultipleCategories", cell.Kind)
	}
	if cell.Color != model.DefaultMultipleCategoriesColor {
		t.Errorf("Color = %q, want default %q", cell.Color, model.DefaultMultipleCategoriesColor)
	}
}

func TestService_YearCalendar_UsesConfiguredMultipleColor(t *testing.T) {
	articleRepo, categoryRepo, settingsRepo := emptyRepos()

	catA := "cat-a"
	catB := "cat-b"
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	articleRepo.ListByUserAndDateRangeFn = func(_ context.Context, _ string, _, _ time.Time) ([]model.Article, error) {
		return []model.Article{
			{ID: "a1", ReadDate: day, CategoryID: &catA},
			{ID: "a2", ReadDate: day, CategoryID: &catB},
		}, nil
	}
	categoryRepo.ListByUserFn = func(_ context.Context, _ string) ([]model.Category, error) {
		return []model.Category{
			{ID: catA, Color: "#111111"},
			{ID: catB, Color: "#222222"},
		}, nil
	}
	settingsRepo.FindByUserIDFn = func(_ context.Context, userID string) (*model.UserSettings, error) {
		if userID != "user-1" {
			t.Errorf("settings userID = %q, want %q", userID, "user-1")
		}
		return &model.UserSettings{UserID: userID, MultipleCategoriesColor: "#ABCDEF"}, nil
	}

	svc := NewService(articleRepo, categoryRepo, settingsRepo, nil)

	cells, err := svc.YearCalendar(context.Background(), "user-1", 2025)
	if err != nil {
		t.Fatalf("YearCalendar failed: %v", err)
	}

	cell := findCell(t, cells, day)
	if cell.Color != "#ABCDEF" {
		t.Errorf("Color = %q, want #ABCDEF", cell.Color)
	}
}

func TestService_YearCalendar_EmptySettingsColorFallsBackToDefault(t *testing.T) {
	articleRepo, categoryRepo, settingsRepo := emptyRepos()

	catA := "cat-a"
	catB := "cat-b"
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	articleRepo.ListByUserAndDateRangeFn = func(_ context.Context, _ string, _, _ time.Time) ([]model.Article, error) {
		return []model.Article{
			{ID: "a1", ReadDate: day, CategoryID: &catA},
			{ID: "a2", ReadDate: day, CategoryID: &catB},
		}, nil
	}
	categoryRepo.ListByUserFn = func(_ context.Context, _ string) ([]model.Category, error) {
		return []model.Category{{ID: catA, Color: "#111111"}, {ID: catB, Color: "#222222"}}, nil
	}
	settingsRepo.FindByUserIDFn = func(_ context.Context, userID string) (*model.UserSettings, error) {
		return &model.UserSettings{UserID: userID, MultipleCategoriesColor: ""}, nil
	}

	svc := NewService(articleRepo, categoryRepo, settingsRepo, nil)

	cells, err := svc.YearCalendar(context.Background(), "user-1", 2025)
	if err != nil {
		t.Fatalf("YearCalendar failed: %v", err)
	}

	cell := findCell(t, cells, day)
	if cell.Color != model.DefaultMultipleCategoriesColor {
		t.Errorf("Color = %q, want default %q", cell.Color, model.DefaultMultipleCategoriesColor)
	}
}

func TestService_YearCalendar_RecordsMetrics(t *testing.T) {
	articleRepo, categoryRepo, settingsRepo := emptyRepos()
	metrics := &mockMetrics{}

	svc := NewService(articleRepo, categoryRepo, settingsRepo, metrics)

	if _, err := svc.YearCalendar(context.Background(), "user-1", 2025); err != nil {
		t.Fatalf("YearCalendar failed: %v", err)
	}

	if len(metrics.calendarBuilds) != 1 {
		t.Errorf("RecordCalendarBuild called %d times, want 1", len(metrics.calendarBuilds))
	}
}

func TestService_YearCalendar_RepositoryErrors(t *testing.T) {
	repoErr := errors.New("db is down")

	tests := []struct {
		name  string
		setup func(a *mockArticleRepo, c *mockCategoryRepo, s *mockSettingsRepo)
	}{
		{
			name: "記録取得エラー",
			setup: func(a *mockArticleRepo, _ *mockCategoryRepo, _ *mockSettingsRepo) {
				a.ListByUserAndDateRangeFn = func(_ context.Context, _ string, _, _ time.Time) ([]model.Article, error) {
					return nil, repoErr
				}
			},
		},
		{
			name: "カテゴリ取得エラー",
			setup: func(_ *mockArticleRepo, c *mockCategoryRepo, _ *mockSettingsRepo) {
				c.ListByUserFn = func(_ context.Context, _ string) ([]model.Category, error) {
					return nil, repoErr
				}
			},
		},
		{
			name: "設定取得エラー",
			setup: func(_ *mockArticleRepo, _ *mockCategoryRepo, s *mockSettingsRepo) {
				s.FindByUserIDFn = func(_ context.Context, _ string) (*model.UserSettings, error) {
					return nil, repoErr
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articleRepo, categoryRepo, settingsRepo := emptyRepos()
			tt.setup(articleRepo, categoryRepo, settingsRepo)
			metrics := &mockMetrics{}

			svc := NewService(articleRepo, categoryRepo, settingsRepo, metrics)

			cells, err := svc.YearCalendar(context.Background(), "user-1", 2025)
			if !errors.Is(err, repoErr) {
				t.Errorf("err = %v, want wrapped %v", err, repoErr)
			}
			if cells != nil {
				t.Errorf("cells = %v, want nil", cells)
			}
			if len(metrics.calendarBuilds) != 0 {
				t.Errorf("RecordCalendarBuild called %d times, want 0", len(metrics.calendarBuilds))
			}
		})
	}
}
