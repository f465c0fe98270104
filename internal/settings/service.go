package settings

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Service はユーザー設定のサービス層。
type Service struct {
	settingsRepo repository.SettingsRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(settingsRepo repository.SettingsRepository) *Service {
	return &Service{settingsRepo: settingsRepo}
}

// Get はユーザー設定を返す。
// 設定が未作成の場合はデフォルト値で作成してから返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	settings, err := s.settingsRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー設定の取得に失敗しました: %w", err)
	}
	if settings != nil {
		return settings, nil
	}

	settings = &model.UserSettings{
		UserID:                  userID,
		MultipleCategoriesColor: model.DefaultMultipleCategoriesColor,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("ユーザー設定の作成に失敗しました: %w", err)
	}
	return settings, nil
}

// UpdateMultipleCategoriesColor は複数カテゴリ時のカレンダー表示色を更新する。
func (s *Service) UpdateMultipleCategoriesColor(ctx context.Context, userID, color string) (*model.UserSettings, error) {
	if !colorPattern.MatchString(color) {
		return nil, model.NewInvalidColorError(color)
	}

	settings := &model.UserSettings{
		UserID:                  userID,
		MultipleCategoriesColor: color,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("ユーザー設定の更新に失敗しました: %w", err)
	}
	return settings, nil
}
