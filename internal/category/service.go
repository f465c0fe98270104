package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

// colorPattern は16進カラーコード(#RRGGBB)の形式。
var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

const maxCategoryNameLength = 100

// Service はカテゴリ管理のサービス層。
type Service struct {
	categoryRepo repository.CategoryRepository
	articleRepo  repository.ArticleRepository
	userRepo     repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	categoryRepo repository.CategoryRepository,
	articleRepo repository.ArticleRepository,
	userRepo repository.UserRepository,
) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		articleRepo:  articleRepo,
		userRepo:     userRepo,
	}
}

// List はユーザーのカテゴリ一覧を表示順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	return categories, nil
}

// Create は新しいカテゴリを作成する。
// 同名カテゴリが既に存在する場合はエラーを返す。
// 事前チェックをすり抜けた競合はストレージの一意制約が捕捉する。
func (s *Service) Create(ctx context.Context, userID, name, color string) (*model.Category, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByUserAndName(ctx, userID, name, "")
	if err != nil {
		return nil, fmt.Errorf("カテゴリ名の重複チェックに失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateCategoryNameError(name)
	}

	maxOrder := 0
	existing, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	for _, c := range existing {
		if c.SortOrder > maxOrder {
			maxOrder = c.SortOrder
		}
	}

	category := &model.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		SortOrder: maxOrder + 1,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update は既存カテゴリの名前と色を変更する。
// 自分自身を除いた重複チェックを行う。
func (s *Service) Update(ctx context.Context, userID, categoryID, name, color string) (*model.Category, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil || category.UserID != userID {
		return nil, model.NewCategoryNotFoundError(categoryID)
	}

	exists, err := s.categoryRepo.ExistsByUserAndName(ctx, userID, name, categoryID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ名の重複チェックに失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateCategoryNameError(name)
	}

	category.Name = name
	category.Color = color
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete はカテゴリを削除する。
// そのカテゴリを参照する記録が存在する場合は削除を拒否する。
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil || category.UserID != userID {
		return model.NewCategoryNotFoundError(categoryID)
	}

	count, err := s.articleRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("カテゴリ使用数の取得に失敗しました: %w", err)
	}
	if count > 0 {
		return model.NewCategoryInUseError()
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}
	return nil
}

// SetupDefaults は初回セットアップ時にデフォルトカテゴリ一式を作成する。
// 既にセットアップ済みのユーザーでは何もしない。
func (s *Service) SetupDefaults(ctx context.Context, userID string) ([]model.Category, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	if user.HasSetupCategories {
		return s.List(ctx, userID)
	}

	created := make([]model.Category, 0, len(model.DefaultCategories))
	for i, def := range model.DefaultCategories {
		category := &model.Category{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      def.Name,
			Color:     def.Color,
			SortOrder: i + 1,
		}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			// 別リクエストが先に作成した場合は重複エラーになる。
			var apiErr *model.APIError
			if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeDuplicateCategoryName {
				continue
			}
			return nil, err
		}
		created = append(created, *category)
	}

	if err := s.userRepo.SetHasSetupCategories(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("セットアップ完了フラグの更新に失敗しました: %w", err)
	}
	return created, nil
}

// validateName はカテゴリ名を検証する。
func validateName(name string) error {
	if name == "" {
		return model.NewValidationError("name", "カテゴリ名は必須です")
	}
	if len(name) > maxCategoryNameLength {
		return model.NewValidationError("name", fmt.Sprintf("カテゴリ名は%d文字以内で入力してください", maxCategoryNameLength))
	}
	return nil
}

// validateColor はカラーコードを検証する。
func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return model.NewInvalidColorError(color)
	}
	return nil
}
