// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/repository"
)

// ArticleDeleter は読書記録の一括削除インターフェース。
type ArticleDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// CategoryDeleter はカテゴリの一括削除インターフェース。
type CategoryDeleter interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Service はユーザー管理のサービス層。
// 退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	articleDeleter  ArticleDeleter
	categoryDeleter CategoryDeleter
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	articleDeleter ArticleDeleter,
	categoryDeleter CategoryDeleter,
) *Service {
	return &Service{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		articleDeleter:  articleDeleter,
		categoryDeleter: categoryDeleter,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: sessions → articles → categories → user（+ CASCADE: identities, user_settings）
// カテゴリは記録からRESTRICT参照されるため、記録の削除を先に行う。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 2. 読書記録を削除
	if s.articleDeleter != nil {
		if err := s.articleDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("読書記録の削除に失敗しました: %w", err)
		}
	}

	// 3. カテゴリを削除
	if s.categoryDeleter != nil {
		if err := s.categoryDeleter.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
		}
	}

	// 4. ユーザーを削除（identities, user_settingsはCASCADE削除）
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
