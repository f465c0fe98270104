package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/readtrack/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.User, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error {
	return nil
}
func (m *mockUserRepo) SetHasSetupCategories(ctx context.Context, id string, done bool) error {
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

type mockSessionRepo struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}
func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

type mockArticleDeleter struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockArticleDeleter) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

type mockCategoryDeleter struct {
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockCategoryDeleter) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFn(ctx, userID)
}

// --- テスト ---

// TestService_Withdraw は退会処理が全関連データを削除することを検証する。
// カテゴリは記録からRESTRICT参照されるため、記録の削除がカテゴリより先に行われること。
func TestService_Withdraw(t *testing.T) {
	var order []string

	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "test@example.com"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			order = append(order, "user")
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "sessions")
			return nil
		},
	}
	articleDeleter := &mockArticleDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "articles")
			return nil
		},
	}
	categoryDeleter := &mockCategoryDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			order = append(order, "categories")
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, articleDeleter, categoryDeleter)

	err := svc.Withdraw(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}

	want := []string{"sessions", "articles", "categories", "user"}
	if len(order) != len(want) {
		t.Fatalf("deletion order length = %d, want %d (%v)", len(order), len(want), order)
	}
	for i, step := range want {
		if order[i] != step {
			t.Errorf("deletion order[%d] = %q, want %q (full order: %v)", i, order[i], step, order)
		}
	}
}

// TestService_Withdraw_UserNotFound は存在しないユーザーの退会がエラーになることを検証する。
func TestService_Withdraw_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(userRepo, nil, nil, nil)

	err := svc.Withdraw(context.Background(), "nonexistent-user")
	if err == nil {
		t.Fatal("expected error for nonexistent user, got nil")
	}
}

// TestService_Withdraw_ArticleDeleteFails は記録削除が失敗したとき
// ユーザー本体の削除まで進まないことを検証する。
func TestService_Withdraw_ArticleDeleteFails(t *testing.T) {
	userDeleted := false

	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			userDeleted = true
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error { return nil },
	}
	articleDeleter := &mockArticleDeleter{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			return errors.New("db error")
		},
	}

	svc := NewService(userRepo, sessionRepo, articleDeleter, nil)

	err := svc.Withdraw(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error when article deletion fails, got nil")
	}
	if userDeleted {
		t.Error("user should not be deleted when article deletion fails")
	}
}
