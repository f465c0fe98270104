// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/readtrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// SetHasSetupCategories はカテゴリ初期セットアップ済みフラグを更新する。
	SetHasSetupCategories(ctx context.Context, id string, done bool) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するidentities、sessions、user_settingsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ArticleRepository は読書記録の永続化インターフェース。
type ArticleRepository interface {
	// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// ListByUser はユーザーの全記録を作成順（挿入順）で返す。
	// コレクション検索エンジンの安定ソートのタイブレークはこの順序に依存する。
	ListByUser(ctx context.Context, userID string) ([]model.Article, error)

	// ListByUserAndDateRange は読了日がstartからend（両端含む）の記録を返す。
	// カレンダー集計の入力として使用する。
	ListByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Article, error)

	// Create は記録を作成する。
	// (user_id, read_date)のマーカー一意制約に違反した場合は
	// DUPLICATE_MISSED_DAYのAPIErrorを返す。
	Create(ctx context.Context, article *model.Article) error

	// Delete は指定IDの記録を削除する。
	Delete(ctx context.Context, id string) error

	// DeleteByUserID はユーザーの全記録を削除する。
	DeleteByUserID(ctx context.Context, userID string) error

	// ExistsMissedDay は指定ユーザー・日付の「読まなかった日」マーカーの有無を返す。
	ExistsMissedDay(ctx context.Context, userID string, date time.Time) (bool, error)

	// CountByCategory は指定カテゴリを参照している記録数を返す。
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

// CategoryRepository はカテゴリの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// ListByUser はユーザーのカテゴリ一覧をsort_order昇順で返す。
	ListByUser(ctx context.Context, userID string) ([]model.Category, error)

	// ExistsByUserAndName は同名カテゴリの有無を返す。
	// excludeIDが空でない場合、そのIDのカテゴリは比較から除外する（編集時用）。
	ExistsByUserAndName(ctx context.Context, userID, name, excludeID string) (bool, error)

	// Create はカテゴリを作成する。
	// (user_id, name)の一意制約に違反した場合は
	// DUPLICATE_CATEGORY_NAMEのAPIErrorを返す。
	Create(ctx context.Context, category *model.Category) error

	// Update はカテゴリの名前・色・表示順を更新する。
	Update(ctx context.Context, category *model.Category) error

	// Delete は指定IDのカテゴリを削除する。
	Delete(ctx context.Context, id string) error

	// DeleteByUserID はユーザーの全カテゴリを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// SettingsRepository はユーザー設定の永続化インターフェース。
type SettingsRepository interface {
	// FindByUserID は指定ユーザーの設定を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.UserSettings, error)

	// Upsert は設定を冪等にUPSERTする。
	Upsert(ctx context.Context, settings *model.UserSettings) error
}
