package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/readtrack/internal/model"
)

// PostgresSettingsRepo はPostgreSQLを使用したユーザー設定リポジトリ。
type PostgresSettingsRepo struct {
	db *sql.DB
}

// NewPostgresSettingsRepo はPostgresSettingsRepoを生成する。
func NewPostgresSettingsRepo(db *sql.DB) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: db}
}

// FindByUserID は指定ユーザーの設定を取得する。見つからない場合はnilを返す。
func (r *PostgresSettingsRepo) FindByUserID(ctx context.Context, userID string) (*model.UserSettings, error) {
	s := &model.UserSettings{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, multiple_categories_color, created_at, updated_at
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.MultipleCategoriesColor, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザー設定の取得に失敗しました: %w", err)
	}
	return s, nil
}

// Upsert は設定を冪等にUPSERTする。
func (r *PostgresSettingsRepo) Upsert(ctx context.Context, settings *model.UserSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, multiple_categories_color, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET multiple_categories_color = EXCLUDED.multiple_categories_color,
		               updated_at = now()`,
		settings.UserID, settings.MultipleCategoriesColor,
	)
	if err != nil {
		return fmt.Errorf("ユーザー設定の保存に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SettingsRepository = (*PostgresSettingsRepo)(nil)
