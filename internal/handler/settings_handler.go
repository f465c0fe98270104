package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/readtrack/internal/middleware"
	"github.com/hitoshi/readtrack/internal/model"
)

// SettingsServiceInterface は設定ハンドラーが必要とするサービスインターフェース。
type SettingsServiceInterface interface {
	// Get はユーザー設定を返す。未作成の場合はデフォルト値で作成する。
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	// UpdateMultipleCategoriesColor は複数カテゴリ混在時の表示色を更新する。
	UpdateMultipleCategoriesColor(ctx context.Context, userID, color string) (*model.UserSettings, error)
}

// SettingsHandler はユーザー設定のHTTPハンドラー。
type SettingsHandler struct {
	service SettingsServiceInterface
}

// NewSettingsHandler はSettingsHandlerを生成する。
func NewSettingsHandler(service SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// settingsRequest は設定更新リクエストのボディ。
type settingsRequest struct {
	MultipleCategoriesColor string `json:"multiple_categories_color"`
}

// settingsResponse はユーザー設定のAPIレスポンス。
type settingsResponse struct {
	MultipleCategoriesColor string `json:"multiple_categories_color"`
}

// GetSettings はユーザー設定を取得する。
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	settings, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settingsResponse{
		MultipleCategoriesColor: settings.MultipleCategoriesColor,
	})
}

// UpdateSettings はユーザー設定を更新する。
// PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	settings, err := h.service.UpdateMultipleCategoriesColor(r.Context(), userID, req.MultipleCategoriesColor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settingsResponse{
		MultipleCategoriesColor: settings.MultipleCategoriesColor,
	})
}
