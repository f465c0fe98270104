package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/readtrack/internal/middleware"
	"github.com/hitoshi/readtrack/internal/model"
	"github.com/hitoshi/readtrack/internal/preview"
)

// PreviewServiceInterface はプレビューハンドラーが必要とするサービスインターフェース。
type PreviewServiceInterface interface {
	// Fetch はURLを取得してプレビュー結果を返す。
	Fetch(ctx context.Context, inputURL string) (*preview.Result, error)
}

// PreviewHandler は記事URLプレビューのHTTPハンドラー。
type PreviewHandler struct {
	service PreviewServiceInterface
}

// NewPreviewHandler はPreviewHandlerを生成する。
func NewPreviewHandler(service PreviewServiceInterface) *PreviewHandler {
	return &PreviewHandler{service: service}
}

// previewRequest はプレビューリクエストのボディ。
type previewRequest struct {
	URL string `json:"url"`
}

// previewCandidateResponse はフィードから検出された記録候補のレスポンス。
type previewCandidateResponse struct {
	Title           string `json:"title"`
	URL             string `json:"url"`
	PublicationDate string `json:"publication_date,omitempty"`
}

// previewResponse はプレビュー結果のAPIレスポンス。
type previewResponse struct {
	Kind            string                     `json:"kind"`
	Title           string                     `json:"title"`
	PublicationDate string                     `json:"publication_date,omitempty"`
	Candidates      []previewCandidateResponse `json:"candidates,omitempty"`
}

// Preview はURLのメタデータを取得する。
// POST /api/articles/preview
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}
	_ = userID

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	if req.URL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidURLError("URLが空です"))
		return
	}

	result, err := h.service.Fetch(r.Context(), req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := previewResponse{
		Kind:  string(result.Kind),
		Title: result.Title,
	}
	if result.PublishedDate != nil {
		resp.PublicationDate = result.PublishedDate.Format(dateLayout)
	}
	for _, c := range result.Candidates {
		cr := previewCandidateResponse{
			Title: c.Title,
			URL:   c.URL,
		}
		if c.PublishedDate != nil {
			cr.PublicationDate = c.PublishedDate.Format(dateLayout)
		}
		resp.Candidates = append(resp.Candidates, cr)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
