package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/readtrack/internal/article"
	"github.com/hitoshi/readtrack/internal/middleware"
	"github.com/hitoshi/readtrack/internal/model"
)

// dateLayout は日付フィールドのJSON表現（YYYY-MM-DD）。
const dateLayout = "2006-01-02"

// ArticleServiceInterface は記録ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	// LogArticle は読了記事を記録する。
	LogArticle(ctx context.Context, userID string, input article.LogArticleInput) (*model.Article, error)
	// MarkMissedDay は今日を「読まなかった日」としてマークする。
	MarkMissedDay(ctx context.Context, userID string) (*model.Article, error)
	// DeleteArticle は記録を削除する。
	DeleteArticle(ctx context.Context, userID, articleID string) error
	// ListArticles は記録一覧を検索・フィルタ・ソートして返す。
	ListArticles(ctx context.Context, userID string, params article.QueryParams) (*article.QueryResult, error)
}

// ArticleHandler は読書記録管理のHTTPハンドラー。
type ArticleHandler struct {
	service ArticleServiceInterface
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(service ArticleServiceInterface) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// logArticleRequest は記録作成リクエストのボディ。
type logArticleRequest struct {
	Title           string  `json:"title"`
	PublicationDate string  `json:"publication_date"`
	URL             string  `json:"url"`
	ReadDate        string  `json:"read_date"`
	CategoryID      *string `json:"category_id,omitempty"`
}

// articleResponse は記録1件のAPIレスポンス。
type articleResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	PublicationDate string  `json:"publication_date"`
	URL             string  `json:"url"`
	ReadDate        string  `json:"read_date"`
	IsMissedDay     bool    `json:"is_missed_day"`
	CategoryID      *string `json:"category_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// articleListResponse は記録一覧のAPIレスポンス。
// total_readとtotal_missedはフィルタ適用後の件数。
type articleListResponse struct {
	Articles    []articleResponse `json:"articles"`
	TotalRead   int               `json:"total_read"`
	TotalMissed int               `json:"total_missed"`
}

// ListArticles は記録一覧を取得する。
// GET /api/articles?search=xxx&filter=all|read|missed&sort=title|publication_date|read_date&direction=asc|desc
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	q := r.URL.Query()
	params := article.QueryParams{
		Search:    q.Get("search"),
		Filter:    model.ArticleFilterAll,
		SortField: model.SortFieldReadDate,
		Direction: model.SortDesc,
	}
	if v := q.Get("filter"); v != "" {
		params.Filter = model.ArticleFilter(v)
	}
	if v := q.Get("sort"); v != "" {
		params.SortField = model.ArticleSortField(v)
	}
	if v := q.Get("direction"); v != "" {
		params.Direction = model.SortDirection(v)
	}

	result, err := h.service.ListArticles(r.Context(), userID, params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := articleListResponse{
		Articles:    make([]articleResponse, len(result.Articles)),
		TotalRead:   result.TotalRead,
		TotalMissed: result.TotalMissed,
	}
	for i, a := range result.Articles {
		resp.Articles[i] = toArticleResponse(&a)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// LogArticle は読了記事を記録する。
// POST /api/articles
func (h *ArticleHandler) LogArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	var req logArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	pubDate, err := parseDateField(req.PublicationDate, "publication_date")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	readDate, err := parseDateField(req.ReadDate, "read_date")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	created, err := h.service.LogArticle(r.Context(), userID, article.LogArticleInput{
		Title:           req.Title,
		PublicationDate: pubDate,
		URL:             req.URL,
		ReadDate:        readDate,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toArticleResponse(created))
}

// MarkMissedDay は今日を「読まなかった日」としてマークする。
// POST /api/articles/missed-day
func (h *ArticleHandler) MarkMissedDay(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	marker, err := h.service.MarkMissedDay(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toArticleResponse(marker))
}

// DeleteArticle は記録を削除する。
// DELETE /api/articles/:id
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	articleID := chi.URLParam(r, "id")

	if err := h.service.DeleteArticle(r.Context(), userID, articleID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toArticleResponse はmodel.ArticleからAPIレスポンスに変換する。
func toArticleResponse(a *model.Article) articleResponse {
	return articleResponse{
		ID:              a.ID,
		Title:           a.Title,
		PublicationDate: a.PublicationDate.Format(dateLayout),
		URL:             a.URL,
		ReadDate:        a.ReadDate.Format(dateLayout),
		IsMissedDay:     a.IsMissedDay,
		CategoryID:      a.CategoryID,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
	}
}

// parseDateField はYYYY-MM-DD形式の日付文字列をパースする。
func parseDateField(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, model.NewValidationError(field, "日付は必須です")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, model.NewValidationError(field, "日付はYYYY-MM-DD形式で指定してください")
	}
	return t, nil
}

// unauthorizedError は認証エラーのAPIErrorを生成する。
func unauthorizedError() *model.APIError {
	return &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// invalidRequestBodyError はリクエストボディ解析失敗のAPIErrorを生成する。
func invalidRequestBodyError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
