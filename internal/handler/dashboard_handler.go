package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/readtrack/internal/calendar"
	"github.com/hitoshi/readtrack/internal/middleware"
	"github.com/hitoshi/readtrack/internal/model"
)

// CalendarServiceInterface はダッシュボードハンドラーが必要とするカレンダーサービスインターフェース。
type CalendarServiceInterface interface {
	// YearCalendar は指定年の日別セルを返す。
	YearCalendar(ctx context.Context, userID string, year int) ([]calendar.DayCell, error)
}

// RecentArticlesInterface は最近の記録取得のインターフェース。
type RecentArticlesInterface interface {
	// RecentArticles はマーカーを除く最近の記録を読了日降順で返す。
	RecentArticles(ctx context.Context, userID string) ([]model.Article, error)
}

// DashboardHandler はダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	calendarService CalendarServiceInterface
	recentService   RecentArticlesInterface
	now             func() time.Time
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(calendarService CalendarServiceInterface, recentService RecentArticlesInterface) *DashboardHandler {
	return &DashboardHandler{
		calendarService: calendarService,
		recentService:   recentService,
		now:             time.Now,
	}
}

// --- レスポンス型 ---

// dayCellResponse はカレンダー1日分のAPIレスポンス。
// colorが空文字列の場合は活動なし（背景色で描画する）。
type dayCellResponse struct {
	Date        string `json:"date"`
	Count       int    `json:"count"`
	Color       string `json:"color"`
	IsMissedDay bool   `json:"is_missed_day"`
}

// calendarResponse は年間カレンダーのAPIレスポンス。
type calendarResponse struct {
	Year string            `json:"year"`
	Days []dayCellResponse `json:"days"`
}

// Calendar は年間カレンダーを取得する。
// GET /api/dashboard/calendar?year=2026
// yearが未指定または不正な場合は現在年を使用する。
func (h *DashboardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	year := h.now().UTC().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= 9999 {
			year = parsed
		}
	}

	cells, err := h.calendarService.YearCalendar(r.Context(), userID, year)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := calendarResponse{
		Year: strconv.Itoa(year),
		Days: make([]dayCellResponse, len(cells)),
	}
	for i, c := range cells {
		resp.Days[i] = dayCellResponse{
			Date:        c.Date.Format(dateLayout),
			Count:       c.Count,
			Color:       c.Color,
			IsMissedDay: c.IsMissedDay,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Recent は最近の記録を取得する。
// GET /api/dashboard/recent
func (h *DashboardHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, unauthorizedError())
		return
	}

	articles, err := h.recentService.RecentArticles(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]articleResponse, len(articles))
	for i, a := range articles {
		resp[i] = toArticleResponse(&a)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"articles": resp,
	})
}
