// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordArticleLogged()
	RecordMissedDayMarked()
	RecordArticleDeleted()
	RecordCalendarBuild(duration time.Duration)
	RecordPreviewFetch(kind string, success bool)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	articlesLogged  prometheus.Counter
	missedDays      prometheus.Counter
	articlesDeleted prometheus.Counter
	calendarLatency prometheus.Histogram
	previewFetches  *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		articlesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "readtrack_articles_logged_total",
			Help: "記録された読了記事の合計数",
		}),
		missedDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "readtrack_missed_days_marked_total",
			Help: "マークされた「読まなかった日」の合計数",
		}),
		articlesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "readtrack_articles_deleted_total",
			Help: "削除された記録の合計数",
		}),
		calendarLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "readtrack_calendar_build_seconds",
			Help:    "カレンダー集計のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		previewFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readtrack_preview_fetch_total",
			Help: "プレビュー取得の種類・成否別の合計数",
		}, []string{"kind", "result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readtrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.articlesLogged,
		c.missedDays,
		c.articlesDeleted,
		c.calendarLatency,
		c.previewFetches,
		c.httpStatus,
	)

	return c
}

// RecordArticleLogged は読了記事の記録を記録する。
func (c *Collector) RecordArticleLogged() {
	c.articlesLogged.Inc()
}

// RecordMissedDayMarked は「読まなかった日」のマークを記録する。
func (c *Collector) RecordMissedDayMarked() {
	c.missedDays.Inc()
}

// RecordArticleDeleted は記録の削除を記録する。
func (c *Collector) RecordArticleDeleted() {
	c.articlesDeleted.Inc()
}

// RecordCalendarBuild はカレンダー集計のレイテンシを記録する。
func (c *Collector) RecordCalendarBuild(duration time.Duration) {
	c.calendarLatency.Observe(duration.Seconds())
}

// RecordPreviewFetch はプレビュー取得の結果を記録する。
func (c *Collector) RecordPreviewFetch(kind string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	if kind == "" {
		kind = "unknown"
	}
	c.previewFetches.WithLabelValues(kind, result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
