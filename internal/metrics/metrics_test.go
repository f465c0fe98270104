package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	if c == nil {
		t.Fatal("expected non-nil collector")
	}
}

// TestRecordArticleLogged_IncrementsCounter は記録作成カウンタが増加することを検証する。
func TestRecordArticleLogged_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordArticleLogged()
	c.RecordArticleLogged()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_articles_logged_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 2 {
				t.Errorf("articles_logged_total = %v, want 2", val)
			}
		}
	}
	if !found {
		t.Error("readtrack_articles_logged_total metric not found")
	}
}

// TestRecordMissedDayMarked_IncrementsCounter は未読日マークカウンタが増加することを検証する。
func TestRecordMissedDayMarked_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMissedDayMarked()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_missed_days_marked_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 1 {
				t.Errorf("missed_days_marked_total = %v, want 1", val)
			}
		}
	}
	if !found {
		t.Error("readtrack_missed_days_marked_total metric not found")
	}
}

// TestRecordArticleDeleted_IncrementsCounter は記録削除カウンタが増加することを検証する。
func TestRecordArticleDeleted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordArticleDeleted()
	c.RecordArticleDeleted()
	c.RecordArticleDeleted()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_articles_deleted_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 3 {
				t.Errorf("articles_deleted_total = %v, want 3", val)
			}
		}
	}
	if !found {
		t.Error("readtrack_articles_deleted_total metric not found")
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "200":
					if val != 2 {
						t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
					}
				case "404":
					if val != 1 {
						t.Errorf("http_status_total{status_code=404} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("readtrack_http_status_total metric not found")
	}
}

// TestRecordCalendarBuild_ObservesHistogram はカレンダー集計レイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordCalendarBuild_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCalendarBuild(100 * time.Millisecond)
	c.RecordCalendarBuild(200 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_calendar_build_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample count = %d, want 2", h.GetSampleCount())
			}
			// 0.1 + 0.2 = 0.3 秒
			if h.GetSampleSum() < 0.29 || h.GetSampleSum() > 0.31 {
				t.Errorf("sample sum = %v, want ~0.3", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("readtrack_calendar_build_seconds metric not found")
	}
}

// TestRecordPreviewFetch_CountsByKindAndResult はプレビュー取得カウンタが種類・成否ラベル付きで増加することを検証する。
func TestRecordPreviewFetch_CountsByKindAndResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPreviewFetch("page", true)
	c.RecordPreviewFetch("page", true)
	c.RecordPreviewFetch("feed", false)
	c.RecordPreviewFetch("", true) // 空のkindはunknownに分類される

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "readtrack_preview_fetch_total" {
			found = true
			if len(mf.GetMetric()) != 3 {
				t.Fatalf("expected 3 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				labels := make(map[string]string)
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				val := m.GetCounter().GetValue()

				switch {
				case labels["kind"] == "page" && labels["result"] == "success":
					if val != 2 {
						t.Errorf("preview_fetch_total{page,success} = %v, want 2", val)
					}
				case labels["kind"] == "feed" && labels["result"] == "failure":
					if val != 1 {
						t.Errorf("preview_fetch_total{feed,failure} = %v, want 1", val)
					}
				case labels["kind"] == "unknown" && labels["result"] == "success":
					if val != 1 {
						t.Errorf("preview_fetch_total{unknown,success} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label combination: %v", labels)
				}
			}
		}
	}
	if !found {
		t.Error("readtrack_preview_fetch_total metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordArticleLogged()
	c.RecordMissedDayMarked()
	c.RecordHTTPStatus(200)
	c.RecordCalendarBuild(500 * time.Millisecond)
	c.RecordPreviewFetch("page", true)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"readtrack_articles_logged_total",
		"readtrack_missed_days_marked_total",
		"readtrack_http_status_total",
		"readtrack_calendar_build_seconds",
		"readtrack_preview_fetch_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordArticleLogged()
	c2.RecordArticleLogged()
	c2.RecordArticleLogged()

	metrics1, _ := reg1.Gather()
	metrics2, _ := reg2.Gather()

	var val1, val2 float64
	for _, mf := range metrics1 {
		if mf.GetName() == "readtrack_articles_logged_total" {
			val1 = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	for _, mf := range metrics2 {
		if mf.GetName() == "readtrack_articles_logged_total" {
			val2 = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	if val1 != 1 {
		t.Errorf("reg1 articles_logged = %v, want 1", val1)
	}
	if val2 != 2 {
		t.Errorf("reg2 articles_logged = %v, want 2", val2)
	}
}
