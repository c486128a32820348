package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	AnalysisRuns.Inc()
	AnalysisErrors.Inc()
	PostsParsed.Inc()
	PostsDropped.Inc()
	IncAPIRetry("/contents")
	IncCommandRun("analyze")
	ObserveClassifyDuration(time.Now().Add(-1500 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"toxicheck_analysis_runs_total",
		"toxicheck_analysis_errors_total",
		"toxicheck_posts_parsed_total",
		"toxicheck_posts_dropped_total",
		"toxicheck_classify_duration_seconds",
		"toxicheck_api_retries_total",
		"toxicheck_command_runs_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}
