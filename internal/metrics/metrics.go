package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxicheck_analysis_runs_total",
		Help: "Total analysis runs",
	})
	AnalysisErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxicheck_analysis_errors_total",
		Help: "Total failed analysis runs",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxicheck_cache_hits_total",
		Help: "Total verdict cache hits",
	})
	PostsParsed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxicheck_posts_parsed_total",
		Help: "Total posts extracted from crawled text",
	})
	PostsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "toxicheck_posts_dropped_total",
		Help: "Total post chunks dropped for empty extracted text",
	})
	ClassifyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "toxicheck_classify_duration_seconds",
		Help:    "Classification call duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxicheck_api_retries_total",
		Help: "Total content provider retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxicheck_command_runs_total",
		Help: "Total CLI command runs",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "toxicheck_command_errors_total",
		Help: "Total CLI command errors",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(AnalysisRuns, AnalysisErrors, CacheHits, PostsParsed,
		PostsDropped, ClassifyDuration, APIRetries, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveClassifyDuration records one classification call duration.
func ObserveClassifyDuration(start time.Time) {
	ClassifyDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

// IncCommandRun increments the run counter for a CLI command.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError increments the error counter for a CLI command.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
