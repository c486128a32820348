package assemble

import (
	"context"

	"github.com/google/uuid"

	"toxicheck/internal/classify"
	"toxicheck/internal/logging"
	"toxicheck/internal/metrics"
	"toxicheck/internal/model"
	"toxicheck/internal/util"
)

// VerdictCache is the optional username-keyed cache of past verdicts.
type VerdictCache interface {
	Get(ctx context.Context, username string) (*model.Report, bool, error)
	Put(ctx context.Context, username string, report model.Report) error
}

// Analyzer runs the whole analysis: cache lookup, fetch, parse, classify,
// cache store.
type Analyzer struct {
	fetcher    *Fetcher
	classifier classify.Classifier
	cache      VerdictCache // may be nil
}

func NewAnalyzer(fetcher *Fetcher, classifier classify.Classifier, cache VerdictCache) *Analyzer {
	return &Analyzer{fetcher: fetcher, classifier: classifier, cache: cache}
}

// Analyze produces the toxicity verdict for one username. The returned error
// is non-nil only when the profile itself could not be fetched; a failed
// classification call instead yields the all-zero isError result.
func (a *Analyzer) Analyze(ctx context.Context, username string) (model.Analysis, error) {
	user := util.CleanUsername(username)
	reqID := uuid.NewString()
	fields := map[string]any{"user": user, "request_id": reqID}
	metrics.AnalysisRuns.Inc()

	if a.cache != nil {
		if report, ok, err := a.cache.Get(ctx, user); err == nil && ok {
			metrics.CacheHits.Inc()
			logging.Info("analysis_cached", fields)
			return model.Analysis{Report: *report, Cached: true}, nil
		} else if err != nil {
			logging.Error("cache_get_failed", map[string]any{"user": user, "request_id": reqID, "error": err.Error()})
		}
	}

	profile, err := a.fetcher.FetchProfile(ctx, user)
	if err != nil {
		metrics.AnalysisErrors.Inc()
		return model.Analysis{}, err
	}
	if len(profile.Posts) == 0 {
		logging.Info("analysis_no_posts", fields)
		return model.NoDataAnalysis(), nil
	}

	report, err := a.classifier.Classify(ctx, user, *profile)
	if err != nil {
		metrics.AnalysisErrors.Inc()
		logging.Error("classify_failed", map[string]any{"user": user, "request_id": reqID, "error": err.Error()})
		return model.ErrorAnalysis(), nil
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, user, report); err != nil {
			logging.Error("cache_put_failed", map[string]any{"user": user, "request_id": reqID, "error": err.Error()})
		}
	}
	fields["toxicity"] = report.ToxicityLevel
	fields["posts"] = len(profile.Posts)
	logging.Info("analysis_done", fields)
	return model.Analysis{Report: report}, nil
}
