package assemble

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toxicheck/internal/config"
	"toxicheck/internal/exa"
	"toxicheck/internal/logging"
	"toxicheck/internal/model"
)

// Fetcher pulls a user's crawled profile page and recent posts from the
// content provider and assembles them into one Profile.
type Fetcher struct {
	client exa.ContentClient
	cfg    config.ProviderConfig
}

func NewFetcher(client exa.ContentClient, cfg config.ProviderConfig) *Fetcher {
	return &Fetcher{client: client, cfg: cfg}
}

// FetchProfile runs the fetch half of the pipeline. A failed or empty
// profile fetch returns nil and an error; failures past that point degrade
// to a profile with fewer (or zero) posts.
func (f *Fetcher) FetchProfile(ctx context.Context, username string) (*model.Profile, error) {
	profileURL := "https://x.com/" + username
	results, err := f.client.GetContents(ctx, []string{profileURL})
	if err != nil {
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	if len(results) == 0 || strings.TrimSpace(results[0].Text) == "" {
		return nil, fmt.Errorf("no profile found for @%s", username)
	}

	now := time.Now().UTC()
	profile := FromCrawl(results[0].Text, now)
	if profile.ProfileURL == "" {
		profile.ProfileURL = results[0].URL
	}

	// The combined blob usually carries the recent posts; fall back to a
	// per-status crawl when it did not.
	if len(profile.Posts) == 0 {
		logging.Debug("freeform_fallback", map[string]any{"user": username})
		profile.Posts = f.fetchPostBlobs(ctx, username, now)
	}
	return &profile, nil
}

// fetchPostBlobs searches for individual status pages and crawls them in
// freeform mode. Any failure here is non-fatal: log and return what we have.
func (f *Fetcher) fetchPostBlobs(ctx context.Context, username string, now time.Time) []model.Post {
	query := fmt.Sprintf("site:x.com/%s/status", username)
	found, err := f.client.Search(ctx, query, f.cfg.MaxPosts, f.cfg.Domains)
	if err != nil {
		logging.Error("post_search_failed", map[string]any{"user": username, "error": err.Error()})
		return []model.Post{}
	}
	urls := statusURLs(found, f.cfg.MaxPosts)
	if len(urls) == 0 {
		return []model.Post{}
	}
	contents, err := f.client.GetContents(ctx, urls)
	if err != nil {
		logging.Error("post_contents_failed", map[string]any{"user": username, "error": err.Error()})
		return []model.Post{}
	}
	blobs := make([]PostBlob, 0, len(contents))
	for _, r := range contents {
		blobs = append(blobs, PostBlob{Text: r.Text, PublishedDate: r.PublishedDate})
	}
	return FromPostBlobs("", blobs, now).Posts
}

func statusURLs(results []exa.Result, max int) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if !strings.Contains(r.URL, "/status/") {
			continue
		}
		urls = append(urls, r.URL)
		if len(urls) == max {
			break
		}
	}
	return urls
}
