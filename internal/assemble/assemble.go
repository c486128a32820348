// Package assemble turns raw content-provider output into canonical profile
// records and orchestrates the fetch -> parse -> classify pipeline. Parsing
// problems degrade to partial profiles; only a failed profile fetch is fatal.
package assemble

import (
	"time"

	"toxicheck/internal/logging"
	"toxicheck/internal/metrics"
	"toxicheck/internal/model"
	"toxicheck/internal/parse"
	"toxicheck/internal/util"
)

// PostBlob is one individually-crawled post: its raw text plus the publish
// date the provider reported, when it did.
type PostBlob struct {
	Text          string
	PublishedDate string
}

// FromCrawl assembles a profile from one combined crawl blob: profile
// metadata up front, structured post blocks after. Never panics past its
// boundary; on an inner panic the best-effort profile so far is returned.
func FromCrawl(raw string, now time.Time) (p model.Profile) {
	defer recoverInto(&p, "from_crawl", raw)
	meta, postsBlob := parse.SplitProfile(raw)
	p = parse.ProfileFields(meta)
	p.Posts = keepNonEmpty(parse.Posts(postsBlob, now))
	return p
}

// FromPostBlobs assembles a profile from a metadata blob plus individually
// crawled post blobs (freeform mode). Either input may be empty; empty posts
// yield posts: [], not an error.
func FromPostBlobs(meta string, blobs []PostBlob, now time.Time) (p model.Profile) {
	defer recoverInto(&p, "from_post_blobs", meta)
	p = parse.ProfileFields(meta)
	posts := make([]model.Post, 0, len(blobs))
	for _, b := range blobs {
		post := parse.FreeformPost(b.Text, now)
		if b.PublishedDate != "" {
			post.CreatedAt = b.PublishedDate
		}
		posts = append(posts, post)
	}
	p.Posts = keepNonEmpty(posts)
	return p
}

// keepNonEmpty enforces the no-empty-text invariant and keeps the parse
// counters honest.
func keepNonEmpty(posts []model.Post) []model.Post {
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Text == "" {
			metrics.PostsDropped.Inc()
			continue
		}
		metrics.PostsParsed.Inc()
		out = append(out, p)
	}
	return out
}

func recoverInto(p *model.Profile, stage, blob string) {
	if r := recover(); r != nil {
		logging.Error("assemble_panic", map[string]any{
			"stage":   stage,
			"panic":   r,
			"preview": util.Truncate(util.NormalizeWhitespace(blob), 120),
		})
		if p.Posts == nil {
			p.Posts = []model.Post{}
		}
	}
}
