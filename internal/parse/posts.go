package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"toxicheck/internal/model"
)

// langMarker delimits individual posts inside a combined crawl blob.
var langMarker = regexp.MustCompile(`\| lang: [a-z]{2,3}(?:\s|$)`)

// postFields is the extraction table for structured post chunks. Every
// matched span is also stripped from the chunk when recovering the body text.
var postFields = []profileField{
	{name: "created_at", pattern: regexp.MustCompile(`\| created_at:\s*([^|]+)`)},
	{name: "favorite_count", pattern: regexp.MustCompile(`\| favorite_count:\s*([^|]+)`), numeric: true},
	{name: "quote_count", pattern: regexp.MustCompile(`\| quote_count:\s*([^|]+)`), numeric: true},
	{name: "reply_count", pattern: regexp.MustCompile(`\| reply_count:\s*([^|]+)`), numeric: true},
	{name: "retweet_count", pattern: regexp.MustCompile(`\| retweet_count:\s*([^|]+)`), numeric: true},
	{name: "is_quote_status", pattern: regexp.MustCompile(`\| is_quote_status:\s*([^|]+)`)},
}

// quoteTrue is the upstream literal marking a quote post. Case-sensitive.
const quoteTrue = "True"

// Posts parses a combined posts blob in structured-block mode: one chunk per
// language marker, labeled fields per chunk, body text being whatever
// survives stripping the label spans. Chunks whose body trims to empty are
// dropped. Fields that fail to parse fall back to defaults (0 counts, now as
// the timestamp); nothing here returns an error.
func Posts(blob string, now time.Time) []model.Post {
	chunks := langMarker.Split(blob, -1)
	out := make([]model.Post, 0, len(chunks))
	for _, chunk := range chunks {
		p, ok := post(chunk, now)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func post(chunk string, now time.Time) (model.Post, bool) {
	p := model.Post{CreatedAt: now.UTC().Format(time.RFC3339)}
	text := chunk
	for _, f := range postFields {
		if m := f.pattern.FindStringSubmatch(chunk); m != nil {
			assignPostField(&p, f, strings.TrimSpace(m[1]))
		}
		text = f.pattern.ReplaceAllString(text, "")
	}
	p.Text = strings.TrimSpace(text)
	if p.Text == "" {
		return model.Post{}, false
	}
	return p, true
}

func assignPostField(p *model.Post, f profileField, v string) {
	if f.numeric {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return
		}
		switch f.name {
		case "favorite_count":
			p.FavoriteCount = n
		case "quote_count":
			p.QuoteCount = n
		case "reply_count":
			p.ReplyCount = n
		case "retweet_count":
			p.RetweetCount = n
		}
		return
	}
	switch f.name {
	case "created_at":
		p.CreatedAt = v
	case "is_quote_status":
		p.IsQuoteStatus = v == quoteTrue
	}
}
