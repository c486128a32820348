package parse

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"toxicheck/internal/model"
)

// Freeform mode recovers a single post from raw crawled text with no
// reliable labels, e.g. the text of one individually-crawled status page.

// maxInlineBody is the cutoff below which an otherwise unmatchable blob is
// taken whole as the post body.
const maxInlineBody = 280

var (
	// Body line followed by an engagement-count line, or ending the blob.
	// Lines starting with an @handle are never the body.
	ffBodyBeforeCounts = regexp.MustCompile(`(?m)^([^@\s|][^\n]*)\n+\s*\d[\d,.]*\s*(?i:like|repl|retweet|quote|view)`)
	ffBodyWholeBlob    = regexp.MustCompile(`^([^@\n|][^\n]*?)\s*\z`)
	// First newline-delimited line.
	ffFirstLine = regexp.MustCompile(`^([^\n]+)\n`)

	// Line shapes skipped by the scan fallback.
	ffCountLine  = regexp.MustCompile(`^\d[\d,.]*[KMkm]?(?:\s*(?i:like|repl|retweet|quote|view)\w*)?$`)
	ffHandleLine = regexp.MustCompile(`^@\w+:`)
	ffLabelLine  = regexp.MustCompile(`^\|?\s*\w+:\s`)
)

// quote markers emitted by the provider around quoted statuses.
var quoteMarkers = []string{"Quoted", "Quoting"}

// FreeformText extracts the body of a single post from an unlabeled blob.
// Patterns are tried in a fixed order; when none apply and the blob is short
// enough the whole trimmed blob is returned, otherwise the empty string
// (which callers must treat as "discard this post").
func FreeformText(blob string) string {
	if m := ffBodyBeforeCounts.FindStringSubmatch(blob); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := ffBodyWholeBlob.FindStringSubmatch(blob); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	if m := ffFirstLine.FindStringSubmatch(blob); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" && !ffHandleLine.MatchString(t) {
			return t
		}
	}
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if ffCountLine.MatchString(line) || ffHandleLine.MatchString(line) || ffLabelLine.MatchString(line) {
			continue
		}
		return line
	}
	if utf8.RuneCountInString(blob) < maxInlineBody {
		return strings.TrimSpace(blob)
	}
	return ""
}

// FreeformPost builds a full post record from an unlabeled blob: body text
// via FreeformText, engagement counts via keyword-adjacent number search
// over the same blob, quote status via the provider's quote markers.
// A post with empty text signals "discard".
func FreeformPost(blob string, now time.Time) model.Post {
	p := model.Post{
		Text:      FreeformText(blob),
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	if n, ok := Metric(blob, KeywordLike); ok {
		p.FavoriteCount = n
	}
	if n, ok := Metric(blob, KeywordReply); ok {
		p.ReplyCount = n
	}
	if n, ok := Metric(blob, KeywordRetweet); ok {
		p.RetweetCount = n
	}
	if n, ok := Metric(blob, KeywordQuote); ok {
		p.QuoteCount = n
	}
	for _, q := range quoteMarkers {
		if strings.Contains(blob, q) {
			p.IsQuoteStatus = true
			break
		}
	}
	return p
}
