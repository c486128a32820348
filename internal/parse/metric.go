// Package parse extracts structured profile and post data from the
// semi-structured text blobs returned by the content provider. The upstream
// format is undocumented pipe-delimited pseudo-YAML and is inconsistently
// populated, so every extractor here degrades to partial or empty output
// instead of returning errors.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword stems used for freeform engagement extraction.
const (
	KeywordLike    = "like"
	KeywordReply   = "repl"
	KeywordRetweet = "retweet"
	KeywordQuote   = "quote"
)

func metricPattern(keyword string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)(\d+)\s*` + regexp.QuoteMeta(keyword))
}

// Patterns for the known stems are built once; ad-hoc keywords compile per
// call so concurrent callers never share mutable state.
var metricPatterns = map[string]*regexp.Regexp{
	KeywordLike:    regexp.MustCompile(`(?i)(\d+)\s*like`),
	KeywordReply:   regexp.MustCompile(`(?i)(\d+)\s*repl`),
	KeywordRetweet: regexp.MustCompile(`(?i)(\d+)\s*retweet`),
	KeywordQuote:   regexp.MustCompile(`(?i)(\d+)\s*quote`),
}

// Metric finds the first decimal integer immediately followed (modulo
// whitespace) by keyword in text, case-insensitive. The keyword is treated as
// a stem, so "repl" matches "replies" and "like" matches "likes". Returns
// false when no match is found or the pattern cannot be built.
func Metric(text, keyword string) (int, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0, false
	}
	re, ok := metricPatterns[keyword]
	if !ok {
		var err error
		re, err = metricPattern(keyword)
		if err != nil {
			return 0, false
		}
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
