package model

// Post represents one social-media post recovered from crawled text.
type Post struct {
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	FavoriteCount int    `json:"favorite_count"`
	QuoteCount    int    `json:"quote_count"`
	ReplyCount    int    `json:"reply_count"`
	RetweetCount  int    `json:"retweet_count"`
	IsQuoteStatus bool   `json:"is_quote_status,omitempty"`
}

// Profile is the assembled record for one author and their recent posts.
// Optional profile counters are pointers so an absent field stays distinct
// from a confirmed zero.
type Profile struct {
	Posts          []Post `json:"posts,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	Name           string `json:"name,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	FollowersCount *int   `json:"followers_count,omitempty"`
	StatusesCount  *int   `json:"statuses_count,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Categories breaks the overall toxicity score down by kind.
type Categories struct {
	HateSpeech     int `json:"hateSpeech"`
	Harassment     int `json:"harassment"`
	Profanity      int `json:"profanity"`
	Misinformation int `json:"misinformation"`
}

// Report is the structured verdict returned by the classification provider.
// Scores are 0-100; ToxicPosts holds up to three example excerpts.
type Report struct {
	ToxicityLevel int        `json:"toxicityLevel"`
	Categories    Categories `json:"categories"`
	ToxicPosts    []string   `json:"toxicTweets"`
	Explanation   string     `json:"explanation"`
}

// Analysis is the produced result toward the caller: the report plus
// whether it came from cache and whether classification itself failed.
type Analysis struct {
	Report
	Cached  bool `json:"cached"`
	IsError bool `json:"isError"`
}

// ErrorAnalysis is the all-zero result used when the classification call
// fails. The zero scores plus IsError distinguish it from a clean verdict.
func ErrorAnalysis() Analysis {
	return Analysis{
		Report: Report{
			ToxicPosts:  []string{},
			Explanation: "Error occurred during toxicity analysis.",
		},
		IsError: true,
	}
}

// NoDataAnalysis is returned when a profile was found but had no posts to
// analyze. Distinct from ErrorAnalysis: IsError stays false.
func NoDataAnalysis() Analysis {
	return Analysis{
		Report: Report{
			ToxicPosts:  []string{},
			Explanation: "No posts available for analysis. The user may have protected posts or no recent activity.",
		},
	}
}
