package classify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"toxicheck/internal/model"
)

func fakeResponse(status int, verdict string) *http.Response {
	body := `{"candidates":[{"content":{"parts":[{"text":` + jsonString(verdict) + `}]}}]}`
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func testProfile() model.Profile {
	return model.Profile{
		Bio:  "test bio",
		Name: "Jane",
		Posts: []model.Post{
			{Text: "hello world", FavoriteCount: 3},
			{Text: "second post", IsQuoteStatus: true},
		},
	}
}

func withFakeDo(t *testing.T, do func(req *http.Request) (*http.Response, error)) {
	t.Helper()
	orig := httpDo
	httpDo = do
	t.Cleanup(func() { httpDo = orig })
}

func TestClassifyParsesVerdict(t *testing.T) {
	verdict := `{"toxicityLevel":62,"categories":{"hateSpeech":10,"harassment":55,"profanity":70,"misinformation":5},"toxicTweets":["hello world"],"explanation":"spicy"}`
	var gotPrompt string
	withFakeDo(t, func(req *http.Request) (*http.Response, error) {
		var body generateRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotPrompt = body.Contents[0].Parts[0].Text
		if body.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("mime type = %q", body.GenerationConfig.ResponseMimeType)
		}
		return fakeResponse(http.StatusOK, verdict), nil
	})

	c := NewClient("key", "gemini-1.5-flash", 0.4)
	report, err := c.Classify(context.Background(), "jane", testProfile())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if report.ToxicityLevel != 62 || report.Categories.Profanity != 70 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.ToxicPosts) != 1 || report.ToxicPosts[0] != "hello world" {
		t.Fatalf("toxic posts = %v", report.ToxicPosts)
	}
	if !strings.Contains(gotPrompt, "Username: @jane") {
		t.Fatalf("prompt missing username: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, `<post id="0">`) || !strings.Contains(gotPrompt, `<post id="1" is_quote="true">`) {
		t.Fatalf("prompt missing posts: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "3 likes, 0 replies, 0 retweets, 0 quotes") {
		t.Fatalf("prompt missing engagement footer: %q", gotPrompt)
	}
}

func TestClassifyClampsAndTruncates(t *testing.T) {
	verdict := `{"toxicityLevel":250,"categories":{"hateSpeech":-5,"harassment":0,"profanity":101,"misinformation":0},"toxicTweets":["a","b","c","d"],"explanation":"x"}`
	withFakeDo(t, func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusOK, verdict), nil
	})

	c := NewClient("key", "", 0.4)
	report, err := c.Classify(context.Background(), "jane", testProfile())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if report.ToxicityLevel != 100 || report.Categories.HateSpeech != 0 || report.Categories.Profanity != 100 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.ToxicPosts) != 3 {
		t.Fatalf("toxic posts = %v", report.ToxicPosts)
	}
}

func TestClassifyNonSuccessStatus(t *testing.T) {
	withFakeDo(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader("")), Header: make(http.Header)}, nil
	})
	c := NewClient("key", "", 0.4)
	if _, err := c.Classify(context.Background(), "jane", testProfile()); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestClassifyMalformedVerdict(t *testing.T) {
	withFakeDo(t, func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusOK, "not json at all"), nil
	})
	c := NewClient("key", "", 0.4)
	if _, err := c.Classify(context.Background(), "jane", testProfile()); err == nil {
		t.Fatal("expected error for malformed verdict")
	}
}

func TestBuildUserPromptDeterministic(t *testing.T) {
	p := testProfile()
	a := buildUserPrompt("jane", p)
	b := buildUserPrompt("jane", p)
	if a != b {
		t.Fatal("prompt serialization is not deterministic")
	}
	if !strings.Contains(a, `<user_posts count="2">`) {
		t.Fatalf("prompt = %q", a)
	}
}
