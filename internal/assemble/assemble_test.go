package assemble

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const combinedBlob = "Ship fast, apologize never. | profile_url: https://x.com/jane | name: Jane Doe | created_at: 2012-03-01 | followers_count: 1043 | statuses_count: 8712 | location: Berlin\n" +
	"First actual post body | created_at: 2025-05-30T10:00:00Z | favorite_count: 12 | reply_count: 4 | retweet_count: 2 | quote_count: 0 | lang: en\n" +
	"Second post body | favorite_count: 3 | is_quote_status: True | lang: en"

func TestFromCrawl(t *testing.T) {
	p := FromCrawl(combinedBlob, testNow)
	if p.Bio != "Ship fast, apologize never." {
		t.Fatalf("bio = %q", p.Bio)
	}
	if p.Name != "Jane Doe" || p.Location != "Berlin" {
		t.Fatalf("profile = %+v", p)
	}
	if p.FollowersCount == nil || *p.FollowersCount != 1043 {
		t.Fatalf("followers = %v", p.FollowersCount)
	}
	if p.StatusesCount == nil || *p.StatusesCount != 8712 {
		t.Fatalf("statuses = %v", p.StatusesCount)
	}
	if len(p.Posts) != 2 {
		t.Fatalf("got %d posts, want 2: %+v", len(p.Posts), p.Posts)
	}
	if p.Posts[0].Text != "First actual post body" || p.Posts[0].FavoriteCount != 12 {
		t.Fatalf("first post = %+v", p.Posts[0])
	}
	if p.Posts[1].Text != "Second post body" || !p.Posts[1].IsQuoteStatus {
		t.Fatalf("second post = %+v", p.Posts[1])
	}
}

func TestFromCrawlUnstructured(t *testing.T) {
	p := FromCrawl("nothing recognizable in here", testNow)
	if p.Bio != "" || p.Name != "" {
		t.Fatalf("profile = %+v", p)
	}
	for _, post := range p.Posts {
		if post.Text == "" {
			t.Fatalf("empty post leaked: %+v", post)
		}
	}
}

func TestFromCrawlEmpty(t *testing.T) {
	p := FromCrawl("", testNow)
	if p.Posts == nil {
		t.Fatal("posts must be non-nil")
	}
	if len(p.Posts) != 0 {
		t.Fatalf("got %d posts", len(p.Posts))
	}
}

func TestFromPostBlobs(t *testing.T) {
	blobs := []PostBlob{
		{Text: "A good post\n5 likes, 1 reply", PublishedDate: "2025-05-29T08:00:00Z"},
		{Text: "   "},
		{Text: "Another one\nQuoting @someone\n2 retweets"},
	}
	p := FromPostBlobs("bio text | name: Jane | followers_count: 9", blobs, testNow)
	if p.Name != "Jane" {
		t.Fatalf("name = %q", p.Name)
	}
	if len(p.Posts) != 2 {
		t.Fatalf("got %d posts, want 2: %+v", len(p.Posts), p.Posts)
	}
	if p.Posts[0].CreatedAt != "2025-05-29T08:00:00Z" {
		t.Fatalf("created_at = %q", p.Posts[0].CreatedAt)
	}
	if p.Posts[0].FavoriteCount != 5 || p.Posts[0].ReplyCount != 1 {
		t.Fatalf("first post = %+v", p.Posts[0])
	}
	if !p.Posts[1].IsQuoteStatus || p.Posts[1].RetweetCount != 2 {
		t.Fatalf("second post = %+v", p.Posts[1])
	}
}

func TestFromPostBlobsEmptyInputs(t *testing.T) {
	p := FromPostBlobs("", nil, testNow)
	if p.Posts == nil || len(p.Posts) != 0 {
		t.Fatalf("posts = %v", p.Posts)
	}
}
