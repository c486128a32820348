package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"toxicheck/internal/model"
)

// systemInstruction is the behavioral brief sent to the classification
// provider. The score-boosting policy lives here as instruction text only;
// nothing in this package enforces it.
const systemInstruction = `You're an expert AI for analyzing social media toxicity. Analyze the following posts from the given user and determine their toxicity level.

Provide a comprehensive assessment with:
1. Overall toxicity score (1-100) — remember, no one is completely innocent! If the user shows any signs of toxicity, boost their score by at least 50.
2. Category breakdowns (hate speech, harassment, profanity, misinformation) — let's see where they stand!
3. Examples of the most toxic posts — highlight the gems!
4. A brief and humorous explanation of your assessment — keep it short and fun!

Be objective and fair in your analysis. Consider both the content and the context of posts. Avoid political bias — focus only on objective markers of toxicity like personal attacks, threats, slurs, etc.

If the user employs slurs or particularly offensive language, boost their toxicity level significantly! Remember, we want to keep it light-hearted but honest. Everyone has a little toxicity in them; let's embrace it with a smile!`

// buildUserPrompt serializes the assembled profile deterministically:
// metadata first with fixed key order, then posts in their original order.
func buildUserPrompt(username string, p model.Profile) string {
	meta := p
	meta.Posts = nil
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")

	var posts strings.Builder
	for i, post := range p.Posts {
		if i > 0 {
			posts.WriteString("\n\n")
		}
		quote := ""
		if post.IsQuoteStatus {
			quote = ` is_quote="true"`
		}
		fmt.Fprintf(&posts, "<post id=\"%d\"%s>\n%s\n%d likes, %d replies, %d retweets, %d quotes\n</post>",
			i, quote, post.Text, post.FavoriteCount, post.ReplyCount, post.RetweetCount, post.QuoteCount)
	}

	return fmt.Sprintf("Username: @%s\n\n<user_profile>\n%s\n</user_profile>\n\n<user_posts count=\"%d\">\n%s\n</user_posts>",
		username, metaJSON, len(p.Posts), posts.String())
}
