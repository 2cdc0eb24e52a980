package chat

import "strings"

// Intent labels. Classification is total: every input maps to exactly one
// of these, falling through to IntentGeneral.
type Intent string

const (
	IntentSearchBook     Intent = "search_book"
	IntentGetPrice       Intent = "get_price"
	IntentGetRating      Intent = "get_rating"
	IntentRecommend      Intent = "recommend_books"
	IntentSearchByAuthor Intent = "search_by_author"
	IntentSearchByGenre  Intent = "search_by_genre"
	IntentNewReleases    Intent = "new_releases"
	IntentSearchByPages  Intent = "search_by_pages"
	IntentBestsellers    Intent = "bestsellers"
	IntentCompareBooks   Intent = "compare_books"
	IntentGeneral        Intent = "general"
)

// intentRules are checked in order; the first keyword hit wins, so earlier
// entries take priority. Order and keyword sets are part of the chatbot's
// observable behavior, do not reorder casually.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSearchBook, []string{"search", "find", "look for", "book"}},
	{IntentGetPrice, []string{"price", "cost", "how much", "buy"}},
	{IntentGetRating, []string{"rating", "review", "stars", "score"}},
	{IntentRecommend, []string{"recommend", "suggest", "similar", "like"}},
	{IntentSearchByAuthor, []string{"author", "by", "written by"}},
	{IntentSearchByGenre, []string{"genre", "category", "type", "kind"}},
	{IntentNewReleases, []string{"year", "published", "release", "new", "new releases", "latest"}},
	{IntentSearchByPages, []string{"pages", "length", "thick", "short"}},
	{IntentBestsellers, []string{"bestseller", "trending", "popular", "top charts"}},
	{IntentCompareBooks, []string{"compare", "vs", "difference between"}},
}

// DetectIntent maps free text to an intent label by keyword-substring
// matching in fixed priority order.
func DetectIntent(message string) Intent {
	m := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(m, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}
