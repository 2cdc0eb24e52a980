package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	summaryMinLen = 100
	summaryMaxLen = 500
)

// WikipediaSummary fetches the article named after the title and returns its
// first substantial paragraph, truncated. Empty string when the article is
// missing or too thin.
func (s *Scraper) WikipediaSummary(ctx context.Context, title string) string {
	pageURL := s.WikipediaBase + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	doc, err := s.fetchDoc(ctx, pageURL)
	if err != nil {
		s.log.Warn("wikipedia fetch failed", zap.String("title", title), zap.Error(err))
		return ""
	}

	summary := ""
	doc.Find("div.mw-parser-output p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= summaryMinLen {
			return true
		}
		// cut on rune boundaries, article text is rarely plain ASCII
		if runes := []rune(text); len(runes) > summaryMaxLen {
			text = string(runes[:summaryMaxLen]) + "..."
		}
		summary = text
		return false
	})
	return summary
}
