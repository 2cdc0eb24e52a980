package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"bookbot/pkg/models"
)

var ratingRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// GoodreadsReviews searches Goodreads for the book and scrapes up to
// maxReviews reader reviews from the first hit's page.
func (s *Scraper) GoodreadsReviews(ctx context.Context, title, author string, maxReviews int) []models.Review {
	searchURL := s.GoodreadsBase + "/search?q=" + url.QueryEscape(searchQuery(title, author))

	doc, err := s.fetchDoc(ctx, searchURL)
	if err != nil {
		s.log.Warn("goodreads search failed", zap.String("title", title), zap.Error(err))
		return nil
	}

	href, ok := doc.Find("a.bookTitle").First().Attr("href")
	if !ok {
		s.log.Warn("no goodreads result", zap.String("title", title))
		return nil
	}
	bookURL := resolveURL(searchURL, href)

	bookDoc, err := s.fetchDoc(ctx, bookURL)
	if err != nil {
		s.log.Warn("goodreads book page failed", zap.String("url", bookURL), zap.Error(err))
		return nil
	}

	var reviews []models.Review
	bookDoc.Find("div.review").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Find("div.reviewText").Text())
		if text == "" {
			return true
		}

		name := strings.TrimSpace(sel.Find("a.user").Text())
		if name == "" {
			name = "Unknown"
		}

		rating := 0.0
		if t, ok := sel.Find("span.staticStars").Attr("title"); ok {
			if m := ratingRe.FindString(t); m != "" {
				rating, _ = strconv.ParseFloat(m, 64)
			}
		}

		date := strings.TrimSpace(sel.Find("a.reviewDate").Text())
		if date == "" {
			date = "Unknown"
		}

		reviews = append(reviews, models.Review{
			ReviewerName: name,
			Rating:       rating,
			ReviewText:   text,
			ReviewDate:   date,
			Source:       "Goodreads",
		})
		return len(reviews) < maxReviews
	})

	s.log.Info("scraped goodreads reviews", zap.String("title", title), zap.Int("count", len(reviews)))
	return reviews
}

// resolveURL joins a possibly relative href against the page it came from.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
