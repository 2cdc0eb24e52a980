// Package scraper pulls supplemental book information (reader reviews,
// store prices, a summary) off public sites with selector-based extraction.
// Everything here is best effort: a blocked or reshaped site yields empty
// results, never an error to the caller, and nothing is cached.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookbot/pkg/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Site base URLs, variable so tests can point at fixtures.
type Scraper struct {
	Client *http.Client

	GoodreadsBase   string
	AmazonBase      string
	BarnesNobleBase string
	WikipediaBase   string

	log *zap.Logger
}

func New(log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{
		Client:          &http.Client{Timeout: 30 * time.Second},
		GoodreadsBase:   "https://www.goodreads.com",
		AmazonBase:      "https://www.amazon.com",
		BarnesNobleBase: "https://www.barnesandnoble.com",
		WikipediaBase:   "https://en.wikipedia.org",
		log:             log,
	}
}

// fetchDoc GETs a page with a browser user agent and parses it.
func (s *Scraper) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// ScrapeAll runs every scraper concurrently and bundles whatever came back.
func (s *Scraper) ScrapeAll(ctx context.Context, title, author string) models.BookExtras {
	var extras models.BookExtras

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		extras.Reviews = s.GoodreadsReviews(gctx, title, author, 5)
		return nil
	})
	g.Go(func() error {
		extras.AmazonPrices = s.AmazonPrices(gctx, title, author)
		return nil
	})
	g.Go(func() error {
		extras.BarnesNoblePrices = s.BarnesNoblePrices(gctx, title, author)
		return nil
	})
	g.Go(func() error {
		extras.Summary = s.WikipediaSummary(gctx, title)
		return nil
	})
	_ = g.Wait()

	if extras.Reviews == nil {
		extras.Reviews = []models.Review{}
	}
	if extras.AmazonPrices == nil {
		extras.AmazonPrices = []models.StorePrice{}
	}
	if extras.BarnesNoblePrices == nil {
		extras.BarnesNoblePrices = []models.StorePrice{}
	}
	extras.TotalReviews = len(extras.Reviews)
	extras.TotalPriceListings = len(extras.AmazonPrices) + len(extras.BarnesNoblePrices)
	return extras
}

func searchQuery(title, author string) string {
	if author != "" {
		return title + " " + author
	}
	return title
}
