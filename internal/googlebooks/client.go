// Package googlebooks is the remote source adapter: it builds intent-specific
// queries over the Google Books volumes endpoint, normalizes the response
// into models.Book and caches parsed results keyed by request signature.
//
// Remote failures (HTTP status, timeout, network) never reach callers; each
// operation returns empty results instead, logged here.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/cache"
	"bookbot/pkg/models"
)

// Google Books rejects maxResults above 40.
const maxResultsCap = 40

// Store is the slice of the cache layer this adapter needs.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
}

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	store Store
	log   *zap.Logger
}

// New builds a client. An empty API key is allowed (default quota applies)
// but logged once as degraded mode.
func New(baseURL, apiKey string, store Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if apiKey == "" {
		log.Warn("google books api key not set, running on default quota")
	}
	if store == nil {
		store = cache.Disabled()
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
		log:     log,
	}
}

// Search runs a free-form volumes query ordered by relevance.
func (c *Client) Search(ctx context.Context, query string, maxResults, startIndex int) []models.Book {
	key := cache.Key("search", map[string]string{
		"query":       query,
		"max_results": strconv.Itoa(maxResults),
		"start_index": strconv.Itoa(startIndex),
	})
	return c.cachedList(ctx, key, cache.SearchTTL, query, maxResults, startIndex, "relevance")
}

// ByISBN looks up a single volume by ISBN-10 or ISBN-13.
func (c *Client) ByISBN(ctx context.Context, isbn string) *models.Book {
	key := cache.Key("isbn", map[string]string{"isbn": isbn})
	return c.cachedLookup(ctx, key, "isbn:"+isbn)
}

// ByTitle looks up the best volume match for an exact title.
func (c *Client) ByTitle(ctx context.Context, title string) *models.Book {
	key := cache.Key("title", map[string]string{"title": title})
	return c.cachedLookup(ctx, key, fmt.Sprintf("intitle:%q", title))
}

// ByAuthor lists volumes by an author.
func (c *Client) ByAuthor(ctx context.Context, author string, maxResults int) []models.Book {
	key := cache.Key("author", map[string]string{
		"author":      author,
		"max_results": strconv.Itoa(maxResults),
	})
	return c.cachedList(ctx, key, cache.SearchTTL, fmt.Sprintf("inauthor:%q", author), maxResults, 0, "relevance")
}

// ByGenre lists volumes in a subject/category.
func (c *Client) ByGenre(ctx context.Context, genre string, maxResults int) []models.Book {
	key := cache.Key("genre", map[string]string{
		"genre":       genre,
		"max_results": strconv.Itoa(maxResults),
	})
	return c.cachedList(ctx, key, cache.SearchTTL, fmt.Sprintf("subject:%q", genre), maxResults, 0, "relevance")
}

// Bestsellers lists currently popular volumes.
func (c *Client) Bestsellers(ctx context.Context, maxResults int) []models.Book {
	key := cache.Key("bestsellers", map[string]string{"max_results": strconv.Itoa(maxResults)})
	return c.cachedList(ctx, key, cache.SearchTTL, "bestseller OR popular OR trending", maxResults, 0, "relevance")
}

// NewReleases lists volumes published within the last two years, newest
// first.
func (c *Client) NewReleases(ctx context.Context, maxResults int) []models.Book {
	key := cache.Key("new_releases", map[string]string{"max_results": strconv.Itoa(maxResults)})
	q := fmt.Sprintf("publishedDate:>%d", time.Now().Year()-2)
	return c.cachedList(ctx, key, cache.SearchTTL, q, maxResults, 0, "newest")
}

func (c *Client) cachedList(ctx context.Context, key string, ttl time.Duration, query string, maxResults, startIndex int, orderBy string) []models.Book {
	var cached []models.Book
	if c.store.Get(ctx, key, &cached) {
		return cached
	}

	books := c.fetch(ctx, query, maxResults, startIndex, orderBy)
	if books != nil {
		c.store.Set(ctx, key, books, ttl)
	}
	return books
}

func (c *Client) cachedLookup(ctx context.Context, key, query string) *models.Book {
	var cached models.Book
	if c.store.Get(ctx, key, &cached) {
		return &cached
	}

	books := c.fetch(ctx, query, 1, 0, "relevance")
	if len(books) == 0 {
		return nil
	}
	c.store.Set(ctx, key, books[0], cache.LookupTTL)
	return &books[0]
}

// fetch calls the volumes endpoint and parses each item independently: one
// malformed item is skipped, not fatal. Any transport or status failure
// yields nil.
func (c *Client) fetch(ctx context.Context, query string, maxResults, startIndex int, orderBy string) []models.Book {
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		c.log.Error("bad google books base url", zap.String("url", c.BaseURL), zap.Error(err))
		return nil
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("printType", "books")
	q.Set("orderBy", orderBy)
	if startIndex > 0 {
		q.Set("startIndex", strconv.Itoa(startIndex))
	}
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.log.Error("google books: build request", zap.Error(err))
		return nil
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn("google books request failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("google books non-200 response",
			zap.Int("status", resp.StatusCode), zap.String("query", query))
		return nil
	}

	var payload struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn("google books decode failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	books := make([]models.Book, 0, len(payload.Items))
	for _, raw := range payload.Items {
		book, err := parseVolume(raw, query)
		if err != nil {
			c.log.Warn("skipping unparsable volume", zap.Error(err))
			continue
		}
		books = append(books, book)
	}
	return books
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Categories          []string `json:"categories"`
		Description         string   `json:"description"`
		PublishedDate       string   `json:"publishedDate"`
		AverageRating       *float64 `json:"averageRating"`
		RatingsCount        int      `json:"ratingsCount"`
		PageCount           *int     `json:"pageCount"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
		PreviewLink string `json:"previewLink"`
		InfoLink    string `json:"infoLink"`
	} `json:"volumeInfo"`
}

// parseVolume maps one API item into a Book. fallbackTitle keeps the title
// invariant when the volume has none.
func parseVolume(raw json.RawMessage, fallbackTitle string) (models.Book, error) {
	var v volume
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.Book{}, fmt.Errorf("decode volume: %w", err)
	}

	info := v.VolumeInfo
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = fallbackTitle
	}

	book := models.Book{
		Title:         title,
		Authors:       info.Authors,
		Categories:    info.Categories,
		Description:   info.Description,
		PublishedYear: parseYear(info.PublishedDate),
		AverageRating: info.AverageRating,
		NumPages:      info.PageCount,
		RatingsCount:  info.RatingsCount,
		Thumbnail:     info.ImageLinks.Thumbnail,
		Source:        models.SourceGoogleBooks,
		GoogleID:      v.ID,
		PreviewURL:    info.PreviewLink,
		InfoURL:       info.InfoLink,
	}

	// first ISBN_13 and first ISBN_10 win
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			if book.ISBN13 == "" {
				book.ISBN13 = id.Identifier
			}
		case "ISBN_10":
			if book.ISBN10 == "" {
				book.ISBN10 = id.Identifier
			}
		}
	}
	return book, nil
}

// parseYear extracts the year from a publishedDate like "2004", "2004-09"
// or "2004-09-01".
func parseYear(date string) *int {
	if date == "" {
		return nil
	}
	year, _, _ := strings.Cut(date, "-")
	n, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	return models.IntPtr(n)
}
