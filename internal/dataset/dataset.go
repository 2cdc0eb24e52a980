package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bookbot/pkg/models"
)

// Expected CSV columns. Extra columns are ignored; missing ones leave the
// corresponding field empty.
var columns = []string{
	"title", "authors", "categories", "description", "published_year",
	"average_rating", "num_pages", "ratings_count", "thumbnail", "isbn13", "isbn10",
}

// Relevance weights for Search. A row scores the sum of every matching
// clause plus a title-similarity bonus; rows scoring zero are excluded.
const (
	titleWeight       = 10
	authorWeight      = 8
	categoryWeight    = 6
	descriptionWeight = 4
	similarityWeight  = 5
)

// Table is the in-memory book dataset. It is loaded once at startup and
// read-only afterwards, so concurrent searches need no locking.
type Table struct {
	books []models.Book
	log   *zap.Logger
}

// New builds a Table directly from records. Used by tests and the
// test-data generator.
func New(books []models.Book, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	return &Table{books: books, log: log}
}

// Load reads the dataset CSV at path. A missing or corrupt file degrades to
// an empty table: the failure is logged once and every subsequent search
// returns no results, it never propagates.
func Load(path string, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("dataset unavailable, searches will return empty", zap.String("path", path), zap.Error(err))
		return &Table{log: log}
	}
	defer f.Close()

	books, err := parseCSV(f)
	if err != nil {
		log.Warn("dataset load failed, searches will return empty", zap.String("path", path), zap.Error(err))
		return &Table{log: log}
	}

	log.Info("dataset loaded", zap.String("path", path), zap.Int("books", len(books)))
	return &Table{books: books, log: log}
}

func parseCSV(r io.Reader) ([]models.Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := idx["title"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "title")
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var books []models.Book
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// one malformed row should not drop the whole table
			continue
		}

		title := field(rec, "title")
		if title == "" {
			continue
		}

		books = append(books, models.Book{
			Title:         title,
			Authors:       splitMulti(field(rec, "authors")),
			Categories:    splitMulti(field(rec, "categories")),
			Description:   field(rec, "description"),
			PublishedYear: parseIntField(field(rec, "published_year")),
			AverageRating: parseFloatField(field(rec, "average_rating")),
			NumPages:      parseIntField(field(rec, "num_pages")),
			RatingsCount:  intOrZero(field(rec, "ratings_count")),
			Thumbnail:     field(rec, "thumbnail"),
			ISBN13:        field(rec, "isbn13"),
			ISBN10:        field(rec, "isbn10"),
			Source:        models.SourceDataset,
		})
	}
	return books, nil
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.books) }

// Empty reports whether the table failed to load or has no rows.
func (t *Table) Empty() bool { return len(t.books) == 0 }

// Search scans every row, scores it against the query and returns the top
// maxResults records ordered by descending relevance. The sort is stable so
// equal scores keep original row order.
func (t *Table) Search(query string, maxResults int) []models.Book {
	if t.Empty() || strings.TrimSpace(query) == "" {
		return nil
	}

	q := strings.ToLower(query)
	var results []models.Book

	for _, b := range t.books {
		score := 0.0
		if strings.Contains(strings.ToLower(b.Title), q) {
			score += titleWeight
		}
		if containsFold(b.Authors, q) {
			score += authorWeight
		}
		if containsFold(b.Categories, q) {
			score += categoryWeight
		}
		if strings.Contains(strings.ToLower(b.Description), q) {
			score += descriptionWeight
		}
		score += similarityWeight * Similarity(query, b.Title)

		if score > 0 {
			b.RelevanceScore = models.Float64Ptr(score)
			results = append(results, b)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].RelevanceScore > *results[j].RelevanceScore
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// All returns up to limit rows in table order.
func (t *Table) All(limit int) []models.Book {
	if limit <= 0 || limit > len(t.books) {
		limit = len(t.books)
	}
	out := make([]models.Book, limit)
	copy(out, t.books[:limit])
	return out
}

// TopRated returns the n highest-rated rows. Rows without a rating are
// excluded.
func (t *Table) TopRated(n int) []models.Book {
	rated := make([]models.Book, 0, len(t.books))
	for _, b := range t.books {
		if b.AverageRating != nil {
			rated = append(rated, b)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AverageRating > *rated[j].AverageRating
	})
	if n > 0 && len(rated) > n {
		rated = rated[:n]
	}
	return rated
}

func containsFold(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// splitMulti splits a semicolon-separated cell into trimmed values.
func splitMulti(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIntField tolerates float-formatted integers ("2004.0") the way the
// dataset exports them.
func parseIntField(s string) *int {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return models.IntPtr(int(f))
}

func parseFloatField(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return models.Float64Ptr(f)
}

func intOrZero(s string) int {
	if p := parseIntField(s); p != nil {
		return *p
	}
	return 0
}
