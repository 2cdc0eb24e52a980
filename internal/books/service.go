// Package books aggregates the local dataset and the Google Books adapter
// into one result set: fan-out, dataset-first ordering, title dedup and
// field-level merging.
package books

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookbot/internal/dataset"
	"bookbot/pkg/models"
)

// Preference selects which source adapters a request consults.
type Preference string

const (
	PrefDataset Preference = "dataset"
	PrefGoogle  Preference = "google"
	PrefBoth    Preference = "both"
	PrefAsk     Preference = "ask"
)

// AskPrompt is returned instead of results when the preference is unresolved.
const AskPrompt = "I can search the local dataset or the Internet (Google Books).\n\n" +
	"Please reply with one of: 'dataset', 'internet', or 'both'."

// ParsePreference normalizes a client-supplied preference. "remote" and
// "internet" are accepted as aliases for google; anything unknown resolves
// to ask.
func ParsePreference(s string) Preference {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dataset":
		return PrefDataset
	case "google", "remote", "internet":
		return PrefGoogle
	case "both":
		return PrefBoth
	default:
		return PrefAsk
	}
}

// UsesDataset reports whether the preference consults the dataset adapter.
func (p Preference) UsesDataset() bool { return p == PrefDataset || p == PrefBoth }

// UsesGoogle reports whether the preference consults the remote adapter.
func (p Preference) UsesGoogle() bool { return p == PrefGoogle || p == PrefBoth }

// Dataset is the slice of the dataset table the aggregator uses.
type Dataset interface {
	Search(query string, maxResults int) []models.Book
	All(limit int) []models.Book
	TopRated(n int) []models.Book
	Stats() dataset.Stats
	Empty() bool
	Len() int
}

// Remote is the slice of the Google Books client the aggregator uses.
type Remote interface {
	Search(ctx context.Context, query string, maxResults, startIndex int) []models.Book
	ByTitle(ctx context.Context, title string) *models.Book
	ByAuthor(ctx context.Context, author string, maxResults int) []models.Book
	ByGenre(ctx context.Context, genre string, maxResults int) []models.Book
	Bestsellers(ctx context.Context, maxResults int) []models.Book
	NewReleases(ctx context.Context, maxResults int) []models.Book
}

type Service struct {
	Dataset Dataset
	Remote  Remote
	log     *zap.Logger
}

func NewService(ds Dataset, remote Remote, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Dataset: ds, Remote: remote, log: log}
}

// Aggregate fans a query out to the adapters the preference selects and
// returns the deduplicated union, dataset results first. PrefAsk consults
// nothing and returns nil; the caller answers with AskPrompt.
func (s *Service) Aggregate(ctx context.Context, query string, pref Preference, maxResults int) []models.Book {
	if pref == PrefAsk {
		return nil
	}

	var fromDataset, fromRemote []models.Book

	// the adapters share no mutable state, so they can run in parallel
	g, gctx := errgroup.WithContext(ctx)
	if pref.UsesDataset() {
		g.Go(func() error {
			fromDataset = s.Dataset.Search(query, maxResults)
			return nil
		})
	}
	if pref.UsesGoogle() {
		g.Go(func() error {
			fromRemote = s.Remote.Search(gctx, query, maxResults, 0)
			return nil
		})
	}
	_ = g.Wait()

	// dataset before remote: the curated source wins ties in dedup
	return Dedupe(append(fromDataset, fromRemote...))
}

// Dedupe drops records whose normalized title was already seen; the first
// occurrence wins regardless of source.
func Dedupe(books []models.Book) []models.Book {
	seen := make(map[string]struct{}, len(books))
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		key := titleKey(b.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Merge combines two sourced records field by field: the primary's non-empty
// value wins, otherwise the secondary's, otherwise the field stays absent.
// Either record may be nil.
func Merge(primary, secondary *models.Book) models.Book {
	if primary == nil && secondary == nil {
		return models.Book{}
	}
	if primary == nil {
		return *secondary
	}

	merged := *primary
	if secondary == nil {
		return merged
	}

	if merged.Title == "" {
		merged.Title = secondary.Title
	}
	if len(merged.Authors) == 0 {
		merged.Authors = secondary.Authors
	}
	if len(merged.Categories) == 0 {
		merged.Categories = secondary.Categories
	}
	if merged.Description == "" {
		merged.Description = secondary.Description
	}
	if merged.PublishedYear == nil {
		merged.PublishedYear = secondary.PublishedYear
	}
	if merged.AverageRating == nil {
		merged.AverageRating = secondary.AverageRating
	}
	if merged.NumPages == nil {
		merged.NumPages = secondary.NumPages
	}
	if merged.RatingsCount == 0 {
		merged.RatingsCount = secondary.RatingsCount
	}
	if merged.Thumbnail == "" {
		merged.Thumbnail = secondary.Thumbnail
	}
	if merged.ISBN13 == "" {
		merged.ISBN13 = secondary.ISBN13
	}
	if merged.ISBN10 == "" {
		merged.ISBN10 = secondary.ISBN10
	}
	if merged.GoogleID == "" {
		merged.GoogleID = secondary.GoogleID
	}
	if merged.PreviewURL == "" {
		merged.PreviewURL = secondary.PreviewURL
	}
	if merged.InfoURL == "" {
		merged.InfoURL = secondary.InfoURL
	}
	return merged
}
