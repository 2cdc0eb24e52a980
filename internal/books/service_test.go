package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/dataset"
	"bookbot/pkg/models"
)

// fakeDataset and fakeRemote count calls so tests can assert which adapters
// a preference consulted.
type fakeDataset struct {
	books []models.Book
	calls int
}

func (f *fakeDataset) Search(query string, maxResults int) []models.Book {
	f.calls++
	return f.books
}
func (f *fakeDataset) All(limit int) []models.Book  { return f.books }
func (f *fakeDataset) TopRated(n int) []models.Book { return f.books }
func (f *fakeDataset) Stats() dataset.Stats         { return dataset.Stats{TotalBooks: len(f.books)} }
func (f *fakeDataset) Empty() bool                  { return len(f.books) == 0 }
func (f *fakeDataset) Len() int                     { return len(f.books) }

type fakeRemote struct {
	books []models.Book
	calls int
}

func (f *fakeRemote) Search(_ context.Context, query string, maxResults, startIndex int) []models.Book {
	f.calls++
	return f.books
}
func (f *fakeRemote) ByTitle(_ context.Context, title string) *models.Book {
	f.calls++
	if len(f.books) == 0 {
		return nil
	}
	return &f.books[0]
}
func (f *fakeRemote) ByAuthor(_ context.Context, author string, maxResults int) []models.Book {
	f.calls++
	return f.books
}
func (f *fakeRemote) ByGenre(_ context.Context, genre string, maxResults int) []models.Book {
	f.calls++
	return f.books
}
func (f *fakeRemote) Bestsellers(_ context.Context, maxResults int) []models.Book {
	f.calls++
	return f.books
}
func (f *fakeRemote) NewReleases(_ context.Context, maxResults int) []models.Book {
	f.calls++
	return f.books
}

func TestParsePreference(t *testing.T) {
	assert.Equal(t, PrefDataset, ParsePreference("dataset"))
	assert.Equal(t, PrefGoogle, ParsePreference("google"))
	assert.Equal(t, PrefGoogle, ParsePreference("remote"))
	assert.Equal(t, PrefGoogle, ParsePreference("Internet"))
	assert.Equal(t, PrefBoth, ParsePreference(" BOTH "))
	assert.Equal(t, PrefAsk, ParsePreference(""))
	assert.Equal(t, PrefAsk, ParsePreference("whatever"))
}

func TestAggregateAskConsultsNothing(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{Title: "Dune"}}}
	remote := &fakeRemote{books: []models.Book{{Title: "Dune"}}}
	svc := NewService(ds, remote, nil)

	results := svc.Aggregate(context.Background(), "dune", PrefAsk, 5)

	assert.Nil(t, results)
	assert.Zero(t, ds.calls)
	assert.Zero(t, remote.calls)
}

func TestAggregateDatasetOnly(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{Title: "Dune", Source: models.SourceDataset}}}
	remote := &fakeRemote{books: []models.Book{{Title: "Other", Source: models.SourceGoogleBooks}}}
	svc := NewService(ds, remote, nil)

	results := svc.Aggregate(context.Background(), "dune", PrefDataset, 5)

	require.Len(t, results, 1)
	assert.Equal(t, models.SourceDataset, results[0].Source)
	assert.Equal(t, 1, ds.calls)
	assert.Zero(t, remote.calls)
}

func TestAggregateBothPrefersDatasetOnDuplicateTitle(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{Title: "Dune", Source: models.SourceDataset}}}
	remote := &fakeRemote{books: []models.Book{
		{Title: " dune ", Source: models.SourceGoogleBooks},
		{Title: "Dune Messiah", Source: models.SourceGoogleBooks},
	}}
	svc := NewService(ds, remote, nil)

	results := svc.Aggregate(context.Background(), "dune", PrefBoth, 5)

	require.Len(t, results, 2)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, models.SourceDataset, results[0].Source)
	assert.Equal(t, "Dune Messiah", results[1].Title)
}

func TestDedupeNormalizesTitles(t *testing.T) {
	books := []models.Book{
		{Title: "Dune"},
		{Title: " DUNE "},
		{Title: "dune"},
		{Title: "Dune Messiah"},
	}

	out := Dedupe(books)
	require.Len(t, out, 2)
	assert.Equal(t, "Dune", out[0].Title)
	assert.Equal(t, "Dune Messiah", out[1].Title)
}

func TestMergePrimaryWins(t *testing.T) {
	primary := &models.Book{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		AverageRating: models.Float64Ptr(4.27),
		Source:        models.SourceDataset,
	}
	secondary := &models.Book{
		Title:         "Dune (Google)",
		Authors:       []string{"F. Herbert"},
		Description:   "A desert planet.",
		AverageRating: models.Float64Ptr(4.5),
		NumPages:      models.IntPtr(412),
		ISBN13:        "9780441172719",
		Source:        models.SourceGoogleBooks,
	}

	merged := Merge(primary, secondary)

	assert.Equal(t, "Dune", merged.Title)
	assert.Equal(t, []string{"Frank Herbert"}, merged.Authors)
	assert.Equal(t, 4.27, *merged.AverageRating)

	// fields absent on the primary fall through to the secondary
	assert.Equal(t, "A desert planet.", merged.Description)
	assert.Equal(t, 412, *merged.NumPages)
	assert.Equal(t, "9780441172719", merged.ISBN13)
}

func TestMergeNilHandling(t *testing.T) {
	b := &models.Book{Title: "Dune"}

	assert.Equal(t, models.Book{}, Merge(nil, nil))
	assert.Equal(t, "Dune", Merge(b, nil).Title)
	assert.Equal(t, "Dune", Merge(nil, b).Title)
}
