package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/pkg/models"
)

func sampleBooks() []models.Book {
	return []models.Book{
		{
			Title:         "1984",
			Authors:       []string{"George Orwell"},
			Categories:    []string{"Fiction", "Dystopia"},
			Description:   "A totalitarian state watches everything.",
			PublishedYear: models.IntPtr(1949),
			AverageRating: models.Float64Ptr(4.19),
			NumPages:      models.IntPtr(328),
			Source:        models.SourceDataset,
		},
		{
			Title:         "Animal Farm",
			Authors:       []string{"George Orwell"},
			Categories:    []string{"Fiction", "Satire"},
			Description:   "The animals of Manor Farm revolt.",
			PublishedYear: models.IntPtr(1945),
			AverageRating: models.Float64Ptr(3.98),
			NumPages:      models.IntPtr(112),
			Source:        models.SourceDataset,
		},
		{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			Categories:    []string{"Science Fiction"},
			Description:   "A desert planet and its spice.",
			PublishedYear: models.IntPtr(1965),
			AverageRating: models.Float64Ptr(4.27),
			NumPages:      models.IntPtr(412),
			Source:        models.SourceDataset,
		},
	}
}

func TestSearchTitleMatchScoresHighest(t *testing.T) {
	table := New(sampleBooks(), nil)

	results := table.Search("1984", 10)
	require.NotEmpty(t, results)

	assert.Equal(t, "1984", results[0].Title)
	require.NotNil(t, results[0].RelevanceScore)
	// exact title match earns the title weight plus the full similarity bonus
	assert.GreaterOrEqual(t, *results[0].RelevanceScore, 10.0)
}

func TestSearchAuthorMatchFindsAllBooks(t *testing.T) {
	table := New(sampleBooks(), nil)

	results := table.Search("orwell", 10)
	require.Len(t, results, 2)
	for _, b := range results {
		assert.Contains(t, b.Authors, "George Orwell")
	}
}

func TestSearchOrderedByDescendingScore(t *testing.T) {
	table := New(sampleBooks(), nil)

	results := table.Search("fiction", 10)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, *results[i-1].RelevanceScore, *results[i].RelevanceScore)
	}
}

func TestSearchEqualScoresKeepTableOrder(t *testing.T) {
	// both rows score exactly the category weight: same category hit, and
	// titles sharing no characters with the query so the similarity term
	// is zero for each
	rows := []models.Book{
		{Title: "Mmm", Authors: []string{"Quill Womb"}, Categories: []string{"Dystopia"}},
		{Title: "Nnn", Authors: []string{"Quill Womb"}, Categories: []string{"Dystopia"}},
	}

	table := New(rows, nil)
	results := table.Search("dystopia", 10)
	require.Len(t, results, 2)
	require.Equal(t, *results[0].RelevanceScore, *results[1].RelevanceScore)
	assert.Equal(t, "Mmm", results[0].Title)
	assert.Equal(t, "Nnn", results[1].Title)

	// swapping the rows swaps the output, so the tie-break really is
	// table order and not something title-derived
	table = New([]models.Book{rows[1], rows[0]}, nil)
	results = table.Search("dystopia", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "Nnn", results[0].Title)
	assert.Equal(t, "Mmm", results[1].Title)
}

func TestSearchRespectsMaxResults(t *testing.T) {
	table := New(sampleBooks(), nil)

	results := table.Search("fiction", 1)
	assert.Len(t, results, 1)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	table := New(sampleBooks(), nil)

	assert.Empty(t, table.Search("zzzzqqqq", 10))
	assert.Empty(t, table.Search("", 10))
	assert.Empty(t, table.Search("   ", 10))
}

func TestLoadMissingFileDegradesToEmptyTable(t *testing.T) {
	table := Load(filepath.Join(t.TempDir(), "nope.csv"), nil)

	assert.True(t, table.Empty())
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Search("anything", 10))
}

func TestLoadParsesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	csv := "title,authors,categories,description,published_year,average_rating,num_pages,ratings_count\n" +
		"The Hobbit,J.R.R. Tolkien,Fantasy;Adventure,A hobbit goes on a quest.,1937.0,4.28,366,3618713\n" +
		",Missing Title,,,,,,\n" +
		"Dune,Frank Herbert,Science Fiction,Spice and sand.,1965,4.27,412,1241225\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	table := Load(path, nil)
	require.Equal(t, 2, table.Len())

	books := table.All(0)
	assert.Equal(t, "The Hobbit", books[0].Title)
	assert.Equal(t, []string{"Fantasy", "Adventure"}, books[0].Categories)
	require.NotNil(t, books[0].PublishedYear)
	assert.Equal(t, 1937, *books[0].PublishedYear)
	assert.Equal(t, models.SourceDataset, books[0].Source)
	assert.Equal(t, 3618713, books[0].RatingsCount)
}

func TestLoadRequiresTitleColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,author\nfoo,bar\n"), 0o644))

	table := Load(path, nil)
	assert.True(t, table.Empty())
}

func TestTopRated(t *testing.T) {
	table := New(sampleBooks(), nil)

	top := table.TopRated(2)
	require.Len(t, top, 2)
	assert.Equal(t, "Dune", top[0].Title)
	assert.Equal(t, "1984", top[1].Title)
}

func TestAllRespectsLimit(t *testing.T) {
	table := New(sampleBooks(), nil)

	assert.Len(t, table.All(2), 2)
	assert.Len(t, table.All(0), 3)
	assert.Len(t, table.All(99), 3)
}

func TestStats(t *testing.T) {
	table := New(sampleBooks(), nil)

	s := table.Stats()
	assert.Equal(t, 3, s.TotalBooks)
	assert.Equal(t, 328+112+412, s.TotalPages)
	assert.Equal(t, 1945, s.PublicationYears.Earliest)
	assert.Equal(t, 1965, s.PublicationYears.Latest)
	assert.InDelta(t, (4.19+3.98+4.27)/3, s.AverageRating, 1e-9)

	require.NotEmpty(t, s.TopCategories)
	assert.Equal(t, NameCount{Name: "Fiction", Count: 2}, s.TopCategories[0])
	require.NotEmpty(t, s.TopAuthors)
	assert.Equal(t, NameCount{Name: "George Orwell", Count: 2}, s.TopAuthors[0])
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 1.0, Similarity("Dune", "dune"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))

	// shared prefix scores higher than disjoint strings
	assert.Greater(t, Similarity("harry potter", "harry"), Similarity("harry potter", "dune"))

	// symmetric in its arguments
	assert.InDelta(t, Similarity("the hobbit", "hobbit"), Similarity("hobbit", "the hobbit"), 1e-9)
}

func TestSimilarityMatchesRecursively(t *testing.T) {
	// the earliest longest run wins ("a" at a[0]), leaving nothing matchable
	// on either side: 2*1/(2+3)
	assert.InDelta(t, 0.4, Similarity("ab", "b a"), 1e-9)

	// "abcd" vs "xabcdy" shares the full "abcd" run: 2*4/(4+6)
	assert.InDelta(t, 0.8, Similarity("abcd", "xabcdy"), 1e-9)
}
