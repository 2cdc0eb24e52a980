package books

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/pkg/models"
)

func newTestRouter(ds Dataset, remote Remote) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(ds, remote, nil)).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchMissingQuery(t *testing.T) {
	r := newTestRouter(&fakeDataset{}, &fakeRemote{})

	w := doJSON(t, r, http.MethodPost, "/search", map[string]any{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchReturnsResults(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{Title: "Dune", Source: models.SourceDataset}}}
	r := newTestRouter(ds, &fakeRemote{})

	w := doJSON(t, r, http.MethodPost, "/search", map[string]any{
		"query":  "dune",
		"source": "dataset",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "dune", resp.Query)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Dune", resp.Books[0].Title)
}

func TestSearchUnresolvedSourceReturnsEmptyList(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{Title: "Dune"}}}
	remote := &fakeRemote{books: []models.Book{{Title: "Dune"}}}
	r := newTestRouter(ds, remote)

	w := doJSON(t, r, http.MethodPost, "/search", map[string]any{
		"query":  "dune",
		"source": "ask",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Books)
	assert.Empty(t, resp.Books)
	assert.Zero(t, ds.calls)
	assert.Zero(t, remote.calls)
}

func TestListEmptyDataset(t *testing.T) {
	r := newTestRouter(&fakeDataset{}, &fakeRemote{})

	w := doJSON(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dataset not loaded", resp["message"])
	assert.EqualValues(t, 0, resp["total_results"])
}

func TestListReturnsSummaries(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{
		{Title: "Dune", Authors: []string{"Frank Herbert"}, Source: models.SourceDataset},
	}}
	r := newTestRouter(ds, &fakeRemote{})

	w := doJSON(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Books          []bookSummary `json:"books"`
		TotalResults   int           `json:"total_results"`
		TotalInDataset int           `json:"total_in_dataset"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Dune", resp.Books[0].Title)
	assert.Equal(t, 1, resp.TotalInDataset)
}

func TestStatsEmptyDataset(t *testing.T) {
	r := newTestRouter(&fakeDataset{}, &fakeRemote{})

	w := doJSON(t, r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dataset not loaded")
}

func TestDetailsMissingTitle(t *testing.T) {
	r := newTestRouter(&fakeDataset{}, &fakeRemote{})

	w := doJSON(t, r, http.MethodPost, "/book-details", map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetailsMergesSources(t *testing.T) {
	ds := &fakeDataset{books: []models.Book{{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		AverageRating: models.Float64Ptr(4.27),
		Source:        models.SourceDataset,
	}}}
	remote := &fakeRemote{books: []models.Book{{
		Title:       "Dune",
		Description: "A desert planet.",
		NumPages:    models.IntPtr(412),
		Source:      models.SourceGoogleBooks,
	}}}
	r := newTestRouter(ds, remote)

	w := doJSON(t, r, http.MethodPost, "/book-details", map[string]any{"title": "Dune"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Description   string   `json:"description"`
		AverageRating float64  `json:"average_rating"`
		NumPages      int      `json:"num_pages"`
		Sources       []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dune", resp.Title)
	assert.Equal(t, []string{"Frank Herbert"}, resp.Authors)
	assert.Equal(t, "A desert planet.", resp.Description)
	assert.Equal(t, 4.27, resp.AverageRating)
	assert.Equal(t, 412, resp.NumPages)
	assert.Equal(t, []string{models.SourceDataset, models.SourceGoogleBooks}, resp.Sources)
}

func TestDetailsUnknownTitleStillAnswers(t *testing.T) {
	r := newTestRouter(&fakeDataset{}, &fakeRemote{})

	w := doJSON(t, r, http.MethodPost, "/book-details", map[string]any{"title": "Nonexistent Book"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Title   string   `json:"title"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Nonexistent Book", resp.Title)
	assert.Empty(t, resp.Sources)
}
