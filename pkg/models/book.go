package models

// Source values for Book.Source.
const (
	SourceDataset     = "dataset"
	SourceGoogleBooks = "google_books"
)

// Book is the normalized, internal form of a book record.
//
// All sources (local dataset, Google Books) are mapped into this structure
// first, then everything downstream (aggregation, formatting, the HTTP
// surface) works from this representation.
//
// Title is always set; when a source cannot resolve one, the raw query text
// is used instead. Optional numeric fields are nil when the source has no
// value, never a sentinel.
type Book struct {
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	Categories     []string `json:"categories"`
	Description    string   `json:"description"`
	PublishedYear  *int     `json:"published_year,omitempty"`
	AverageRating  *float64 `json:"average_rating,omitempty"`
	NumPages       *int     `json:"num_pages,omitempty"`
	RatingsCount   int      `json:"ratings_count"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	ISBN13         string   `json:"isbn13,omitempty"`
	ISBN10         string   `json:"isbn10,omitempty"`
	Source         string   `json:"source"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"` // dataset search only

	// Google Books extras.
	GoogleID   string `json:"google_id,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	InfoURL    string `json:"info_url,omitempty"`
}

// IntPtr and Float64Ptr wrap literals for optional fields.
func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
