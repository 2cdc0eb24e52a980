package books

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookbot/pkg/models"
)

// listingCap bounds the bulk listing endpoint.
const listingCap = 100

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/search", h.search)
	r.GET("/books", h.list)
	r.GET("/stats", h.stats)
	r.POST("/book-details", h.details)
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Source     string `json:"source"`
}

type searchResponse struct {
	Books        []models.Book `json:"books"`
	TotalResults int           `json:"total_results"`
	Query        string        `json:"query"`
	Source       string        `json:"source"`
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}
	if req.Source == "" {
		req.Source = string(PrefBoth)
	}

	pref := ParsePreference(req.Source)
	results := h.Service.Aggregate(c.Request.Context(), req.Query, pref, req.MaxResults)
	if results == nil {
		results = []models.Book{}
	}

	c.JSON(http.StatusOK, searchResponse{
		Books:        results,
		TotalResults: len(results),
		Query:        req.Query,
		Source:       req.Source,
	})
}

// bookSummary is the reduced field set the bulk listing returns.
type bookSummary struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Categories    []string `json:"categories"`
	PublishedYear *int     `json:"published_year,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	Source        string   `json:"source"`
}

func (h *Handler) list(c *gin.Context) {
	if h.Service.Dataset.Empty() {
		c.JSON(http.StatusOK, gin.H{
			"books":         []bookSummary{},
			"total_results": 0,
			"message":       "dataset not loaded",
		})
		return
	}

	rows := h.Service.Dataset.All(listingCap)
	out := make([]bookSummary, 0, len(rows))
	for _, b := range rows {
		out = append(out, bookSummary{
			Title:         b.Title,
			Authors:       b.Authors,
			Categories:    b.Categories,
			PublishedYear: b.PublishedYear,
			AverageRating: b.AverageRating,
			Source:        b.Source,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"books":            out,
		"total_results":    len(out),
		"total_in_dataset": h.Service.Dataset.Len(),
	})
}

func (h *Handler) stats(c *gin.Context) {
	if h.Service.Dataset.Empty() {
		c.JSON(http.StatusOK, gin.H{"message": "dataset not loaded"})
		return
	}
	c.JSON(http.StatusOK, h.Service.Dataset.Stats())
}

type detailsRequest struct {
	Title string `json:"title"`
}

type detailsResponse struct {
	models.Book
	Source  string   `json:"source,omitempty"`
	Sources []string `json:"sources"`
}

// details merges dataset and Google Books lookups for one exact title,
// dataset fields first, with source attribution.
func (h *Handler) details(c *gin.Context) {
	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}
	title := strings.TrimSpace(req.Title)

	var fromDataset, fromRemote *models.Book
	if hits := h.Service.Dataset.Search(title, 1); len(hits) > 0 {
		fromDataset = &hits[0]
	}
	fromRemote = h.Service.Remote.ByTitle(c.Request.Context(), title)

	merged := Merge(fromDataset, fromRemote)
	if merged.Title == "" {
		merged.Title = title
	}

	var sources []string
	if fromDataset != nil {
		sources = append(sources, fromDataset.Source)
	}
	if fromRemote != nil {
		sources = append(sources, fromRemote.Source)
	}
	if sources == nil {
		sources = []string{}
	}

	c.JSON(http.StatusOK, detailsResponse{Book: merged, Sources: sources})
}
