package scraper

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Scraper *Scraper
}

func NewHandler(s *Scraper) *Handler {
	return &Handler{Scraper: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/book-extras", h.extras)
}

type extrasRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (h *Handler) extras(c *gin.Context) {
	var req extrasRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}

	extras := h.Scraper.ScrapeAll(c.Request.Context(), strings.TrimSpace(req.Title), strings.TrimSpace(req.Author))
	c.JSON(http.StatusOK, extras)
}
