package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbot/internal/books"
	"bookbot/pkg/models"
)

// Handler serves POST /chat. Messages are proxied to a Rasa webhook first;
// when that fails for any reason the local classifier → aggregator →
// formatter pipeline answers instead.
type Handler struct {
	Service *books.Service
	RasaURL string
	HTTP    *http.Client

	log *zap.Logger
}

func NewHandler(svc *books.Service, rasaURL string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Service: svc,
		RasaURL: rasaURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/chat", h.chat)
}

type chatRequest struct {
	Message          string `json:"message"`
	SessionID        string `json:"session_id"`
	SourcePreference string `json:"source_preference"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Intent    string    `json:"intent,omitempty"`
	Source    string    `json:"source,omitempty"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = NewSessionID()
	}

	if text, err := h.proxyToRasa(c.Request.Context(), sessionID, req.Message); err == nil {
		c.JSON(http.StatusOK, chatResponse{
			Response:  text,
			SessionID: sessionID,
			Timestamp: time.Now(),
			Source:    "rasa",
		})
		return
	} else {
		h.log.Warn("rasa unreachable, using local pipeline", zap.Error(err))
	}

	text, intent, source := h.Reply(c.Request.Context(), req.Message, req.SourcePreference)
	c.JSON(http.StatusOK, chatResponse{
		Response:  text,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Intent:    string(intent),
		Source:    source,
	})
}

// NewSessionID generates a transient session id the way the chat surface
// always has: from the current timestamp.
func NewSessionID() string {
	return fmt.Sprintf("session_%d", time.Now().UnixMilli())
}

type rasaMessage struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

// proxyToRasa forwards the message to the conversational engine webhook and
// joins the texts addressed to this sender.
func (h *Handler) proxyToRasa(ctx context.Context, sender, message string) (string, error) {
	payload, err := json.Marshal(map[string]string{"sender": sender, "message": message})
	if err != nil {
		return "", fmt.Errorf("marshal rasa payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.RasaURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build rasa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("rasa request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rasa status %d", resp.StatusCode)
	}

	var msgs []rasaMessage
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return "", fmt.Errorf("decode rasa response: %w", err)
	}

	var texts []string
	for _, m := range msgs {
		if m.RecipientID == sender && m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	if len(texts) == 0 {
		return "Sorry, I couldn't process your request.", nil
	}
	return strings.Join(texts, "\n"), nil
}

// Reply runs the local fallback pipeline: classify, aggregate per source
// preference, format. It returns the reply text, the detected intent and a
// source tag ("hybrid", or "prompt" when the user still has to pick a
// source).
func (h *Handler) Reply(ctx context.Context, message, prefRaw string) (string, Intent, string) {
	intent := DetectIntent(message)
	pref := books.ParsePreference(prefRaw)

	switch intent {
	case IntentSearchBook, IntentSearchByPages:
		if pref == books.PrefAsk {
			return books.AskPrompt, intent, "prompt"
		}
		return h.searchReply(ctx, message, pref), intent, "hybrid"
	case IntentGetPrice:
		return h.priceReply(message), intent, "hybrid"
	case IntentGetRating:
		return h.ratingReply(message), intent, "hybrid"
	case IntentRecommend:
		return h.recommendReply(), intent, "hybrid"
	case IntentSearchByAuthor:
		return h.authorReply(ctx, message, pref), intent, "hybrid"
	case IntentSearchByGenre:
		return h.genreReply(ctx, message, pref), intent, "hybrid"
	case IntentBestsellers:
		return h.bestsellersReply(ctx, pref), intent, "hybrid"
	case IntentNewReleases:
		return h.newReleasesReply(ctx, pref), intent, "hybrid"
	case IntentCompareBooks:
		return h.compareReply(ctx, message), intent, "hybrid"
	default:
		return helpText, intent, "hybrid"
	}
}

func (h *Handler) searchReply(ctx context.Context, message string, pref books.Preference) string {
	results := h.Service.Aggregate(ctx, message, pref, 5)
	if len(results) == 0 {
		return fmt.Sprintf("❌ I couldn't find any books matching '%s'. Try searching for popular books or authors.", message)
	}
	return numberedList(fmt.Sprintf("🔍 **Found %d books for '%s':**", len(results), message), results, 5)
}

func (h *Handler) priceReply(message string) string {
	hits := h.Service.Dataset.Search(message, 1)
	if len(hits) == 0 {
		return fmt.Sprintf("❌ I couldn't find price information for '%s'. Try searching for a specific book title.", message)
	}
	b := hits[0]

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 **Price Information for '%s'**\n\n", b.Title)
	fmt.Fprintf(&sb, "📖 **Book:** %s\n", b.Title)
	fmt.Fprintf(&sb, "👤 **Author:** %s\n", authorsOrUnknown(b.Authors))
	if b.AverageRating != nil {
		fmt.Fprintf(&sb, "⭐ **Rating:** %s/5", formatRating(*b.AverageRating))
	} else {
		sb.WriteString("⭐ **Rating:** No rating available")
	}
	fmt.Fprintf(&sb, "\n🔍 **Source:** %s\n\n", titleCase(b.Source))
	sb.WriteString("💡 *Note: For current pricing, please check online retailers or bookstores.*")
	return sb.String()
}

func (h *Handler) ratingReply(message string) string {
	hits := h.Service.Dataset.Search(message, 1)
	if len(hits) == 0 {
		return fmt.Sprintf("❌ I couldn't find rating information for '%s'. Try searching for a specific book title.", message)
	}
	b := hits[0]

	var sb strings.Builder
	fmt.Fprintf(&sb, "⭐ **Rating Information for '%s'**\n\n", b.Title)
	fmt.Fprintf(&sb, "📖 **Book:** %s\n", b.Title)
	fmt.Fprintf(&sb, "👤 **Author:** %s\n", authorsOrUnknown(b.Authors))
	if b.AverageRating != nil {
		fmt.Fprintf(&sb, "⭐ **Average Rating:** %s/5 stars\n", formatRating(*b.AverageRating))
		if b.RatingsCount > 0 {
			fmt.Fprintf(&sb, "📊 **Number of Ratings:** %s\n", formatThousands(b.RatingsCount))
		}
	} else {
		sb.WriteString("⭐ **Rating:** No rating available\n")
	}
	fmt.Fprintf(&sb, "🔍 **Source:** %s", titleCase(b.Source))
	return sb.String()
}

func (h *Handler) recommendReply() string {
	var sb strings.Builder
	sb.WriteString("📚 **Book Recommendations:**\n\n")

	top := h.Service.Dataset.TopRated(5)
	if len(top) == 0 {
		sb.WriteString("🌟 **Top Recommendations:**\n\n")
		sb.WriteString("1. **Harry Potter and the Philosopher's Stone** by J.K. Rowling\n")
		sb.WriteString("2. **The Great Gatsby** by F. Scott Fitzgerald\n")
		sb.WriteString("3. **1984** by George Orwell\n")
		sb.WriteString("4. **To Kill a Mockingbird** by Harper Lee\n")
		sb.WriteString("5. **Pride and Prejudice** by Jane Austen\n\n")
		sb.WriteString("💡 *These are popular classics that are highly recommended!*")
		return sb.String()
	}

	for i, b := range top {
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, b.Title)
		fmt.Fprintf(&sb, "   👤 **Author:** %s\n", authorsOrUnknown(b.Authors))
		if b.AverageRating != nil {
			fmt.Fprintf(&sb, "   ⭐ **Rating:** %s/5\n", formatRating(*b.AverageRating))
		}
		if b.PublishedYear != nil {
			fmt.Fprintf(&sb, "   📅 **Year:** %d\n", *b.PublishedYear)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handler) authorReply(ctx context.Context, message string, pref books.Preference) string {
	author := extractAuthor(message)

	var results []models.Book
	if pref.UsesDataset() {
		results = append(results, h.Service.Dataset.Search(author, 5)...)
	}
	if pref.UsesGoogle() {
		results = append(results, h.Service.Remote.ByAuthor(ctx, author, 5)...)
	}
	results = books.Dedupe(results)

	if len(results) == 0 {
		return fmt.Sprintf("❌ I couldn't find books by '%s'. Try searching for a different author.", titleCase(author))
	}
	return numberedList(fmt.Sprintf("👤 **Books by '%s':**", titleCase(author)), results, 5)
}

func (h *Handler) genreReply(ctx context.Context, message string, pref books.Preference) string {
	genre := strings.ToLower(message)

	var results []models.Book
	if pref.UsesDataset() {
		results = append(results, h.Service.Dataset.Search(genre, 5)...)
	}
	if pref.UsesGoogle() {
		results = append(results, h.Service.Remote.ByGenre(ctx, genre, 5)...)
	}
	results = books.Dedupe(results)

	if len(results) == 0 {
		return fmt.Sprintf("❌ I couldn't find %s books. Try searching for a different genre.", titleCase(genre))
	}
	return numberedList(fmt.Sprintf("🏷️ **%s Books:**", titleCase(genre)), results, 5)
}

func (h *Handler) bestsellersReply(ctx context.Context, pref books.Preference) string {
	var results []models.Book
	if pref.UsesDataset() {
		results = append(results, h.Service.Dataset.Search("bestseller", 5)...)
	}
	if pref.UsesGoogle() {
		results = append(results, h.Service.Remote.Bestsellers(ctx, 5)...)
	}
	results = books.Dedupe(results)

	if len(results) == 0 {
		return "❌ I couldn't find bestsellers at the moment."
	}
	return numberedList("🌟 **Bestsellers & Trending Books:**", results, 5)
}

func (h *Handler) newReleasesReply(ctx context.Context, pref books.Preference) string {
	var results []models.Book
	if pref.UsesDataset() {
		// the dataset has no release feed; recent years as keywords is the
		// best it can do
		year := time.Now().Year()
		results = append(results, h.Service.Dataset.Search(strconv.Itoa(year-1), 3)...)
		results = append(results, h.Service.Dataset.Search(strconv.Itoa(year), 3)...)
	}
	if pref.UsesGoogle() {
		results = append(results, h.Service.Remote.NewReleases(ctx, 6)...)
	}
	results = books.Dedupe(results)

	if len(results) == 0 {
		return "❌ I couldn't find new releases right now."
	}
	return numberedList("🆕 **New Releases:**", results, 6)
}

func (h *Handler) compareReply(ctx context.Context, message string) string {
	parts := strings.Split(strings.ToLower(message), " vs ")
	if len(parts) != 2 {
		return "Please specify two titles like 'Book A vs Book B'."
	}

	left := h.lookupOne(ctx, strings.TrimSpace(parts[0]))
	right := h.lookupOne(ctx, strings.TrimSpace(parts[1]))
	if left == nil || right == nil {
		return "❌ I couldn't fetch both books to compare. Try exact titles like 'The Hobbit vs The Lord of the Rings'."
	}

	return "📊 **Comparison**\n\n" + compareLine(*left) + "\n" + compareLine(*right) + "\n"
}

// lookupOne resolves one title, dataset first, then Google Books.
func (h *Handler) lookupOne(ctx context.Context, title string) *models.Book {
	if hits := h.Service.Dataset.Search(title, 1); len(hits) > 0 {
		return &hits[0]
	}
	if hits := h.Service.Remote.Search(ctx, title, 1, 0); len(hits) > 0 {
		return &hits[0]
	}
	return nil
}

func compareLine(b models.Book) string {
	rating := "-"
	if b.AverageRating != nil {
		rating = formatRating(*b.AverageRating)
	}
	pages := "-"
	if b.NumPages != nil {
		pages = strconv.Itoa(*b.NumPages)
	}
	cats := "-"
	if len(b.Categories) > 0 {
		cats = strings.Join(b.Categories, ", ")
	}
	return fmt.Sprintf("• %s — ⭐ %s/5, 📖 %s pages, 🏷️ %s (Source: %s)",
		b.Title, rating, pages, cats, titleCase(b.Source))
}

// numberedList renders up to limit books as a numbered block under header.
func numberedList(header string, results []models.Book, limit int) string {
	if limit > len(results) {
		limit = len(results)
	}
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	for i := 0; i < limit; i++ {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, FormatBook(results[i], false))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func authorsOrUnknown(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	return strings.Join(authors, ", ")
}

// extractAuthor strips leading phrasing like "books by" from an author
// query, keeping whatever follows the last keyword occurrence.
func extractAuthor(message string) string {
	q := strings.ToLower(message)
	for _, kw := range []string{"by", "author", "written by"} {
		if strings.Contains(q, kw) {
			parts := strings.Split(q, kw)
			return strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return strings.TrimSpace(q)
}

var helpText = strings.Join([]string{
	"👋 **Hello! I'm your book assistant!**",
	"",
	"I can help you with:",
	"🔍 **Search books** - Find books by title, author, or genre",
	"⭐ **Check ratings** - Get book ratings and reviews",
	"💰 **Price information** - Get book pricing details",
	"📚 **Recommendations** - Get personalized book suggestions",
	"👤 **Author search** - Find books by specific authors",
	"🏷️ **Genre search** - Discover books by category",
	"",
	"🌐 **Data source** - I can use the local dataset or the Internet (Google Books).",
	"Type 'dataset', 'internet', or 'both' anytime to switch.",
	"",
	"**Try asking:**",
	"• \"Find books by Stephen King\"",
	"• \"Show me fantasy books\"",
	"• \"What's the rating of Harry Potter?\"",
	"• \"Recommend some good books\"",
}, "\n")
