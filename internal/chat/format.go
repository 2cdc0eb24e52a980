package chat

import (
	"strconv"
	"strings"
	"unicode"

	"bookbot/pkg/models"
)

// descriptionLimit caps the description line in detailed formatting.
const descriptionLimit = 200

// FormatBook renders one book as chat text. Section order is fixed: title,
// authors, year, rating (+count), pages, categories, description (detailed
// only), source. Missing optional fields skip their line entirely.
func FormatBook(b models.Book, detailed bool) string {
	var sb strings.Builder
	sb.WriteString("**" + b.Title + "**")

	if len(b.Authors) > 0 {
		sb.WriteString("\n👤 **Authors:** " + strings.Join(b.Authors, ", "))
	}
	if b.PublishedYear != nil {
		sb.WriteString("\n📅 **Published:** " + strconv.Itoa(*b.PublishedYear))
	}
	if b.AverageRating != nil {
		sb.WriteString("\n⭐ **Rating:** " + formatRating(*b.AverageRating) + "/5")
		if b.RatingsCount > 0 {
			sb.WriteString(" (" + formatThousands(b.RatingsCount) + " ratings)")
		}
	}
	if b.NumPages != nil {
		sb.WriteString("\n📖 **Pages:** " + strconv.Itoa(*b.NumPages))
	}
	if len(b.Categories) > 0 {
		sb.WriteString("\n🏷️ **Categories:** " + strings.Join(b.Categories, ", "))
	}
	if detailed && b.Description != "" {
		sb.WriteString("\n📝 **Description:** " + truncate(b.Description, descriptionLimit))
	}
	sb.WriteString("\n🔍 **Source:** " + titleCase(b.Source))

	return sb.String()
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// truncate cuts s to limit runes with a trailing ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// titleCase capitalizes the first letter of every alphabetic run, keeping
// separators: "google_books" becomes "Google_Books".
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			sb.WriteRune(r)
			prevLetter = false
		}
	}
	return sb.String()
}

// formatThousands renders 1234567 as "1,234,567".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
