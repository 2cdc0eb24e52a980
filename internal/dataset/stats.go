package dataset

import "sort"

// Stats are aggregate dataset metrics served by GET /stats.
type Stats struct {
	TotalBooks       int         `json:"total_books"`
	AverageRating    float64     `json:"average_rating"`
	TotalPages       int         `json:"total_pages"`
	PublicationYears YearRange   `json:"publication_years"`
	TopCategories    []NameCount `json:"top_categories"`
	TopAuthors       []NameCount `json:"top_authors"`
}

type YearRange struct {
	Earliest int `json:"earliest"`
	Latest   int `json:"latest"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats computes aggregate metrics over the whole table. Rows missing a
// field are skipped for that metric.
func (t *Table) Stats() Stats {
	s := Stats{TotalBooks: len(t.books)}

	var ratingSum float64
	var ratingN int
	categories := map[string]int{}
	authors := map[string]int{}

	for _, b := range t.books {
		if b.AverageRating != nil {
			ratingSum += *b.AverageRating
			ratingN++
		}
		if b.NumPages != nil {
			s.TotalPages += *b.NumPages
		}
		if b.PublishedYear != nil {
			y := *b.PublishedYear
			if s.PublicationYears.Earliest == 0 || y < s.PublicationYears.Earliest {
				s.PublicationYears.Earliest = y
			}
			if y > s.PublicationYears.Latest {
				s.PublicationYears.Latest = y
			}
		}
		for _, c := range b.Categories {
			categories[c]++
		}
		for _, a := range b.Authors {
			authors[a]++
		}
	}

	if ratingN > 0 {
		s.AverageRating = ratingSum / float64(ratingN)
	}
	s.TopCategories = topCounts(categories, 10)
	s.TopAuthors = topCounts(authors, 10)
	return s
}

// topCounts returns the n most frequent entries, count descending with name
// as tie-break so the order is deterministic.
func topCounts(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NameCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
