// Command gen-testdata writes regression corpora for the chatbot: a JSON
// file of book queries per intent category plus a small sample dataset CSV.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var popularBooks = []string{
	"Harry Potter", "The Great Gatsby", "1984", "To Kill a Mockingbird",
	"The Hobbit", "Dune", "Pride and Prejudice", "The Catcher in the Rye",
	"The Lord of the Rings", "The Hunger Games", "The Handmaid's Tale",
	"The Alchemist", "The Kite Runner", "The Book Thief", "The Fault in Our Stars",
	"Gone with the Wind", "The Chronicles of Narnia", "The Da Vinci Code",
	"The Girl with the Dragon Tattoo", "The Help", "The Lovely Bones",
	"The Time Traveler's Wife", "Water for Elephants", "The Secret",
	"The Seven Husbands of Evelyn Hugo", "Where the Crawdads Sing",
	"The Silent Patient", "The Midnight Library", "Project Hail Mary",
}

var popularAuthors = []string{
	"Stephen King", "J.K. Rowling", "George Orwell", "Harper Lee",
	"J.R.R. Tolkien", "Frank Herbert", "Jane Austen", "J.D. Salinger",
	"Suzanne Collins", "Margaret Atwood", "Paulo Coelho", "Khaled Hosseini",
	"Markus Zusak", "John Green", "Margaret Mitchell", "C.S. Lewis",
	"Dan Brown", "Stieg Larsson", "Kathryn Stockett", "Alice Sebold",
	"Audrey Niffenegger", "Sara Gruen", "Rhonda Byrne", "Taylor Jenkins Reid",
	"Delia Owens", "Alex Michaelides", "Matt Haig", "Andy Weir",
}

var genres = []string{
	"fiction", "mystery", "romance", "science fiction", "fantasy",
	"thriller", "biography", "history", "self-help", "poetry",
	"young adult", "children's", "cooking", "travel", "business",
	"psychology", "art", "photography", "gardening", "health",
	"memoir", "autobiography", "philosophy", "religion", "education",
}

func main() {
	var (
		outDir = flag.String("out", "test_data", "output directory")
	)
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	corpus := map[string][]string{
		"search_queries":         searchQueries(),
		"price_queries":          priceQueries(),
		"rating_queries":         ratingQueries(),
		"recommendation_queries": recommendationQueries(),
		"comparison_queries":     comparisonQueries(),
		"bestseller_queries":     bestsellerQueries(),
		"new_release_queries":    newReleaseQueries(),
	}

	total := 0
	for category, queries := range corpus {
		total += len(queries)
		if err := writeJSON(filepath.Join(*outDir, category+".json"), queries); err != nil {
			log.Fatalf("write %s: %v", category, err)
		}
	}
	if err := writeJSON(filepath.Join(*outDir, "book_queries.json"), corpus); err != nil {
		log.Fatalf("write corpus: %v", err)
	}
	if err := writeSampleCSV(filepath.Join(*outDir, "sample_books.csv")); err != nil {
		log.Fatalf("write sample csv: %v", err)
	}

	fmt.Printf("wrote %d queries across %d categories to %s\n", total, len(corpus), *outDir)
}

func searchQueries() []string {
	var out []string
	for _, book := range popularBooks {
		out = append(out,
			"Find "+book,
			"Search for "+book,
			"Look for "+book,
			"I want to read "+book,
			"Show me "+book,
		)
	}
	for _, author := range popularAuthors {
		out = append(out,
			"Books by "+author,
			"Find "+author+" books",
			"Show me "+author+" novels",
		)
	}
	for _, genre := range genres {
		out = append(out,
			genre+" books",
			"Find "+genre+" novels",
			"Show me "+genre+" books",
		)
	}
	return append(out,
		"Find me a good book",
		"What should I read?",
		"Show me popular books",
		"Find award-winning books",
	)
}

func priceQueries() []string {
	var out []string
	for _, book := range popularBooks {
		out = append(out,
			"How much does "+book+" cost?",
			"What's the price of "+book+"?",
			"How much is "+book+"?",
			"Price of "+book,
		)
	}
	return append(out,
		"Books under $10",
		"Find cheap books",
		"Show me affordable books",
	)
}

func ratingQueries() []string {
	var out []string
	for _, book := range popularBooks {
		out = append(out,
			"What's the rating of "+book+"?",
			"Show me reviews for "+book,
			"How many stars does "+book+" have?",
			"How good is "+book+"?",
		)
	}
	return append(out,
		"Highly rated books",
		"Books rated 4 stars and above",
		"Top rated fiction books",
	)
}

func recommendationQueries() []string {
	out := []string{
		"Recommend me some books",
		"Suggest some good books",
		"I need book recommendations",
		"What should I read next?",
	}
	for _, book := range popularBooks {
		out = append(out,
			"Books like "+book,
			"Recommend books similar to "+book,
		)
	}
	for _, genre := range genres {
		out = append(out,
			"Recommend "+genre+" books",
			"Suggest "+genre+" novels",
		)
	}
	return out
}

func comparisonQueries() []string {
	var out []string
	for i, a := range popularBooks {
		for _, b := range popularBooks[i+1:] {
			out = append(out,
				"Compare "+a+" and "+b,
				a+" vs "+b,
				"Difference between "+a+" and "+b,
			)
		}
	}
	return out
}

func bestsellerQueries() []string {
	out := []string{
		"Show me bestsellers",
		"What are the best selling books?",
		"Trending books",
		"Popular books right now",
		"Top charts",
	}
	for _, genre := range genres {
		out = append(out, "Best selling "+genre+" books")
	}
	return out
}

func newReleaseQueries() []string {
	out := []string{
		"New book releases",
		"Latest books",
		"Recently published books",
		"New books this year",
	}
	for _, genre := range genres {
		out = append(out, "New "+genre+" books", "Latest "+genre+" novels")
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeSampleCSV emits a tiny dataset in the same column layout the server
// loads, handy for local runs without the full dump.
func writeSampleCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	rows := [][]string{
		{"title", "authors", "categories", "description", "published_year", "average_rating", "num_pages", "ratings_count", "isbn13", "isbn10", "thumbnail"},
		{"1984", "George Orwell", "Fiction;Dystopia", "A chilling portrait of a totalitarian state and one man's doomed rebellion against it.", "1949", "4.19", "328", "4201429", "9780451524935", "0451524934", ""},
		{"The Hobbit", "J.R.R. Tolkien", "Fantasy;Adventure", "Bilbo Baggins is swept into a quest to reclaim a dwarven kingdom from the dragon Smaug.", "1937", "4.28", "366", "3618713", "9780547928227", "054792822X", ""},
		{"Dune", "Frank Herbert", "Science Fiction", "Paul Atreides leads nomadic tribes in a battle for the desert planet Arrakis.", "1965", "4.27", "412", "1241225", "9780441172719", "0441172717", ""},
		{"Pride and Prejudice", "Jane Austen", "Classics;Romance", "Elizabeth Bennet navigates manners, marriage and Mr. Darcy in Regency England.", "1813", "4.28", "279", "3944155", "9780141439518", "0141439513", ""},
		{"The Great Gatsby", "F. Scott Fitzgerald", "Classics;Fiction", "Jay Gatsby's lavish parties mask a desperate pursuit of a lost love.", "1925", "3.93", "180", "4672336", "9780743273565", "0743273567", ""},
		{"To Kill a Mockingbird", "Harper Lee", "Classics;Historical Fiction", "Scout Finch watches her father defend a Black man falsely accused in 1930s Alabama.", "1960", "4.26", "324", "5691311", "9780061120084", "0061120081", ""},
		{"Project Hail Mary", "Andy Weir", "Science Fiction", "A lone astronaut wakes with no memory on a mission to save Earth from extinction.", "2021", "4.52", "476", "689214", "9780593135204", "0593135202", ""},
		{"The Midnight Library", "Matt Haig", "Fiction;Fantasy", "Between life and death, Nora Seed samples the infinite lives she might have lived.", "2020", "3.99", "288", "1504242", "9780525559474", "0525559477", ""},
	}
	return w.WriteAll(rows)
}
