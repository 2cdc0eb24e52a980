package models

// Review is a single scraped reader review.
type Review struct {
	ReviewerName string  `json:"reviewer_name"`
	Rating       float64 `json:"rating"`
	ReviewText   string  `json:"review_text"`
	ReviewDate   string  `json:"review_date"`
	Source       string  `json:"source"`
}

// StorePrice is a price listing scraped from an online bookstore.
type StorePrice struct {
	StoreName    string  `json:"store_name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Availability string  `json:"availability"`
	URL          string  `json:"url"`
	ShippingInfo string  `json:"shipping_info,omitempty"`
}

// BookExtras bundles everything the web scrapers can find for one title.
type BookExtras struct {
	Reviews            []Review     `json:"reviews"`
	AmazonPrices       []StorePrice `json:"amazon_prices"`
	BarnesNoblePrices  []StorePrice `json:"barnes_noble_prices"`
	Summary            string       `json:"summary,omitempty"`
	TotalReviews       int          `json:"total_reviews"`
	TotalPriceListings int          `json:"total_price_listings"`
}
