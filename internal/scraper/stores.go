package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"bookbot/pkg/models"
)

var dollarRe = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)

// AmazonPrices scrapes the first few book listings from an Amazon search.
func (s *Scraper) AmazonPrices(ctx context.Context, title, author string) []models.StorePrice {
	searchURL := s.AmazonBase + "/s?k=" + url.QueryEscape(searchQuery(title, author)) + "&i=stripbooks"

	doc, err := s.fetchDoc(ctx, searchURL)
	if err != nil {
		s.log.Warn("amazon search failed", zap.String("title", title), zap.Error(err))
		return nil
	}

	var prices []models.StorePrice
	doc.Find("div[data-component-type='s-search-result']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		titleElem := sel.Find("h2.a-size-mini")
		if titleElem.Length() == 0 {
			return true
		}

		priceText := strings.TrimSpace(sel.Find("span.a-price-whole").First().Text())
		price, err := strconv.ParseFloat(strings.ReplaceAll(priceText, ",", ""), 64)
		if err != nil || price <= 0 {
			return true
		}

		availability := "Unknown"
		if a := strings.TrimSpace(sel.Find("span.a-color-base").First().Text()); a != "" {
			availability = a
		}

		productURL := ""
		if href, ok := titleElem.Find("a").First().Attr("href"); ok {
			productURL = resolveURL(searchURL, href)
		}

		prices = append(prices, models.StorePrice{
			StoreName:    "Amazon",
			Price:        price,
			Currency:     "USD",
			Availability: availability,
			URL:          productURL,
			ShippingInfo: "Free shipping on orders over $25",
		})
		return len(prices) < 5
	})

	s.log.Info("scraped amazon prices", zap.String("title", title), zap.Int("count", len(prices)))
	return prices
}

// BarnesNoblePrices scrapes the first few listings from a Barnes & Noble
// search.
func (s *Scraper) BarnesNoblePrices(ctx context.Context, title, author string) []models.StorePrice {
	searchURL := s.BarnesNobleBase + "/s/" + url.PathEscape(searchQuery(title, author))

	doc, err := s.fetchDoc(ctx, searchURL)
	if err != nil {
		s.log.Warn("barnes & noble search failed", zap.String("title", title), zap.Error(err))
		return nil
	}

	var prices []models.StorePrice
	doc.Find("div.product-shelf-item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find("h3.product-info-title").Length() == 0 {
			return true
		}

		m := dollarRe.FindStringSubmatch(sel.Find("span.current").First().Text())
		if m == nil {
			return true
		}
		price, err := strconv.ParseFloat(m[1], 64)
		if err != nil || price <= 0 {
			return true
		}

		availability := "Unknown"
		if a := strings.TrimSpace(sel.Find("span.availability").First().Text()); a != "" {
			availability = a
		}

		productURL := ""
		if href, ok := sel.Find("a.product-info-title").First().Attr("href"); ok {
			productURL = resolveURL(searchURL, href)
		}

		prices = append(prices, models.StorePrice{
			StoreName:    "Barnes & Noble",
			Price:        price,
			Currency:     "USD",
			Availability: availability,
			URL:          productURL,
			ShippingInfo: "Free shipping on orders over $40",
		})
		return len(prices) < 5
	})

	s.log.Info("scraped barnes & noble prices", zap.String("title", title), zap.Int("count", len(prices)))
	return prices
}
