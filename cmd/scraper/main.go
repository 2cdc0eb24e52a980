package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/scraper"
)

func main() {
	var (
		title   = flag.String("title", "", "book title to scrape (required)")
		author  = flag.String("author", "", "author name (optional, narrows searches)")
		timeout = flag.Duration("timeout", 60*time.Second, "overall scrape timeout")
	)
	flag.Parse()

	if *title == "" {
		fmt.Fprintln(os.Stderr, "usage: scraper -title \"The Hobbit\" [-author \"J.R.R. Tolkien\"]")
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	extras := scraper.New(logger).ScrapeAll(ctx, *title, *author)

	out, err := json.MarshalIndent(extras, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}
