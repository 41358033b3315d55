package scraping

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"imobiliaria/server/internal/models"
	"imobiliaria/server/internal/queue"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper fetches listing pages, reduces them to visible text and queues
// the captures for ingestion.
type Scraper struct {
	logger *logrus.Logger
	client *http.Client
	queue  *queue.ListingQueue
}

func NewScraper(q *queue.ListingQueue, logger *logrus.Logger) *Scraper {
	return &Scraper{
		logger: logger,
		client: &http.Client{Timeout: 15 * time.Second},
		queue:  q,
	}
}

// ScrapeURLs fetches every target page and pushes the captures to the queue
// as one batch. Individual fetch failures are logged and skipped; the batch
// is pushed with whatever succeeded.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string) error {
	var batch []*models.RawListing
	for _, target := range urls {
		listing, err := s.scrapePage(ctx, target)
		if err != nil {
			s.logger.WithError(err).WithField("url", target).Error("Failed to scrape listing page")
			continue
		}
		batch = append(batch, listing)
	}

	if len(batch) == 0 {
		return fmt.Errorf("no pages could be scraped")
	}

	if err := s.queue.Push(batch); err != nil {
		return fmt.Errorf("failed to queue scraped listings: %w", err)
	}

	s.logger.WithField("batch_size", len(batch)).Info("Queued scraped listings for ingestion")
	return nil
}

func (s *Scraper) scrapePage(ctx context.Context, target string) (*models.RawListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}

	text, err := ExtractVisibleText(resp.Body)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("no visible text on %s", target)
	}

	return &models.RawListing{
		Source:  "scraper",
		URL:     target,
		RawText: text,
	}, nil
}

// ExtractVisibleText reduces an HTML document to its visible text content.
// Script and style bodies are dropped and whitespace is collapsed.
func ExtractVisibleText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)

	var parts []string
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return strings.Join(parts, " "), nil
			}
			return "", tokenizer.Err()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(tokenizer.Text())), " ")
			if text != "" {
				parts = append(parts, text)
			}
		}
	}
}

func isInvisibleTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}
