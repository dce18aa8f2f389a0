package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
)

// ArticleScraper fetches and parses Wikipedia articles.
type ArticleScraper interface {
	// ScrapeArticle fetches the page at url and extracts structured content.
	ScrapeArticle(ctx context.Context, url string) (*domain.ArticleContent, error)
	// FetchTitle fetches only the article title, for fast URL preview.
	FetchTitle(ctx context.Context, url string) (string, error)
}

// WikipediaScraper implements ArticleScraper with an HTTP fetcher and a
// goquery-based section extractor.
type WikipediaScraper struct {
	fetcher        *PageFetcher
	previewFetcher *PageFetcher
	extractor      *SectionExtractor
}

// NewWikipediaScraper creates a scraper with timeouts from configuration.
// The preview path uses a shorter timeout than a full scrape.
func NewWikipediaScraper(cfg config.ScraperConfig) *WikipediaScraper {
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 15 * time.Second
	}
	previewTimeout := cfg.PreviewTimeout
	if previewTimeout == 0 {
		previewTimeout = 10 * time.Second
	}
	return &WikipediaScraper{
		fetcher:        NewPageFetcher(fetchTimeout),
		previewFetcher: NewPageFetcher(previewTimeout),
		extractor:      NewSectionExtractor(),
	}
}

// ScrapeArticle implements ArticleScraper.
func (s *WikipediaScraper) ScrapeArticle(ctx context.Context, url string) (*domain.ArticleContent, error) {
	rawHTML, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	article, err := s.extractor.Extract(url, rawHTML)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Scraped Wikipedia article",
		zap.String("url", url),
		zap.String("title", article.Title),
		zap.Int("sections", len(article.Sections)),
		zap.Int("full_text_len", len(article.FullText)),
	)
	return article, nil
}

// FetchTitle implements ArticleScraper.
func (s *WikipediaScraper) FetchTitle(ctx context.Context, url string) (string, error) {
	rawHTML, err := s.previewFetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return s.extractor.ExtractTitle(rawHTML)
}

var _ ArticleScraper = (*WikipediaScraper)(nil)
