// Package pipeline collects the upstream snapshot a scan runs over: every
// listing page from the Gamma API and the resolved exclusion tags.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// DefaultPageSize is the number of markets requested per page.
const DefaultPageSize = 100

// MarketFetcher retrieves one page of markets from an external API.
type MarketFetcher interface {
	GetMarkets(ctx context.Context, limit, offset int) ([]domain.Listing, error)
}

// MarketScraper paginates through all markets.
type MarketScraper struct {
	fetcher    MarketFetcher
	pageSize   int
	maxMarkets int
	logger     *slog.Logger
}

// NewMarketScraper creates a new MarketScraper. maxMarkets <= 0 means no cap.
func NewMarketScraper(fetcher MarketFetcher, pageSize, maxMarkets int, logger *slog.Logger) *MarketScraper {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MarketScraper{
		fetcher:    fetcher,
		pageSize:   pageSize,
		maxMarkets: maxMarkets,
		logger:     logger.With(slog.String("component", "market_scraper")),
	}
}

// Run fetches pages until one comes back empty or short, or the cap is
// reached. Each page is tried once. If a page fails, Run stops and returns
// the listings collected so far together with the error.
func (s *MarketScraper) Run(ctx context.Context) ([]*domain.Listing, error) {
	var all []*domain.Listing
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return all, fmt.Errorf("market scraper context cancelled: %w", err)
		}

		page, err := s.fetcher.GetMarkets(ctx, s.pageSize, offset)
		if err != nil {
			s.logger.ErrorContext(ctx, "market page failed, stopping pagination",
				slog.Int("offset", offset),
				slog.Int("collected", len(all)),
				slog.String("error", err.Error()),
			)
			return all, fmt.Errorf("fetching markets at offset %d: %w", offset, err)
		}

		s.logger.DebugContext(ctx, "fetched market page",
			slog.Int("offset", offset),
			slog.Int("batch_size", len(page)),
		)

		if len(page) == 0 {
			break
		}

		for i := range page {
			all = append(all, &page[i])
		}

		if s.maxMarkets > 0 && len(all) >= s.maxMarkets {
			all = all[:s.maxMarkets]
			s.logger.InfoContext(ctx, "reached market cap", slog.Int("max_markets", s.maxMarkets))
			break
		}

		if len(page) < s.pageSize {
			break
		}

		offset += s.pageSize
	}

	s.logger.InfoContext(ctx, "market fetch complete", slog.Int("total", len(all)))
	return all, nil
}
