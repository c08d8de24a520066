// Package polymarket is the REST client for the Polymarket Gamma API, which
// serves market listings and tag metadata.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

const defaultTimeout = 30 * time.Second

// GammaConfig configures a GammaClient.
type GammaConfig struct {
	// BaseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
	BaseURL string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
	// IncludeTags asks /markets to embed each market's tags.
	IncludeTags bool
}

// GammaClient is the REST client for the Polymarket Gamma API. Every call is a
// single attempt; there is no retry.
type GammaClient struct {
	baseURL     string
	includeTags bool
	httpClient  *http.Client
}

// NewGammaClient creates a new Gamma API client.
func NewGammaClient(cfg GammaConfig) *GammaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GammaClient{
		baseURL:     cfg.BaseURL,
		includeTags: cfg.IncludeTags,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetMarkets returns one page of markets.
func (g *GammaClient) GetMarkets(ctx context.Context, limit, offset int) ([]domain.Listing, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if g.includeTags {
		params.Set("include_tag", "true")
	}

	path := "/markets?" + params.Encode()

	body, err := g.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: get markets: %w", err)
	}

	var apiMarkets []APIMarket
	if err := json.Unmarshal(body, &apiMarkets); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode markets: %w", err)
	}

	listings := make([]domain.Listing, 0, len(apiMarkets))
	for i := range apiMarkets {
		listings = append(listings, apiMarkets[i].ToDomainListing())
	}

	return listings, nil
}

// GetTagBySlug looks up a single tag by slug. It returns an error wrapping
// domain.ErrNotFound when the tag does not exist.
func (g *GammaClient) GetTagBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	path := fmt.Sprintf("/tags/slug/%s", url.PathEscape(slug))

	body, err := g.doGet(ctx, path)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("polymarket/gamma: get tag %s: %w", slug, err)
	}

	var apiTag APITag
	if err := json.Unmarshal(body, &apiTag); err != nil {
		return domain.Tag{}, fmt.Errorf("polymarket/gamma: decode tag: %w", err)
	}

	tag := apiTag.ToDomainTag()
	if tag.Slug == "" {
		tag.Slug = slug
	}
	return tag, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends an unauthenticated GET request to the Gamma API.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	if len(bodyStr) > 512 {
		bodyStr = bodyStr[:512]
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
