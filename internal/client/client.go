// Package client talks to the marketplace JSON API.
package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"sjsage522/vintedscout/helpers"
	"sjsage522/vintedscout/internal/market"
	"sjsage522/vintedscout/logger"
	scouterr "sjsage522/vintedscout/pkg/errors"
	"sjsage522/vintedscout/services/cache"
)

const (
	resourceItems   = "items"
	resourceProfile = "profile"

	// CooldownKey marks the upstream as rate limited in the cooldown store
	CooldownKey = "vinted_rate_limited"
)

// ItemFetcher retrieves the first page of a catalog search
type ItemFetcher interface {
	FetchItems(ctx context.Context, url string) ([]market.Listing, error)
}

// ProfileFetcher retrieves one seller profile
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, sellerID int64) (*market.SellerProfile, error)
}

// Client is the full upstream API
type Client interface {
	ItemFetcher
	ProfileFetcher
}

// Options configures an APIClient
type Options struct {
	// ProfileURL is the profile endpoint; the seller id is appended to it
	ProfileURL string
	// Headers are sent verbatim with every request
	Headers    map[string]string
	HTTPClient *http.Client
	// Cooldown is optional; nil disables the rate-limit block
	Cooldown *cache.Cooldown
}

// APIClient performs exactly one GET per call. It neither retries nor caches.
type APIClient struct {
	profileURL string
	headers    map[string]string
	http       *http.Client
	cooldown   *cache.Cooldown
	log        *logger.Logger
}

var _ Client = (*APIClient)(nil)

// New creates an APIClient
func New(opts Options) *APIClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = helpers.NewClient(0)
	}
	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &APIClient{
		profileURL: opts.ProfileURL,
		headers:    headers,
		http:       httpClient,
		cooldown:   opts.Cooldown,
		log:        logger.ForClient(),
	}
}

// FetchItems returns the listings of the search page at url, in page order
func (c *APIClient) FetchItems(ctx context.Context, url string) ([]market.Listing, error) {
	body, err := c.get(ctx, resourceItems, url)
	if err != nil {
		return nil, err
	}

	page, err := market.DecodeSearchPage(body)
	if err != nil {
		return nil, err
	}

	event := c.log.Debug().Int("items", len(page.Items))
	if page.Pagination != nil {
		event = event.Int("total_entries", page.Pagination.TotalEntries).Int("total_pages", page.Pagination.TotalPages)
	}
	event.Msg("Fetched search page")

	return page.Items, nil
}

// FetchProfile returns the profile of sellerID
func (c *APIClient) FetchProfile(ctx context.Context, sellerID int64) (*market.SellerProfile, error) {
	body, err := c.get(ctx, resourceProfile, c.ProfileURL(sellerID))
	if err != nil {
		return nil, err
	}
	return market.DecodeProfile(body)
}

// ProfileURL returns the profile endpoint of sellerID
func (c *APIClient) ProfileURL(sellerID int64) string {
	base := c.profileURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strconv.FormatInt(sellerID, 10)
}

func (c *APIClient) get(ctx context.Context, resource, url string) ([]byte, error) {
	if c.cooldown.Blocked(CooldownKey) {
		return nil, scouterr.NewRateLimited(resource, CooldownKey)
	}

	c.log.Debug().Str("resource", resource).Str("url", url).Msg("Sending request")

	resp, err := helpers.FetchWithHeaders(ctx, c.http, url, c.headers)
	if err != nil {
		return nil, scouterr.NewNetwork(resource, err)
	}

	if !resp.OK() {
		remoteErr := scouterr.NewRemoteRequest(
			resource,
			url,
			resp.StatusCode,
			string(resp.Body),
			helpers.SummarizeBody(resp.ContentType, resp.Body),
		)
		if remoteErr.IsRateLimited() {
			c.cooldown.Block(CooldownKey)
		}
		return nil, remoteErr
	}

	return resp.Body, nil
}
