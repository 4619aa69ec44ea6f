// Package pipeline decides, listing by listing, whether a search result
// matches the user's criteria.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sjsage522/vintedscout/internal/client"
	"sjsage522/vintedscout/internal/market"
	"sjsage522/vintedscout/internal/pacer"
	"sjsage522/vintedscout/logger"
)

// SkipReason names the filter stage that rejected a listing
type SkipReason string

const (
	SkipTooOld             SkipReason = "too_old"
	SkipNotEnoughFavorites SkipReason = "not_enough_favorites"
	SkipDiscountTooLow     SkipReason = "discount_too_low"
)

// Decision is the outcome of evaluating one listing: either Match is set,
// or Reason and Detail say why the listing was skipped.
type Decision struct {
	Match  *market.MatchResult
	Reason SkipReason
	Detail string
}

// Matched reports whether the listing passed every active filter
func (d Decision) Matched() bool {
	return d.Match != nil
}

func skip(reason SkipReason, format string, args ...interface{}) Decision {
	return Decision{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Pipeline runs the ordered filter sequence: age, favourites, then the
// discount stage which is the only one that calls the upstream.
type Pipeline struct {
	profiles   client.ProfileFetcher
	pacer      pacer.Pacer
	websiteURL string
	now        func() time.Time
	log        *logger.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger replaces the pipeline logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a Pipeline. websiteURL is prefixed to relative item and
// profile paths.
func New(profiles client.ProfileFetcher, p pacer.Pacer, websiteURL string, opts ...Option) *Pipeline {
	pl := &Pipeline{
		profiles:   profiles,
		pacer:      p,
		websiteURL: strings.TrimSuffix(websiteURL, "/"),
		now:        time.Now,
		log:        logger.ForPipeline(),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Evaluate runs listing through the filters. A profile lookup failure is
// returned as an error and should end the run.
func (p *Pipeline) Evaluate(ctx context.Context, listing market.Listing, criteria market.SearchCriteria) (Decision, error) {
	if p.tooOld(listing, criteria.MaxAge) {
		return skip(SkipTooOld, "published too long ago (%s)",
			listing.PublicationTime().Format("2006-01-02 15:04:05")), nil
	}

	if listing.FavoriteCount < criteria.MinFavorites {
		return skip(SkipNotEnoughFavorites, "not enough favourites (%d < %d)",
			listing.FavoriteCount, criteria.MinFavorites), nil
	}

	var (
		profile         *market.SellerProfile
		highestDiscount float64
	)
	if criteria.MinDiscountPercent > 0 {
		if err := p.pacer.Pause(ctx); err != nil {
			return Decision{}, fmt.Errorf("pause before profile %d: %w", listing.Seller.ID, err)
		}

		var err error
		profile, err = p.profiles.FetchProfile(ctx, listing.Seller.ID)
		if err != nil {
			return Decision{}, fmt.Errorf("fetch profile %d for listing %d: %w", listing.Seller.ID, listing.ID, err)
		}

		highestDiscount = profile.HighestDiscountPercent()
		p.log.Debug().
			Int64("listing_id", listing.ID).
			Int64("seller_id", listing.Seller.ID).
			Float64("highest_discount", highestDiscount).
			Msg("Fetched seller profile")
		if highestDiscount < float64(criteria.MinDiscountPercent) {
			return skip(SkipDiscountTooLow, "no discount enabled or not enough discount (discount: %.0f%%)",
				highestDiscount), nil
		}
	}

	return Decision{Match: p.matchResult(listing, profile, highestDiscount)}, nil
}

// tooOld rejects only when the elapsed time is strictly above the bucket
func (p *Pipeline) tooOld(listing market.Listing, bucket market.AgeBucket) bool {
	threshold, ok := bucket.Threshold()
	if !ok {
		return false
	}
	return p.now().Sub(listing.PublicationTime()) > threshold
}

func (p *Pipeline) matchResult(listing market.Listing, profile *market.SellerProfile, highestDiscount float64) *market.MatchResult {
	profileURL := p.absolute(listing.Seller.ProfilePath)
	if profile != nil {
		profileURL = p.absolute(profile.Path)
	}

	return &market.MatchResult{
		ListingID:              listing.ID,
		Title:                  listing.Title,
		Amount:                 listing.Price.Amount,
		CurrencyCode:           listing.Price.CurrencyCode,
		PublicationTime:        listing.PublicationTime(),
		ProfileURL:             profileURL,
		ItemURL:                p.absolute(listing.Path),
		HighestDiscountPercent: highestDiscount,
	}
}

func (p *Pipeline) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.websiteURL + path
}
