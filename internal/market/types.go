package market

import "time"

// Money is a price as sent by the upstream. Amount is kept verbatim.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// SellerSummary identifies the owner of a listing
type SellerSummary struct {
	ID          int64
	Login       string
	ProfilePath string
	IsBusiness  bool
}

// Listing is one item of a search response page
type Listing struct {
	ID            int64
	Title         string
	Price         Money
	FavoriteCount int
	// PublishedAt is a unix timestamp in seconds
	PublishedAt int64
	Path        string
	Seller      SellerSummary

	BrandTitle string
	SizeTitle  string
	Status     string
	ViewCount  int
	URL        string
	Promoted   bool
}

// PublicationTime returns PublishedAt as a time
func (l Listing) PublicationTime() time.Time {
	return time.Unix(l.PublishedAt, 0)
}

// Pagination is the paging metadata of a search response
type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalEntries int
	PerPage      int
	Time         int64
}

// SearchPage is a decoded search response
type SearchPage struct {
	Items      []Listing
	Pagination *Pagination
	Code       int
}

// DiscountTier is one step of a seller's bundle discount
type DiscountTier struct {
	MinimumItemCount int
	Fraction         float64
}

// BundleDiscount is the multi-item discount configured by a seller
type BundleDiscount struct {
	Enabled bool
	Tiers   []DiscountTier
}

// SellerProfile is the subset of a seller's profile used for filtering
type SellerProfile struct {
	ID             int64
	Login          string
	Path           string
	BundleDiscount *BundleDiscount
}

// HighestDiscountPercent returns the best bundle discount in percent,
// or 0 when the seller has none enabled.
func (p SellerProfile) HighestDiscountPercent() float64 {
	if p.BundleDiscount == nil || !p.BundleDiscount.Enabled || len(p.BundleDiscount.Tiers) == 0 {
		return 0
	}

	highest := p.BundleDiscount.Tiers[0].Fraction
	for _, tier := range p.BundleDiscount.Tiers[1:] {
		if tier.Fraction > highest {
			highest = tier.Fraction
		}
	}
	return highest * 100
}

// MatchResult is a listing that passed every active filter
type MatchResult struct {
	ListingID              int64     `json:"listing_id"`
	Title                  string    `json:"title"`
	Amount                 string    `json:"amount"`
	CurrencyCode           string    `json:"currency_code"`
	PublicationTime        time.Time `json:"publication_time"`
	ProfileURL             string    `json:"profile_url"`
	ItemURL                string    `json:"item_url"`
	HighestDiscountPercent float64   `json:"highest_discount_percent"`
}
