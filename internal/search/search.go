// Package search builds catalog search URLs from search criteria.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"sjsage522/vintedscout/internal/market"
)

// BrandParam is repeated once per brand id
const BrandParam = "brand_ids[]"

// BuildURL returns the catalog search URL for c. Zero price bounds are left
// out and brand ids keep the caller's order.
func BuildURL(base string, c market.SearchCriteria) string {
	params := url.Values{}
	params.Set("search_text", c.SearchText)
	params.Set("order", c.SortMode.OrderToken())

	if c.MinPrice > 0 {
		params.Set("price_from", formatPrice(c.MinPrice))
	}
	if c.MaxPrice > 0 {
		params.Set("price_to", formatPrice(c.MaxPrice))
	}

	var b strings.Builder
	b.WriteString(base)
	if strings.Contains(base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString(params.Encode())

	for _, id := range c.BrandIDs {
		b.WriteByte('&')
		b.WriteString(BrandParam)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(id))
	}

	return b.String()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
