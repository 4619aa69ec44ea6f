package search

import (
	"net/url"
	"strings"
	"testing"

	"sjsage522/vintedscout/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.vinted.fr/api/v2/catalog/items"

func TestBuildURLWithoutPriceBounds(t *testing.T) {
	c := market.DefaultCriteria("jacket")
	c.SortMode = market.SortRelevancy

	got := BuildURL(base, c)

	assert.Equal(t, base+"?order=relevance&search_text=jacket", got)
	assert.NotContains(t, got, "price_from")
	assert.NotContains(t, got, "price_to")
}

func TestBuildURLPriceBounds(t *testing.T) {
	c := market.DefaultCriteria("jacket")
	c.MinPrice = 10
	c.MaxPrice = 99.5

	u, err := url.Parse(BuildURL(base, c))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "newest_first", q.Get("order"))
	assert.Equal(t, "10", q.Get("price_from"))
	assert.Equal(t, "99.5", q.Get("price_to"))

	c.MinPrice = 0
	u, err = url.Parse(BuildURL(base, c))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("price_from"))
	assert.True(t, u.Query().Has("price_to"))
}

func TestBuildURLBrandsKeepOrder(t *testing.T) {
	c := market.DefaultCriteria("sneakers")
	c.BrandIDs = []int{53, 14, 88}

	got := BuildURL(base, c)

	assert.Equal(t, 3, strings.Count(got, BrandParam+"="))
	assert.True(t, strings.HasSuffix(got, "&brand_ids[]=53&brand_ids[]=14&brand_ids[]=88"))

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"53", "14", "88"}, u.Query()[BrandParam])
}

func TestBuildURLEncodesSearchText(t *testing.T) {
	got := BuildURL(base, market.DefaultCriteria("veste & jean"))

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "veste & jean", u.Query().Get("search_text"))
}

func TestBuildURLIsPure(t *testing.T) {
	c := market.DefaultCriteria("jacket")
	c.BrandIDs = []int{1, 2}
	assert.Equal(t, BuildURL(base, c), BuildURL(base, c))
	assert.Equal(t, []int{1, 2}, c.BrandIDs)
}

func TestBuildURLBaseWithQuery(t *testing.T) {
	got := BuildURL(base+"?per_page=96", market.DefaultCriteria("jacket"))
	assert.True(t, strings.HasPrefix(got, base+"?per_page=96&"))
}
