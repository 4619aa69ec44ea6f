package market

import (
	"testing"
	"time"

	scouterr "sjsage522/vintedscout/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestHighestDiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		discount *BundleDiscount
		expected float64
	}{
		{"no bundle discount", nil, 0},
		{"disabled", &BundleDiscount{Enabled: false, Tiers: []DiscountTier{{2, 0.5}}}, 0},
		{"enabled without tiers", &BundleDiscount{Enabled: true}, 0},
		{"highest tier wins", &BundleDiscount{Enabled: true, Tiers: []DiscountTier{{2, 0.1}, {3, 0.4}, {5, 0.25}}}, 40},
		{"single tier", &BundleDiscount{Enabled: true, Tiers: []DiscountTier{{2, 0.3}}}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := SellerProfile{BundleDiscount: tt.discount}
			assert.InDelta(t, tt.expected, profile.HighestDiscountPercent(), 1e-9)
		})
	}
}

func TestAgeBucketThresholds(t *testing.T) {
	expected := map[AgeBucket]time.Duration{
		AgeLastHour:      time.Hour,
		AgeToday:         24 * time.Hour,
		AgeLastThreeDays: 72 * time.Hour,
		AgeLastSevenDays: 168 * time.Hour,
		AgeLastMonth:     720 * time.Hour,
	}
	for bucket, want := range expected {
		got, ok := bucket.Threshold()
		assert.True(t, ok, bucket)
		assert.Equal(t, want, got, bucket)
	}

	_, ok := AgeAllTime.Threshold()
	assert.False(t, ok)
	assert.True(t, AgeAllTime.Valid())
	assert.False(t, AgeBucket("yesterday").Valid())
	assert.Len(t, AgeBuckets(), 6)
}

func TestSortModeOrderToken(t *testing.T) {
	assert.Equal(t, "newest_first", SortMostRecent.OrderToken())
	assert.Equal(t, "relevance", SortRelevancy.OrderToken())
}

func TestSearchCriteriaValidate(t *testing.T) {
	assert.NoError(t, DefaultCriteria("jacket").Validate())

	tests := []struct {
		name   string
		mutate func(*SearchCriteria)
		field  string
	}{
		{"unknown mode", func(c *SearchCriteria) { c.SortMode = "cheapest" }, "mode"},
		{"unknown age", func(c *SearchCriteria) { c.MaxAge = "yesterday" }, "max_age"},
		{"negative favourites", func(c *SearchCriteria) { c.MinFavorites = -1 }, "min_favorites"},
		{"discount above 100", func(c *SearchCriteria) { c.MinDiscountPercent = 101 }, "min_discount"},
		{"negative price", func(c *SearchCriteria) { c.MinPrice = -5 }, "min_price"},
		{"inverted prices", func(c *SearchCriteria) { c.MinPrice = 50; c.MaxPrice = 10 }, "max_price"},
		{"zero brand", func(c *SearchCriteria) { c.BrandIDs = []int{53, 0} }, "brand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria("jacket")
			tt.mutate(&c)
			var invalid *scouterr.InvalidCriteriaError
			if assert.ErrorAs(t, c.Validate(), &invalid) {
				assert.Equal(t, tt.field, invalid.Field)
			}
		})
	}
}
