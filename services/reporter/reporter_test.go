package reporter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"sjsage522/vintedscout/internal/market"

	"github.com/stretchr/testify/assert"
)

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	published := time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local)
	err := r.Report([]market.MatchResult{{
		Title:                  "Veste en jean",
		Amount:                 "25.0",
		CurrencyCode:           "EUR",
		PublicationTime:        published,
		ProfileURL:             "https://www.vinted.fr/member/77-marie",
		ItemURL:                "https://www.vinted.fr/items/1001-veste-en-jean",
		HighestDiscountPercent: 40,
	}})
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Matching item: \n")
	assert.Contains(t, out, "- Title: Veste en jean\n")
	assert.Contains(t, out, "- Amount: 25.0\n")
	assert.Contains(t, out, "- Currency Code: EUR\n")
	assert.Contains(t, out, "- Publication Time: 2024-06-01 10:30:00\n")
	assert.Contains(t, out, "- Profile URL: https://www.vinted.fr/member/77-marie\n")
	assert.Contains(t, out, "- Item URL: https://www.vinted.fr/items/1001-veste-en-jean\n")
	assert.Contains(t, out, "- Highest Discount: 40%\n")
}

func TestTextReporterRoundsDiscount(t *testing.T) {
	profile := market.SellerProfile{BundleDiscount: &market.BundleDiscount{
		Enabled: true,
		Tiers:   []market.DiscountTier{{MinimumItemCount: 2, Fraction: 0.15}},
	}}

	var buf bytes.Buffer
	err := NewTextReporter(&buf).Report([]market.MatchResult{
		{Title: "a", HighestDiscountPercent: profile.HighestDiscountPercent()},
		{Title: "b", HighestDiscountPercent: 12.5},
		{Title: "c", HighestDiscountPercent: 0},
	})
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "- Highest Discount: 15%\n")
	assert.Contains(t, out, "- Highest Discount: 12.5%\n")
	assert.Contains(t, out, "- Highest Discount: 0%\n")
	assert.NotContains(t, out, "000000")
}

func TestTextReporterNoMatches(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, NewTextReporter(&buf).Report(nil))
	assert.Contains(t, buf.String(), "No matching items found.")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestTextReporterWriteError(t *testing.T) {
	err := NewTextReporter(failingWriter{}).Report([]market.MatchResult{{Title: "x"}})
	assert.EqualError(t, err, "closed pipe")
}
