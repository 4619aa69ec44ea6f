// Package criteria turns command-line arguments into validated search criteria.
package criteria

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"sjsage522/vintedscout/internal/market"
	scouterr "sjsage522/vintedscout/pkg/errors"
)

type rawFlags struct {
	search       string
	mode         string
	maxAge       string
	brands       []string
	minFavorites string
	minDiscount  string
	minPrice     string
	maxPrice     string
}

// newFlagSet declares the criteria flags on a new flag set
func newFlagSet(name string, output io.Writer) (*pflag.FlagSet, *rawFlags) {
	raw := &rawFlags{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false

	fs.StringVarP(&raw.search, "search", "s", "", "search value")
	fs.StringVarP(&raw.mode, "mode", "m", string(market.SortMostRecent), "search mode: most_recent or relevancy")
	fs.StringVarP(&raw.maxAge, "max-age", "a", string(market.AgeAllTime),
		"item publication time: "+joinBuckets())
	fs.StringSliceVarP(&raw.brands, "brand", "b", nil, "brand id to search, repeatable or comma separated")
	fs.StringVar(&raw.minFavorites, "min-favorites", "0", "minimum number of favourites")
	fs.StringVar(&raw.minDiscount, "min-discount", "0", "minimum seller bundle discount in %, 0 disables the profile lookup")
	fs.StringVar(&raw.minPrice, "min-price", "0", "minimal price, 0 for none")
	fs.StringVar(&raw.maxPrice, "max-price", "0", "maximum price, 0 for none")

	return fs, raw
}

// Parse reads criteria from args (without the program name). Any malformed
// value is reported as an InvalidCriteriaError.
func Parse(args []string, output io.Writer) (market.SearchCriteria, error) {
	fs, raw := newFlagSet("vintedscout", output)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return market.SearchCriteria{}, err
		}
		return market.SearchCriteria{}, scouterr.NewInvalidCriteria("flags", strings.Join(args, " "), err.Error())
	}

	// A bare positional argument is accepted as the search value
	if raw.search == "" && fs.NArg() > 0 {
		raw.search = strings.Join(fs.Args(), " ")
	}

	return raw.criteria()
}

func (r *rawFlags) criteria() (market.SearchCriteria, error) {
	var err error
	c := market.SearchCriteria{
		SearchText: strings.TrimSpace(r.search),
		SortMode:   market.SortMode(r.mode),
		MaxAge:     market.AgeBucket(r.maxAge),
	}

	if c.SearchText == "" {
		return c, scouterr.NewInvalidCriteria("search", r.search, "search value is required")
	}
	if c.MinFavorites, err = nonNegativeInt("min_favorites", r.minFavorites); err != nil {
		return c, err
	}
	if c.MinDiscountPercent, err = nonNegativeInt("min_discount", r.minDiscount); err != nil {
		return c, err
	}
	if c.MinPrice, err = nonNegativeDecimal("min_price", r.minPrice); err != nil {
		return c, err
	}
	if c.MaxPrice, err = nonNegativeDecimal("max_price", r.maxPrice); err != nil {
		return c, err
	}
	for _, b := range r.brands {
		id, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil {
			return c, scouterr.NewInvalidCriteria("brand", b, "brand ids are integers")
		}
		c.BrandIDs = append(c.BrandIDs, id)
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// nonNegativeInt accepts digits only, so "-1", "+3" and "1.5" are rejected
func nonNegativeInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.Trim(value, "0123456789") != "" {
		return 0, scouterr.NewInvalidCriteria(field, value, "must be a non-negative integer")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, scouterr.NewInvalidCriteria(field, value, "must be a non-negative integer")
	}
	return n, nil
}

func nonNegativeDecimal(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || strings.ContainsAny(value, "eEnN") {
		return 0, scouterr.NewInvalidCriteria(field, value, "must be a non-negative number")
	}
	return f, nil
}

func joinBuckets() string {
	buckets := market.AgeBuckets()
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}
