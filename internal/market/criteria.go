package market

import (
	"strconv"
	"time"

	scouterr "sjsage522/vintedscout/pkg/errors"
)

// SortMode selects the ordering of search results
type SortMode string

const (
	SortRelevancy  SortMode = "relevancy"
	SortMostRecent SortMode = "most_recent"
)

// OrderToken returns the value of the upstream "order" parameter
func (m SortMode) OrderToken() string {
	if m == SortMostRecent {
		return "newest_first"
	}
	return "relevance"
}

// Valid reports whether m is a known sort mode
func (m SortMode) Valid() bool {
	return m == SortRelevancy || m == SortMostRecent
}

// AgeBucket is the maximum publication age accepted for a listing
type AgeBucket string

const (
	AgeLastHour      AgeBucket = "last_hour"
	AgeToday         AgeBucket = "today"
	AgeLastThreeDays AgeBucket = "last_three_days"
	AgeLastSevenDays AgeBucket = "last_seven_days"
	AgeLastMonth     AgeBucket = "last_month"
	AgeAllTime       AgeBucket = "all_time"
)

// Rolling windows, not calendar aligned.
var ageThresholds = map[AgeBucket]time.Duration{
	AgeLastHour:      time.Hour,
	AgeToday:         24 * time.Hour,
	AgeLastThreeDays: 72 * time.Hour,
	AgeLastSevenDays: 168 * time.Hour,
	AgeLastMonth:     720 * time.Hour,
}

// Threshold returns the maximum age of the bucket; ok is false for all_time
func (b AgeBucket) Threshold() (d time.Duration, ok bool) {
	d, ok = ageThresholds[b]
	return d, ok
}

// Valid reports whether b is a known bucket
func (b AgeBucket) Valid() bool {
	_, ok := ageThresholds[b]
	return ok || b == AgeAllTime
}

// AgeBuckets lists the buckets from the narrowest to all_time
func AgeBuckets() []AgeBucket {
	return []AgeBucket{AgeLastHour, AgeToday, AgeLastThreeDays, AgeLastSevenDays, AgeLastMonth, AgeAllTime}
}

// SearchCriteria is the full set of thresholds governing one run
type SearchCriteria struct {
	SearchText         string
	SortMode           SortMode
	MinPrice           float64
	MaxPrice           float64
	BrandIDs           []int
	MinFavorites       int
	MinDiscountPercent int
	MaxAge             AgeBucket
}

// DefaultCriteria returns criteria that accept every listing of a search
func DefaultCriteria(searchText string) SearchCriteria {
	return SearchCriteria{
		SearchText: searchText,
		SortMode:   SortMostRecent,
		MaxAge:     AgeAllTime,
	}
}

// Validate rejects criteria the pipeline cannot run with
func (c SearchCriteria) Validate() error {
	switch {
	case !c.SortMode.Valid():
		return scouterr.NewInvalidCriteria("mode", string(c.SortMode), "must be most_recent or relevancy")
	case !c.MaxAge.Valid():
		return scouterr.NewInvalidCriteria("max_age", string(c.MaxAge), "unknown publication time bucket")
	case c.MinFavorites < 0:
		return scouterr.NewInvalidCriteria("min_favorites", strconv.Itoa(c.MinFavorites), "must not be negative")
	case c.MinDiscountPercent < 0 || c.MinDiscountPercent > 100:
		return scouterr.NewInvalidCriteria("min_discount", strconv.Itoa(c.MinDiscountPercent), "must be between 0 and 100")
	case c.MinPrice < 0:
		return scouterr.NewInvalidCriteria("min_price", strconv.FormatFloat(c.MinPrice, 'f', -1, 64), "must not be negative")
	case c.MaxPrice < 0:
		return scouterr.NewInvalidCriteria("max_price", strconv.FormatFloat(c.MaxPrice, 'f', -1, 64), "must not be negative")
	case c.MinPrice > 0 && c.MaxPrice > 0 && c.MinPrice > c.MaxPrice:
		return scouterr.NewInvalidCriteria("max_price", strconv.FormatFloat(c.MaxPrice, 'f', -1, 64), "must not be below min_price")
	}
	for _, id := range c.BrandIDs {
		if id <= 0 {
			return scouterr.NewInvalidCriteria("brand", strconv.Itoa(id), "brand ids are positive")
		}
	}
	return nil
}
