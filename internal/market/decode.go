package market

import (
	"encoding/json"

	scouterr "sjsage522/vintedscout/pkg/errors"
)

const (
	resourceSearchPage = "search page"
	resourceProfile    = "profile"
)

// DecodeSearchPage decodes a search response body. Every missing or mistyped
// required field is reported in the returned DecodeError.
func DecodeSearchPage(body []byte) (*SearchPage, error) {
	r := &fieldReader{}
	root, err := decodeRoot(resourceSearchPage, body, r)
	if err != nil {
		return nil, err
	}

	page := &SearchPage{Code: int(root.Int("code", true))}

	if elems, ok := root.Array("items", true); ok {
		page.Items = make([]Listing, 0, len(elems))
		for i, raw := range elems {
			item, ok := r.objectAt(indexPath("items", i), raw)
			if !ok {
				continue
			}
			page.Items = append(page.Items, decodeListing(item))
		}
	}

	if p, ok := root.Object("pagination", false); ok {
		page.Pagination = &Pagination{
			CurrentPage:  int(p.Int("current_page", false)),
			TotalPages:   int(p.Int("total_pages", false)),
			TotalEntries: int(p.Int("total_entries", false)),
			PerPage:      int(p.Int("per_page", false)),
			Time:         p.Int("time", false),
		}
	}

	if len(r.issues) > 0 {
		return nil, scouterr.NewDecode(resourceSearchPage, r.issues)
	}
	return page, nil
}

func decodeListing(o object) Listing {
	listing := Listing{
		ID:            o.Int("id", true),
		Title:         o.String("title", true),
		FavoriteCount: int(o.Int("favourite_count", true)),
		Path:          o.String("path", true),
		BrandTitle:    o.String("brand_title", false),
		SizeTitle:     o.String("size_title", false),
		Status:        o.String("status", false),
		ViewCount:     int(o.Int("view_count", false)),
		URL:           o.String("url", false),
		Promoted:      o.Bool("promoted", false),
	}
	if listing.FavoriteCount < 0 {
		o.r.fail(o.childPath("favourite_count"), "must not be negative")
	}

	if price, ok := o.Object("price", true); ok {
		listing.Price = Money{
			Amount:       price.String("amount", true),
			CurrencyCode: price.String("currency_code", true),
		}
	}

	if photo, ok := o.Object("photo", true); ok {
		if hr, ok := photo.Object("high_resolution", true); ok {
			listing.PublishedAt = hr.Int("timestamp", true)
		}
	}

	if user, ok := o.Object("user", true); ok {
		listing.Seller = SellerSummary{
			ID:          user.Int("id", true),
			Login:       user.String("login", true),
			ProfilePath: user.String("profile_url", true),
			IsBusiness:  user.Bool("business", true),
		}
	}

	return listing
}

// DecodeProfile decodes a profile response body
func DecodeProfile(body []byte) (*SellerProfile, error) {
	r := &fieldReader{}
	root, err := decodeRoot(resourceProfile, body, r)
	if err != nil {
		return nil, err
	}

	root.Int("code", true)

	var profile *SellerProfile
	if user, ok := root.Object("user", true); ok {
		profile = &SellerProfile{
			ID:    user.Int("id", true),
			Login: user.String("login", true),
			Path:  user.String("path", true),
		}
		if bd, ok := user.Object("bundle_discount", false); ok {
			profile.BundleDiscount = decodeBundleDiscount(bd)
		}
	}

	if len(r.issues) > 0 {
		return nil, scouterr.NewDecode(resourceProfile, r.issues)
	}
	return profile, nil
}

func decodeBundleDiscount(o object) *BundleDiscount {
	discount := &BundleDiscount{Enabled: o.Bool("enabled", true)}

	elems, ok := o.Array("discounts", false)
	if !ok {
		return discount
	}
	discount.Tiers = make([]DiscountTier, 0, len(elems))
	for i, raw := range elems {
		tier, ok := o.r.objectAt(indexPath(o.childPath("discounts"), i), raw)
		if !ok {
			continue
		}
		discount.Tiers = append(discount.Tiers, DiscountTier{
			MinimumItemCount: int(tier.Int("minimal_item_count", true)),
			Fraction:         tier.Fraction("fraction", true),
		})
	}
	return discount
}

func decodeRoot(resource string, body []byte, r *fieldReader) (object, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return object{}, scouterr.NewMalformed(resource, err)
	}
	root, ok := r.objectAt("", raw)
	if !ok {
		return object{}, scouterr.NewDecode(resource, r.issues)
	}
	return root, nil
}
