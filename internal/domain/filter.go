package domain

// NoPriceLimit is the priceMax sentinel: a range ending here is unbounded.
const NoPriceLimit = 10_000_000

const All = "all"

type Furnished string

const (
	FurnishedAll Furnished = "all"
	FurnishedYes Furnished = "yes"
	FurnishedNo  Furnished = "no"
)

// FilterSpec is the set of search constraints chosen by a user.
// The zero value, like DefaultFilter, constrains nothing.
type FilterSpec struct {
	Keyword          string  `json:"keyword"`
	Type             string  `json:"type"`         // all|sale|rent
	PropertyType     string  `json:"propertyType"` // all|apartment|house|villa|office|land
	PriceMin         float64 `json:"priceMin"`
	PriceMax         float64 `json:"priceMax"`
	Bedrooms         int     `json:"bedrooms"`
	Bathrooms        int     `json:"bathrooms"`
	MinSquareFootage float64 `json:"minSquareFootage"`
	Furnished        string  `json:"furnished"` // all|yes|no
	City             string  `json:"city"`
}

func DefaultFilter() FilterSpec {
	return FilterSpec{
		Type:         All,
		PropertyType: All,
		PriceMax:     NoPriceLimit,
		Furnished:    string(FurnishedAll),
	}
}

type SortKey string

const (
	SortNone      SortKey = ""
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortViews     SortKey = "views"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortViews:
		return true
	}
	return false
}

type SearchResult struct {
	Items []Property `json:"items"`
	Total int        `json:"total"`
}
