// Package listing filters and orders property collections.
//
// Every function here is pure: inputs are never mutated and the result is
// always a fresh slice, so callers can share one catalog snapshot across
// concurrent requests.
package listing

import (
	"math"
	"slices"
	"strings"

	"estate_listing/internal/domain"
)

// Query returns the properties of ps matching every active constraint of
// f, ordered by sort. Input order is kept among equal elements.
func Query(ps []domain.Property, f domain.FilterSpec, sort domain.SortKey) []domain.Property {
	m := newMatcher(f)
	out := make([]domain.Property, 0, len(ps))
	for _, p := range ps {
		if m.match(p) {
			out = append(out, p)
		}
	}
	sortInPlace(out, sort)
	return out
}

// Match reports whether p satisfies f.
func Match(p domain.Property, f domain.FilterSpec) bool {
	return newMatcher(f).match(p)
}

// Sort returns a stably sorted copy of ps. Unknown keys keep input order.
func Sort(ps []domain.Property, sort domain.SortKey) []domain.Property {
	out := slices.Clone(ps)
	sortInPlace(out, sort)
	return out
}

func Featured(ps []domain.Property) []domain.Property {
	return filter(ps, func(p domain.Property) bool { return p.IsFeatured })
}

func ByAgent(ps []domain.Property, agentID string) []domain.Property {
	return filter(ps, func(p domain.Property) bool { return p.Agent.ID == agentID })
}

// ByIDs returns the properties whose id is in ids, in catalog order.
func ByIDs(ps []domain.Property, ids []string) []domain.Property {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return filter(ps, func(p domain.Property) bool {
		_, ok := set[p.ID]
		return ok
	})
}

func filter(ps []domain.Property, keep func(domain.Property) bool) []domain.Property {
	out := make([]domain.Property, 0)
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Normalize resolves f to its canonical form: folded enums, "all" for
// absent or unknown enum values, the NoPriceLimit sentinel for a missing
// upper bound and 0 for disabled or non-finite thresholds. Keyword and city
// are lower-cased, so specs differing only in letter case normalize
// identically.
func Normalize(f domain.FilterSpec) domain.FilterSpec {
	m := newMatcher(f)
	out := domain.DefaultFilter()
	out.Keyword = m.keyword
	out.City = m.city
	if m.kind != "" {
		out.Type = string(m.kind)
	}
	if m.propertyType != "" {
		out.PropertyType = string(m.propertyType)
	}
	if m.furnished != "" {
		out.Furnished = string(m.furnished)
	}
	out.Bedrooms = max(m.bedrooms, 0)
	out.Bathrooms = max(m.bathrooms, 0)
	out.MinSquareFootage = max(m.minSqft, 0)
	if m.priceOn {
		out.PriceMin = max(m.priceMin, 0)
		out.PriceMax = m.priceMax
	}
	return out
}

// matcher is a FilterSpec with its defaults resolved and strings folded.
type matcher struct {
	keyword      string
	kind         domain.ListingKind // "" = any
	propertyType domain.PropertyType
	furnished    domain.Furnished // "" = any
	city         string
	bedrooms     int
	bathrooms    int
	minSqft      float64
	priceOn      bool
	priceMin     float64
	priceMax     float64
}

func newMatcher(f domain.FilterSpec) matcher {
	m := matcher{
		keyword:   strings.ToLower(f.Keyword),
		city:      strings.ToLower(f.City),
		bedrooms:  f.Bedrooms,
		bathrooms: f.Bathrooms,
		minSqft:   finiteOr(f.MinSquareFootage, 0),
	}
	if k := domain.ListingKind(strings.ToLower(f.Type)); k.Valid() {
		m.kind = k
	}
	if t := domain.PropertyType(strings.ToLower(f.PropertyType)); t.Valid() {
		m.propertyType = t
	}
	switch fu := domain.Furnished(strings.ToLower(f.Furnished)); fu {
	case domain.FurnishedYes, domain.FurnishedNo:
		m.furnished = fu
	}

	// A range left at its defaults means "any price", not [0, NoPriceLimit].
	lo := finiteOr(f.PriceMin, 0)
	hi := finiteOr(f.PriceMax, domain.NoPriceLimit)
	if hi <= 0 {
		hi = domain.NoPriceLimit
	}
	if lo > 0 || hi < domain.NoPriceLimit {
		m.priceOn = true
		m.priceMin = lo
		m.priceMax = hi
	}
	return m
}

func (m matcher) match(p domain.Property) bool {
	if m.keyword != "" && !containsAny(m.keyword, p.Title, p.City, p.Neighborhood, string(p.PropertyType)) {
		return false
	}
	if m.kind != "" && p.Type != m.kind {
		return false
	}
	if m.propertyType != "" && p.PropertyType != m.propertyType {
		return false
	}
	if m.city != "" && !strings.Contains(strings.ToLower(p.City), m.city) {
		return false
	}
	if m.bedrooms > 0 && p.Bedrooms < m.bedrooms {
		return false
	}
	if m.bathrooms > 0 && p.Bathrooms < m.bathrooms {
		return false
	}
	if m.priceOn && (p.Price < m.priceMin || p.Price > m.priceMax) {
		return false
	}
	if m.furnished != "" && p.Furnished != (m.furnished == domain.FurnishedYes) {
		return false
	}
	if m.minSqft > 0 && p.SquareFootage < m.minSqft {
		return false
	}
	return true
}

// finiteOr maps NaN and ±Inf to def; they constrain nothing.
func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortInPlace(ps []domain.Property, key domain.SortKey) {
	var cmp func(a, b domain.Property) int
	switch key {
	case domain.SortNewest:
		cmp = func(a, b domain.Property) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case domain.SortPriceLow:
		cmp = func(a, b domain.Property) int { return compareFloat(a.Price, b.Price) }
	case domain.SortPriceHigh:
		cmp = func(a, b domain.Property) int { return compareFloat(b.Price, a.Price) }
	case domain.SortViews:
		cmp = func(a, b domain.Property) int { return b.Views - a.Views }
	default:
		return
	}
	slices.SortStableFunc(ps, cmp)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
