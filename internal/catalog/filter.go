package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Collections understood by the collection filter. Anything else leaves
// the filter unapplied.
const (
	CollectionBestsellers = "bestsellers"
	CollectionNewArrivals = "new-arrivals"
)

// Sort orders. When SortBy is absent results come back newest-first.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
)

// Filter narrows a catalog query. All zero-value fields mean "not
// filtered". PriceRange is the raw "min-max" form from the storefront;
// a missing upper bound ("100-") means no upper bound and malformed
// numbers silently drop the filter.
type Filter struct {
	Category   string
	Collection string
	PriceRange string
	SortBy     string
	Limit      int
}

// priceBounds parses the PriceRange string. ok is false when the filter
// should not be applied at all.
func (f Filter) priceBounds() (min, max float64, hasMax, ok bool) {
	if f.PriceRange == "" {
		return 0, 0, false, false
	}

	parts := strings.SplitN(f.PriceRange, "-", 2)
	min, errMin := strconv.ParseFloat(parts[0], 64)
	if errMin != nil {
		return 0, 0, false, false
	}

	if len(parts) == 2 {
		max, errMax := strconv.ParseFloat(parts[1], 64)
		if errMax == nil {
			return min, max, true, true
		}
	}

	return min, 0, false, true
}

// CacheKey canonicalizes the filter for use as a cache key.
func (f Filter) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d", f.Category, f.Collection, f.PriceRange, f.SortBy, f.Limit)
}
