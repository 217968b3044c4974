package warranty

import "sort"

const (
	// DefaultWarrantyMonths applies to products without their own warranty period.
	DefaultWarrantyMonths = 1
	// DefaultExcludedProductID is the service product that never gets a certificate.
	DefaultExcludedProductID int64 = 7884
)

// Config holds the settings for one generation run. It is built once by the
// caller and never changes afterwards; copies are safe to share.
type Config struct {
	DefaultWarrantyMonths int
	excluded              map[int64]struct{}
}

// NewConfig builds a Config. A negative default is clamped to zero.
func NewConfig(defaultMonths int, excludedProducts []int64) Config {
	if defaultMonths < 0 {
		defaultMonths = 0
	}
	excluded := make(map[int64]struct{}, len(excludedProducts))
	for _, id := range excludedProducts {
		excluded[id] = struct{}{}
	}
	return Config{
		DefaultWarrantyMonths: defaultMonths,
		excluded:              excluded,
	}
}

// DefaultConfig returns the settings used when nothing has been configured.
func DefaultConfig() Config {
	return NewConfig(DefaultWarrantyMonths, []int64{DefaultExcludedProductID})
}

// Excludes reports whether productID is on the exclusion list.
func (c Config) Excludes(productID int64) bool {
	_, ok := c.excluded[productID]
	return ok
}

// ExcludedProducts returns the exclusion list in ascending order.
func (c Config) ExcludedProducts() []int64 {
	ids := make([]int64, 0, len(c.excluded))
	for id := range c.excluded {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
