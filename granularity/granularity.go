package granularity

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// DefaultPrecision is the number of currency decimal places applied to every
// bucket value when a granularity does not declare its own.
const DefaultPrecision int32 = 2

// Bucket defines a price-stepping rule valid up to a ceiling price. Prices
// covered by the bucket advance in Increment steps until Max is reached.
type Bucket struct {
	Increment decimal.Decimal `json:"increment"`
	Max       decimal.Decimal `json:"max"`
}

// PriceGranularity is a named table of price buckets defining how finely bid
// prices are discretized. Buckets are kept sorted by Max ascending.
type PriceGranularity struct {
	Key       string   `json:"key"`
	Buckets   []Bucket `json:"buckets"`
	Precision int32    `json:"precision,omitempty"`
}

func bucket(increment, max string) Bucket {
	return Bucket{
		Increment: decimal.RequireFromString(increment),
		Max:       decimal.RequireFromString(max),
	}
}

// Default returns the built-in granularity tables keyed by name. The low
// through dense tables match the standard header-bidding price configs; the
// newspack table is the tiered default used for ad-manager provisioning.
//
// Note the high table expands to 2000 price points and therefore cannot be
// provisioned as line items; it exists for parity with the standard set.
func Default() map[string]PriceGranularity {
	return map[string]PriceGranularity{
		"low": {
			Key:     "low",
			Buckets: []Bucket{bucket("0.5", "5")},
		},
		"med": {
			Key:     "med",
			Buckets: []Bucket{bucket("0.1", "20")},
		},
		"high": {
			Key:     "high",
			Buckets: []Bucket{bucket("0.01", "20")},
		},
		"auto": {
			Key: "auto",
			Buckets: []Bucket{
				bucket("0.05", "5"),
				bucket("0.1", "10"),
				bucket("0.5", "20"),
			},
		},
		"dense": {
			Key: "dense",
			Buckets: []Bucket{
				bucket("0.01", "3"),
				bucket("0.05", "8"),
				bucket("0.5", "20"),
			},
		},
		"newspack": {
			Key: "newspack",
			Buckets: []Bucket{
				bucket("0.01", "0.6"),
				bucket("0.05", "5"),
				bucket("0.1", "10"),
				bucket("0.5", "20"),
			},
		},
	}
}

// Get looks up a built-in granularity by key.
func Get(key string) (PriceGranularity, error) {
	g, ok := Default()[key]
	if !ok {
		return PriceGranularity{}, &errortypes.NotFound{ID: key, DataType: "Price granularity"}
	}
	return g, nil
}

func (g PriceGranularity) precision() int32 {
	if g.Precision > 0 {
		return g.Precision
	}
	return DefaultPrecision
}

// sortedBuckets returns the buckets ordered by Max ascending without
// mutating the receiver.
func (g PriceGranularity) sortedBuckets() []Bucket {
	buckets := make([]Bucket, len(g.Buckets))
	copy(buckets, g.Buckets)
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Max.LessThan(buckets[j].Max)
	})
	return buckets
}

// Validate rejects malformed granularities before any remote call is made:
// empty bucket lists, non-positive increments, increments that vanish at the
// configured precision, and duplicate bucket ceilings.
func (g PriceGranularity) Validate() error {
	var errs []error

	if len(g.Buckets) == 0 {
		errs = append(errs, &errortypes.Validation{
			Message: fmt.Sprintf("granularity %q has no buckets", g.Key),
		})
	}

	precision := g.precision()
	buckets := g.sortedBuckets()
	for i, b := range buckets {
		if !b.Increment.IsPositive() {
			errs = append(errs, &errortypes.Validation{
				Message: fmt.Sprintf("granularity %q bucket %d: increment %s is not positive", g.Key, i, b.Increment),
			})
		} else if !b.Increment.Round(precision).IsPositive() {
			errs = append(errs, &errortypes.Validation{
				Message: fmt.Sprintf("granularity %q bucket %d: increment %s rounds to zero at precision %d", g.Key, i, b.Increment, precision),
			})
		}
		if !b.Max.IsPositive() {
			errs = append(errs, &errortypes.Validation{
				Message: fmt.Sprintf("granularity %q bucket %d: max %s is not positive", g.Key, i, b.Max),
			})
		}
		if i > 0 && !buckets[i-1].Max.LessThan(b.Max) {
			errs = append(errs, &errortypes.Validation{
				Message: fmt.Sprintf("granularity %q: bucket maxes must be strictly increasing, got %s then %s", g.Key, buckets[i-1].Max, b.Max),
			})
		}
	}

	if len(errs) == 1 {
		return errs[0]
	}
	if len(errs) > 0 {
		return errortypes.NewAggregateErrors(fmt.Sprintf("invalid price granularity %q", g.Key), errs)
	}
	return nil
}
