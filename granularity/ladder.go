package granularity

import (
	"github.com/shopspring/decimal"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// MaxPricePoints is the hard ceiling on ladder length, matching the remote
// system's per-order line item limit. A granularity that expands past it is a
// validation failure, never a silent truncation.
const MaxPricePoints = 450

var microsPerUnit = decimal.NewFromInt(1_000_000)

// ToMicros converts a currency amount to integer micro-units, rounding to the
// granularity precision first so 0.125 at precision 2 lands on 130000, not
// 125000.
func ToMicros(d decimal.Decimal, precision int32) int64 {
	return d.Round(precision).Mul(microsPerUnit).IntPart()
}

// FormatMicros renders a micro-unit amount as a fixed two-decimal currency
// string, the form used for targeting values and line item names.
func FormatMicros(micros int64) string {
	return decimal.NewFromInt(micros).Div(microsPerUnit).StringFixed(2)
}

// Ladder expands a granularity into its ordered list of distinct price points
// in micro-units. The ladder starts at the smallest increment across all
// buckets and advances each emitted price by the increment of the first bucket
// whose max is strictly greater than it, so a price sitting exactly on a
// bucket ceiling steps by the next bucket's increment. The ladder always
// terminates exactly at the global max: when the increments do not divide the
// range evenly the global max is appended as a final point.
//
// The result is strictly increasing with no duplicates. Ladders longer than
// MaxPricePoints return a TooManyPricePoints error.
func Ladder(g PriceGranularity) ([]int64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	precision := g.precision()
	buckets := g.sortedBuckets()

	maxes := make([]int64, len(buckets))
	increments := make([]int64, len(buckets))
	start := int64(0)
	for i, b := range buckets {
		maxes[i] = ToMicros(b.Max, precision)
		increments[i] = ToMicros(b.Increment, precision)
		if start == 0 || increments[i] < start {
			start = increments[i]
		}
	}
	globalMax := maxes[len(maxes)-1]

	points := make([]int64, 0, MaxPricePoints)
	active := 0
	for current := start; current <= globalMax; {
		if len(points) >= MaxPricePoints {
			return nil, &errortypes.TooManyPricePoints{Count: len(points) + 1, Limit: MaxPricePoints}
		}
		points = append(points, current)

		for active < len(buckets) && current >= maxes[active] {
			active++
		}
		if active == len(buckets) {
			// Only reachable with current == globalMax since maxes are
			// strictly increasing, but guard against a ladder that would
			// otherwise stop short of the declared top price.
			if current < globalMax {
				return nil, &errortypes.Validation{
					Message: "discontiguous price granularity " + g.Key + ": bucket list exhausted below the global max",
				}
			}
			return points, nil
		}
		current += increments[active]
	}

	if len(points) == 0 || points[len(points)-1] < globalMax {
		if len(points) >= MaxPricePoints {
			return nil, &errortypes.TooManyPricePoints{Count: len(points) + 1, Limit: MaxPricePoints}
		}
		points = append(points, globalMax)
	}
	return points, nil
}
