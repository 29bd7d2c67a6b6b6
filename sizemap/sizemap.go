// Package sizemap decides which creative sizes are eligible at which viewport
// width. Every distinct width in the input size set becomes a viewport, and a
// size qualifies for a viewport when it fits and is either close enough in
// width (ratio rule) or large enough to skip the ratio rule entirely
// (threshold rule). The threshold keeps big ad formats from fragmenting into
// one-size viewport buckets.
package sizemap

import "sort"

const (
	// DefaultTolerance is the maximum allowed ratio difference between a
	// size's width and the viewport width.
	DefaultTolerance = 0.3

	// DefaultWidthThreshold is the width at or above which a size is grouped
	// with every larger viewport regardless of ratio. Zero disables the rule.
	DefaultWidthThreshold = 600
)

// Size is a creative size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Compute builds the viewport-width to eligible-sizes map. A size s qualifies
// at viewport v when s.Width <= v and either s.Width/v >= 1-tolerance or
// s.Width >= threshold (threshold 0 disables that clause). Pure function of
// its inputs; every input size appears at least under its own width.
func Compute(sizes []Size, tolerance float64, threshold int) map[int][]Size {
	result := make(map[int][]Size, len(sizes))
	for _, viewport := range sizes {
		v := viewport.Width
		if _, seen := result[v]; seen {
			continue
		}
		var eligible []Size
		for _, s := range sizes {
			if s.Width > v {
				continue
			}
			if ratio(s.Width, v) >= 1-tolerance || (threshold > 0 && s.Width >= threshold) {
				eligible = append(eligible, s)
			}
		}
		sortSizes(eligible)
		result[v] = dedupe(eligible)
	}
	return result
}

// ComputeDefault applies the default tolerance and width threshold.
func ComputeDefault(sizes []Size) map[int][]Size {
	return Compute(sizes, DefaultTolerance, DefaultWidthThreshold)
}

func ratio(a, b int) float64 {
	if a > b {
		a, b = b, a
	}
	if b == 0 {
		return 1
	}
	return float64(a) / float64(b)
}

func sortSizes(sizes []Size) {
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].Width != sizes[j].Width {
			return sizes[i].Width < sizes[j].Width
		}
		return sizes[i].Height < sizes[j].Height
	})
}

func dedupe(sizes []Size) []Size {
	out := sizes[:0]
	for i, s := range sizes {
		if i > 0 && s == sizes[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
