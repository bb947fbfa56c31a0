// Package spike provides the spike-train type and similarity metrics for
// comparing trains of event timestamps within a bounded temporal window.
package spike

import (
	"slices"
)

// Train is an ordered sequence of spike times in milliseconds, relative to a
// window origin. Length is variable and unconstrained.
type Train []float64

// Clone returns a copy of the train.
func (t Train) Clone() Train {
	return slices.Clone(t)
}

// Sorted returns a sorted copy of the train. The original is not modified.
func (t Train) Sorted() Train {
	s := slices.Clone(t)
	slices.Sort(s)
	return s
}

// IsEmpty reports whether the train contains no spikes.
func (t Train) IsEmpty() bool {
	return len(t) == 0
}

// Blend folds src into dst with an exponential-moving-average update:
// dst[i] = (1-alpha)*dst[i] + alpha*src[i], computed over sorted copies of
// both trains. Trains of unequal length are blended over the common prefix;
// surplus spikes in dst are kept, surplus spikes in src are ignored.
func Blend(dst Train, src Train, alpha float64) Train {
	a := dst.Sorted()
	b := src.Sorted()
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		a[i] = (1.0-alpha)*a[i] + alpha*b[i]
	}
	return a
}

// Histogram bins the train into bins equal-width bins over [0, window) and
// normalizes the counts to a probability distribution. An empty train yields
// an all-zero distribution.
func (t Train) Histogram(window float64, bins int) []float64 {
	h := make([]float64, bins)
	if len(t) == 0 || window <= 0 {
		return h
	}

	binWidth := window / float64(bins)
	counted := 0
	for _, s := range t {
		if s < 0 || s >= window {
			continue
		}
		idx := int(s / binWidth)
		if idx >= bins {
			idx = bins - 1
		}
		h[idx]++
		counted++
	}

	if counted > 0 {
		inv := 1.0 / float64(counted)
		for i := range h {
			h[i] *= inv
		}
	}

	return h
}
