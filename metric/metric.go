// Package metric provides similarity metrics for fixed-length activation
// vectors. All metrics return values in [0, 1] where 1 means identical.
package metric

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrSizeMismatch is returned when two vectors have different lengths.
var ErrSizeMismatch = errors.New("vector sizes do not match")

// Func computes the similarity between two equal-length vectors.
type Func func(a, b []float64) (float64, error)

// CosineSimilarity calculates the cosine similarity between two vectors,
// clamped to [0, 1]. Zero-norm inputs yield 0 rather than an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrSizeMismatch
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	if na == 0 || nb == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, sim)), nil
}

// EuclideanSimilarity converts L2 distance to similarity via 1/(1+d).
func EuclideanSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrSizeMismatch
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return 1.0 / (1.0 + math.Sqrt(sum)), nil
}

// ManhattanSimilarity converts L1 distance to similarity via 1/(1+d).
func ManhattanSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrSizeMismatch
	}

	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return 1.0 / (1.0 + sum), nil
}

// CorrelationSimilarity computes the Pearson correlation coefficient and
// shifts it from [-1, 1] to [0, 1]. Constant vectors yield 0.
func CorrelationSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrSizeMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(len(a))
	meanB /= float64(len(b))

	var num, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0, nil
	}

	r := num / math.Sqrt(varA*varB)
	return (r + 1.0) / 2.0, nil
}

// ByName returns the similarity function registered under the given name.
// Unknown names fail descriptively; there is no default metric.
func ByName(name string) (Func, error) {
	switch strings.ToLower(name) {
	case "cosine":
		return CosineSimilarity, nil
	case "euclidean":
		return EuclideanSimilarity, nil
	case "manhattan":
		return ManhattanSimilarity, nil
	case "correlation":
		return CorrelationSimilarity, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q (available: %s)",
			name, strings.Join(Available(), ", "))
	}
}

// Available lists the registered metric names.
func Available() []string {
	return []string{"cosine", "euclidean", "manhattan", "correlation"}
}
