package drift

import (
	"math"
	"sort"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

const (
	psiBins    = 10
	psiEpsilon = 1e-10
)

// PSI computes the Population Stability Index between two numeric samples.
// Bins are 10 equal-width intervals over the reference range, with the
// outermost edges extended to +-Inf so every current value lands in a bin.
// Bin layout depends only on the reference min/max and the fixed bin count,
// so identical inputs always produce bit-identical output.
func PSI(reference, current Sample) (types.PSIResult, error) {
	if err := validateNumericPair(reference, current, "PSI"); err != nil {
		return types.PSIResult{}, err
	}

	lo, hi := minMax(reference.Values())
	edges := make([]float64, psiBins+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/psiBins
	}
	edges[0] = math.Inf(-1)
	edges[psiBins] = math.Inf(1)

	refProps := binProportions(reference.Values(), edges)
	currProps := binProportions(current.Values(), edges)

	psi := 0.0
	for i := 0; i < psiBins; i++ {
		r, c := refProps[i], currProps[i]
		if r == 0 {
			r = psiEpsilon
		}
		if c == 0 {
			c = psiEpsilon
		}
		psi += (c - r) * math.Log(c/r)
	}
	return types.PSIResult{Value: psi}, nil
}

func validateNumericPair(reference, current Sample, metricName string) error {
	if reference.Len() == 0 {
		return NewValidationError("reference data cannot be empty")
	}
	if current.Len() == 0 {
		return NewValidationError("current data cannot be empty")
	}
	if reference.Kind() == KindCategorical || current.Kind() == KindCategorical {
		return NewTypeError("%s requires numerical data, not categorical", metricName)
	}
	return nil
}

// binProportions histograms values into half-open bins [edge_i, edge_i+1),
// the last bin right-inclusive, and normalizes counts by the sample size.
func binProportions(values []float64, edges []float64) []float64 {
	nBins := len(edges) - 1
	props := make([]float64, nBins)
	for _, v := range values {
		idx := sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= nBins {
			idx = nBins - 1
		}
		props[idx]++
	}
	total := float64(len(values))
	for i := range props {
		props[i] /= total
	}
	return props
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
