package drift

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// ChiSquare runs the chi-square test of independence over the 2xk
// contingency table of category counts (rows = reference and current,
// columns = the union of labels seen on either side).
func ChiSquare(reference, current Sample) (types.ChiSquareResult, error) {
	if reference.Len() == 0 {
		return types.ChiSquareResult{}, NewValidationError("reference data cannot be empty")
	}
	if current.Len() == 0 {
		return types.ChiSquareResult{}, NewValidationError("current data cannot be empty")
	}
	if reference.Kind() == KindContinuous || current.Kind() == KindContinuous {
		return types.ChiSquareResult{}, NewTypeError("Chi-Square test requires categorical data, not continuous numerical")
	}

	refCounts, currCounts := categoryCounts(reference.Labels(), current.Labels())
	statistic, pValue := chiSquareIndependence(refCounts, currCounts)
	return types.ChiSquareResult{Statistic: statistic, PValue: pValue}, nil
}

// categoryCounts tallies each side's occurrences over the sorted union of
// labels. The order only has to be consistent within one call.
func categoryCounts(ref, curr []string) ([]float64, []float64) {
	seen := make(map[string]struct{}, len(ref)+len(curr))
	for _, l := range ref {
		seen[l] = struct{}{}
	}
	for _, l := range curr {
		seen[l] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	refCounts := make([]float64, len(labels))
	currCounts := make([]float64, len(labels))
	for _, l := range ref {
		refCounts[index[l]]++
	}
	for _, l := range curr {
		currCounts[index[l]]++
	}
	return refCounts, currCounts
}

// chiSquareIndependence computes the statistic and p-value for a 2xk table
// from row and column marginals. Yates' continuity correction applies at
// one degree of freedom, the conventional default for 2x2 tables; cells
// already matching expectation are left uncorrected. A single shared
// category has zero degrees of freedom and is a perfect fit.
func chiSquareIndependence(refCounts, currCounts []float64) (float64, float64) {
	k := len(refCounts)
	df := k - 1
	if df == 0 {
		return 0, 1
	}

	var refTotal, currTotal float64
	colTotals := make([]float64, k)
	for i := 0; i < k; i++ {
		refTotal += refCounts[i]
		currTotal += currCounts[i]
		colTotals[i] = refCounts[i] + currCounts[i]
	}
	grand := refTotal + currTotal

	yates := df == 1
	chi2 := 0.0
	for i := 0; i < k; i++ {
		for _, row := range [2]struct{ obs, total float64 }{
			{refCounts[i], refTotal},
			{currCounts[i], currTotal},
		} {
			expected := row.total * colTotals[i] / grand
			diff := row.obs - expected
			if yates && diff != 0 {
				diff = math.Abs(diff) - 0.5
			}
			chi2 += diff * diff / expected
		}
	}

	pValue := 1 - distuv.ChiSquared{K: float64(df)}.CDF(chi2)
	return chi2, clamp01(pValue)
}
