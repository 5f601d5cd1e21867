package drift

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

// KS runs the two-sample Kolmogorov-Smirnov test: the statistic is the
// maximum absolute gap between the two empirical CDFs, the p-value the
// asymptotic approximation. Both lie in [0, 1].
func KS(reference, current Sample) (types.KSResult, error) {
	if err := validateNumericPair(reference, current, "KS test"); err != nil {
		return types.KSResult{}, err
	}

	x := append([]float64(nil), reference.Values()...)
	y := append([]float64(nil), current.Values()...)
	sort.Float64s(x)
	sort.Float64s(y)

	statistic := stat.KolmogorovSmirnov(x, nil, y, nil)
	return types.KSResult{
		Statistic: statistic,
		PValue:    ksPValue(statistic, len(x), len(y)),
	}, nil
}

// ksPValue evaluates the Kolmogorov limiting distribution's survival
// function at sqrt(n*m/(n+m))*d via the standard alternating series
// 2*sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2). Falls back to 1 when the
// series has not converged, which only happens for vanishing lambda.
func ksPValue(d float64, n, m int) float64 {
	en := float64(n) * float64(m) / float64(n+m)
	lambda := math.Sqrt(en) * d
	if lambda <= 0 {
		return 1
	}

	a2 := -2 * lambda * lambda
	sum := 0.0
	prev := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := 2 * sign * math.Exp(a2*float64(j)*float64(j))
		sum += term
		if math.Abs(term) <= 0.001*prev || math.Abs(term) <= 1e-8*sum {
			return clamp01(sum)
		}
		sign = -sign
		prev = math.Abs(term)
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
