package drift

import (
	"strconv"
	"strings"
)

// Kind classifies the element kind of a sample, mirroring dataframe dtype
// inference: integer and continuous columns are numeric, everything else is
// categorical labels.
type Kind int

const (
	// KindInteger means every value parses as an integer.
	KindInteger Kind = iota
	// KindContinuous means every value parses as a float and at least one
	// is non-integral.
	KindContinuous
	// KindCategorical means values are opaque labels.
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindContinuous:
		return "continuous"
	case KindCategorical:
		return "categorical"
	}
	return "unknown"
}

// Sample is one feature column's ordered values, homogeneous in kind.
// Numeric kinds carry float values; integer and categorical kinds carry
// labels for category counting. Samples are immutable after construction.
type Sample struct {
	kind   Kind
	values []float64
	labels []string
}

// Kind returns the sample's element kind.
func (s Sample) Kind() Kind { return s.kind }

// Len returns the number of values.
func (s Sample) Len() int {
	if s.kind == KindCategorical {
		return len(s.labels)
	}
	return len(s.values)
}

// Values returns the numeric form. Empty for categorical samples.
func (s Sample) Values() []float64 { return s.values }

// Labels returns the label form. Empty for continuous samples.
func (s Sample) Labels() []string { return s.labels }

// Numeric builds a sample from float values, classifying it as integer
// when every value is integral. Integer labels are canonical decimal form.
func Numeric(values []float64) Sample {
	s := Sample{kind: KindInteger, values: values}
	for _, v := range values {
		if !isIntegral(v) {
			s.kind = KindContinuous
			return s
		}
	}
	s.labels = make([]string, len(values))
	for i, v := range values {
		s.labels[i] = strconv.FormatInt(int64(v), 10)
	}
	return s
}

// Categorical builds a label sample.
func Categorical(labels []string) Sample {
	return Sample{kind: KindCategorical, labels: labels}
}

// Parse classifies raw column values and builds the matching sample:
// all integers, else all floats, else labels. Integer labels are
// canonicalized through their parsed value so "01" and "1" are one
// category.
func Parse(raw []string) Sample {
	ints := make([]float64, len(raw))
	labels := make([]string, len(raw))
	integral := true
	for i, v := range raw {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			integral = false
			break
		}
		ints[i] = float64(n)
		labels[i] = strconv.FormatInt(n, 10)
	}
	if integral {
		return Sample{kind: KindInteger, values: ints, labels: labels}
	}

	floats := make([]float64, len(raw))
	numeric := true
	for i, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = f
	}
	if numeric {
		return Sample{kind: KindContinuous, values: floats}
	}

	return Categorical(raw)
}

func isIntegral(v float64) bool {
	if v < -9.2e18 || v > 9.2e18 {
		return false
	}
	return v == float64(int64(v))
}
