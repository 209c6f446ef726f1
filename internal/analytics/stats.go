package analytics

import (
	"math" // NaN handling
	"sort" // Stable ordering

	"hospital_insights/internal/dataset" // Loaded dataset table

	"gonum.org/v1/gonum/stat" // Descriptive statistics
)

// FenceMultiplier is the IQR rule multiplier.
const FenceMultiplier = 1.5

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func roundedPtr(val float64, precision uint) *float64 {
	r := roundFloat(val, precision)
	return &r
}

// Mean of values; false when there are none.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// Quantile interpolates linearly between the order statistics of an
// ascending slice: position (n-1)*p. It panics on an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func sortedCopy(values []float64) []float64 {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	return s
}

// Summary holds descriptive statistics of one numeric column. Fields are
// NaN when undefined (no values, or Std with a single value).
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summarize computes count, mean, sample std, min, quartiles and max.
func Summarize(c *dataset.Column) Summary {
	values := c.Present()
	nan := math.NaN()
	s := Summary{Column: c.Name, Count: len(values), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(values) == 0 {
		return s
	}
	sorted := sortedCopy(values)
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	s.Min = sorted[0]
	s.Q1 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q3 = Quantile(sorted, 0.75)
	s.Max = sorted[len(sorted)-1]
	return s
}

// Fences returns Q1, Q3 and the outlier bounds for multiplier.
func Fences(values []float64, multiplier float64) (q1, q3, lower, upper float64) {
	sorted := sortedCopy(values)
	q1 = Quantile(sorted, 0.25)
	q3 = Quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1, q3, q1 - multiplier*iqr, q3 + multiplier*iqr
}

// OutlierCount counts values outside [Q1 - m*IQR, Q3 + m*IQR].
func OutlierCount(values []float64, multiplier float64) int {
	if len(values) == 0 {
		return 0
	}
	_, _, lower, upper := Fences(values, multiplier)
	n := 0
	for _, v := range values {
		if v < lower || v > upper {
			n++
		}
	}
	return n
}

// OutlierReport is the IQR rule applied to one column.
type OutlierReport struct {
	Column string
	Q1     float64
	Q3     float64
	IQR    float64
	Lower  float64
	Upper  float64
	Count  int
}

// Outliers applies the IQR rule to every numeric column that has at
// least one value.
func Outliers(t *dataset.Table) []OutlierReport {
	var out []OutlierReport
	for _, c := range t.NumericColumns() {
		values := c.Present()
		if len(values) == 0 {
			continue
		}
		q1, q3, lower, upper := Fences(values, FenceMultiplier)
		out = append(out, OutlierReport{
			Column: c.Name,
			Q1:     q1,
			Q3:     q3,
			IQR:    q3 - q1,
			Lower:  lower,
			Upper:  upper,
			Count:  OutlierCount(values, FenceMultiplier),
		})
	}
	return out
}

// CorrelationMatrix is a square Pearson matrix over numeric columns.
type CorrelationMatrix struct {
	Labels []string
	Values [][]float64
}

// Correlation computes pairwise Pearson coefficients using the rows where
// both columns have a value. Pairs with fewer than two such rows or a
// constant side are NaN.
func Correlation(t *dataset.Table) CorrelationMatrix {
	cols := t.NumericColumns()
	m := CorrelationMatrix{
		Labels: make([]string, len(cols)),
		Values: make([][]float64, len(cols)),
	}
	for i, c := range cols {
		m.Labels[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(cols[i].Values, cols[j].Values)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Bin is one histogram bucket; the last bucket includes its upper edge.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Histogram splits values into equal-width bins between min and max.
// A constant input is spread over [v-0.5, v+0.5].
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}
