package analytics

import "hospital_insights/internal/dataset" // Loaded dataset table

// Headline is the dashboard summary. Optional metrics are nil when the
// dataset has no usable column for them.
type Headline struct {
	TotalPatients int      // Data rows
	AvgAge        *float64 // Rounded to one decimal
	AvgBMI        *float64 // Rounded to one decimal
	StrokeRate    *float64 // Percent of rows with stroke=1
}

// ComputeHeadline derives the dashboard metrics from a loaded table.
func ComputeHeadline(t *dataset.Table, schema dataset.Schema) Headline {
	h := Headline{TotalPatients: t.Rows()}

	if c, ok := schema.Numeric(dataset.FieldAge); ok {
		if mean, ok := Mean(c.Present()); ok {
			h.AvgAge = roundedPtr(mean, 1)
		}
	}
	if c, ok := schema.Numeric(dataset.FieldBMI); ok {
		if mean, ok := Mean(c.Present()); ok {
			h.AvgBMI = roundedPtr(mean, 1)
		}
	}
	if c, ok := schema.Numeric(dataset.FieldStroke); ok && t.Rows() > 0 {
		h.StrokeRate = roundedPtr(StrokeRate(c.Values), 2)
	}
	return h
}

// StrokeRate is 100 * count(value == 1) / len(values). Missing and other
// values count towards the denominator only.
func StrokeRate(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	positive := 0
	for _, v := range values {
		if v == 1 {
			positive++
		}
	}
	return float64(positive) / float64(len(values)) * 100
}
