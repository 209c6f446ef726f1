package analytics

import "hospital_insights/internal/dataset" // Loaded dataset table

// PreviewRows is the number of rows shown on the data overview page.
const PreviewRows = 10

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column string // Header name
	Count  int    // Empty or NA cells
}

// Overview is the data-quality report.
type Overview struct {
	Rows      int
	Columns   []string
	Preview   [][]string
	Missing   []MissingCount
	Summaries []Summary
	Outliers  []OutlierReport
	Schema    []dataset.Binding
}

// BuildOverview computes the preview, missing counts, descriptive
// statistics and IQR outlier counts of a table.
func BuildOverview(t *dataset.Table, schema dataset.Schema) Overview {
	o := Overview{
		Rows:     t.Rows(),
		Preview:  t.Head(PreviewRows),
		Outliers: Outliers(t),
		Schema:   schema.Bindings(),
	}
	for _, c := range t.Columns() {
		o.Columns = append(o.Columns, c.Name)
		o.Missing = append(o.Missing, MissingCount{Column: c.Name, Count: c.MissingCount()})
	}
	for _, c := range t.NumericColumns() {
		o.Summaries = append(o.Summaries, Summarize(c))
	}
	return o
}
