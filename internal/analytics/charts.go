package analytics

import (
	"bytes"         // In-memory buffers
	"errors"        // Error matching
	"fmt"           // Error formatting
	"io"            // Writer interfaces
	"math"          // NaN handling
	"os"            // File access
	"path/filepath" // Path handling
	"sort"          // Stable ordering

	"hospital_insights/internal/dataset" // Loaded dataset table

	"github.com/go-echarts/go-echarts/v2/charts" // Chart builders
	"github.com/go-echarts/go-echarts/v2/opts"   // Chart options
)

// Chart names double as file names under the charts directory.
const (
	ChartGender      = "gender_distribution"
	ChartStroke      = "stroke_distribution"
	ChartAge         = "age_histogram"
	ChartBMI         = "bmi_histogram"
	ChartCorrelation = "correlation_heatmap"

	HistogramBins = 20
	chartExt      = ".html"
)

// Chart is a rendered chart file.
type Chart struct {
	Name  string
	Title string
	File  string
}

type renderable interface {
	Render(w io.Writer) error
}

// chartSpec builds one chart, or reports false when the dataset lacks
// what the chart needs.
type chartSpec struct {
	name  string
	title string
	build func(t *dataset.Table, schema dataset.Schema, title string) (renderable, bool)
}

var chartSpecs = []chartSpec{
	{ChartGender, "Gender distribution", buildGenderChart},
	{ChartStroke, "Stroke outcome distribution", buildStrokeChart},
	{ChartAge, "Age distribution", histogramBuilder(dataset.FieldAge, "Age")},
	{ChartBMI, "BMI distribution", histogramBuilder(dataset.FieldBMI, "BMI")},
	{ChartCorrelation, "Correlation heatmap", buildCorrelationChart},
}

// ChartRenderer writes the fixed chart set into a directory. Every call
// regenerates and overwrites the files; concurrent calls race on the same
// paths and the last writer wins.
type ChartRenderer struct {
	Dir string
}

// NewChartRenderer returns a renderer writing into dir.
func NewChartRenderer(dir string) *ChartRenderer {
	return &ChartRenderer{Dir: dir}
}

// Render writes every chart the dataset supports and returns those that
// were written. Charts whose column is absent are skipped silently;
// write failures are joined into the returned error. A table without
// rows yields no charts.
func (r *ChartRenderer) Render(t *dataset.Table, schema dataset.Schema) ([]Chart, error) {
	if len(t.Columns()) == 0 || t.Rows() == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}
	var (
		written []Chart
		errs    []error
	)
	for _, spec := range chartSpecs {
		chart, ok := spec.build(t, schema, spec.title)
		if !ok {
			continue
		}
		file := spec.name + chartExt
		if err := writeChart(filepath.Join(r.Dir, file), chart); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.name, err))
			continue
		}
		written = append(written, Chart{Name: spec.name, Title: spec.title, File: file})
	}
	return written, errors.Join(errs...)
}

func writeChart(path string, chart renderable) error {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func baseOptions(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
}

func barChart(title, series string, labels []string, counts []int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions(title)...)
	data := make([]opts.BarData, len(counts))
	for i, n := range counts {
		data[i] = opts.BarData{Value: n}
	}
	bar.SetXAxis(labels).AddSeries(series, data)
	return bar
}

// categoryCounts counts non-missing labels, most frequent first.
func categoryCounts(labels []string) ([]string, []int) {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	values := make([]int, len(keys))
	for i, k := range keys {
		values[i] = counts[k]
	}
	return keys, values
}

func buildGenderChart(t *dataset.Table, schema dataset.Schema, title string) (renderable, bool) {
	c, ok := schema.Any(dataset.FieldGender)
	if !ok {
		return nil, false
	}
	var labels []string
	for i, raw := range c.Raw {
		if !c.Missing[i] {
			labels = append(labels, raw)
		}
	}
	keys, counts := categoryCounts(labels)
	return barChart(title, "Patients", keys, counts), true
}

// strokeLabel maps the outcome flag to a display label.
func strokeLabel(c *dataset.Column, i int) string {
	if c.Kind == dataset.Numeric {
		switch c.Values[i] {
		case 0:
			return "No stroke"
		case 1:
			return "Stroke"
		}
		return fmt.Sprintf("%g", c.Values[i])
	}
	switch c.Raw[i] {
	case "0":
		return "No stroke"
	case "1":
		return "Stroke"
	}
	return c.Raw[i]
}

func buildStrokeChart(t *dataset.Table, schema dataset.Schema, title string) (renderable, bool) {
	c, ok := schema.Any(dataset.FieldStroke)
	if !ok {
		return nil, false
	}
	var labels []string
	for i := range c.Raw {
		if !c.Missing[i] {
			labels = append(labels, strokeLabel(c, i))
		}
	}
	keys, counts := categoryCounts(labels)
	return barChart(title, "Patients", keys, counts), true
}

func histogramBuilder(field dataset.Field, axis string) func(*dataset.Table, dataset.Schema, string) (renderable, bool) {
	return func(t *dataset.Table, schema dataset.Schema, title string) (renderable, bool) {
		c, ok := schema.Numeric(field)
		if !ok {
			return nil, false
		}
		bins := Histogram(c.Present(), HistogramBins)
		if len(bins) == 0 {
			return nil, false
		}
		labels := make([]string, len(bins))
		counts := make([]int, len(bins))
		for i, b := range bins {
			labels[i] = fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper)
			counts[i] = b.Count
		}
		bar := barChart(title, "Patients", labels, counts)
		bar.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Name: axis}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
		)
		return bar, true
	}
}

func buildCorrelationChart(t *dataset.Table, _ dataset.Schema, title string) (renderable, bool) {
	m := Correlation(t)
	if len(m.Labels) == 0 {
		return nil, false
	}
	data := make([]opts.HeatMapData, 0, len(m.Labels)*len(m.Labels))
	for i := range m.Labels {
		for j := range m.Labels {
			var v any = "-" // Rendered as an empty cell
			if !math.IsNaN(m.Values[i][j]) {
				v = roundFloat(m.Values[i][j], 2)
			}
			data = append(data, opts.HeatMapData{Value: [3]any{i, j, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(baseOptions(title)...)
	hm.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange: &opts.VisualMapInRange{
				Color: []string{"#3b4cc0", "#f7f7f7", "#b40426"},
			},
		}),
	)
	hm.SetXAxis(m.Labels).AddSeries("correlation", data)
	return hm, true
}
