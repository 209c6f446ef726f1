package analytics

import (
	"hospital_insights/internal/dataset" // Loaded dataset table

	"github.com/sirupsen/logrus" // Logging
)

// Engine runs the reporting pipeline: load the dataset, compute the
// statistics and render the chart set. It holds no per-request state.
type Engine struct {
	DataPath string
	Charts   *ChartRenderer
}

// NewEngine reads the dataset at dataPath and writes charts to chartsDir.
func NewEngine(dataPath, chartsDir string) *Engine {
	return &Engine{DataPath: dataPath, Charts: NewChartRenderer(chartsDir)}
}

// Dashboard is the data behind the dashboard page.
type Dashboard struct {
	HasData  bool
	Headline Headline
	Charts   []Chart
}

// Visuals is the data behind the chart gallery page.
type Visuals struct {
	HasData     bool
	Charts      []Chart
	Correlation CorrelationMatrix
}

func (e *Engine) load() (*dataset.Table, dataset.Schema, bool) {
	t, ok := dataset.Load(e.DataPath)
	return t, dataset.DescribeSchema(t), ok
}

func (e *Engine) renderCharts(t *dataset.Table, schema dataset.Schema) []Chart {
	charts, err := e.Charts.Render(t, schema)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"dir":   e.Charts.Dir,
			"error": err.Error(),
		}).Warn("Failed to render some charts")
	}
	return charts
}

// Dashboard computes the headline metrics and regenerates the charts.
func (e *Engine) Dashboard() Dashboard {
	t, schema, ok := e.load()
	d := Dashboard{HasData: ok, Headline: ComputeHeadline(t, schema)}
	if ok {
		d.Charts = e.renderCharts(t, schema)
	}
	return d
}

// Overview builds the data-quality report; false when there is no data.
func (e *Engine) Overview() (Overview, bool) {
	t, schema, ok := e.load()
	if !ok {
		return Overview{}, false
	}
	return BuildOverview(t, schema), true
}

// Visuals regenerates the charts and exposes the correlation matrix.
func (e *Engine) Visuals() Visuals {
	t, schema, ok := e.load()
	if !ok {
		return Visuals{}
	}
	return Visuals{
		HasData:     true,
		Charts:      e.renderCharts(t, schema),
		Correlation: Correlation(t),
	}
}
