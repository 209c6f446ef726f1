package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"hospital_insights/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHeadline_Scenario(t *testing.T) {
	table := parse(t, "age,bmi,stroke\n10,18,0\n20,22,0\n30,26,1\n40,30,0\n")

	h := ComputeHeadline(table, dataset.DescribeSchema(table))

	assert.Equal(t, 4, h.TotalPatients)
	require.NotNil(t, h.AvgAge)
	require.NotNil(t, h.AvgBMI)
	require.NotNil(t, h.StrokeRate)
	assert.Equal(t, 25.0, *h.AvgAge)
	assert.Equal(t, 24.0, *h.AvgBMI)
	assert.Equal(t, 25.0, *h.StrokeRate)
}

func TestComputeHeadline_Rounding(t *testing.T) {
	table := parse(t, "age,bmi,stroke\n1,20.04,1\n2,20.02,0\n2,20.01,0\n")

	h := ComputeHeadline(table, dataset.DescribeSchema(table))

	assert.Equal(t, 1.7, *h.AvgAge)
	assert.Equal(t, 20.0, *h.AvgBMI)
	assert.Equal(t, 33.33, *h.StrokeRate)
}

func TestComputeHeadline_AbsentColumns(t *testing.T) {
	table := parse(t, "gender,age\nMale,old\nFemale,young\n")

	h := ComputeHeadline(table, dataset.DescribeSchema(table))

	assert.Equal(t, 2, h.TotalPatients)
	assert.Nil(t, h.AvgAge, "text age column is not averaged")
	assert.Nil(t, h.AvgBMI)
	assert.Nil(t, h.StrokeRate)
}

func TestComputeHeadline_NoData(t *testing.T) {
	h := ComputeHeadline(nil, dataset.DescribeSchema(nil))

	assert.Equal(t, Headline{}, h)
}

func TestStrokeRate_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(200)
		var b strings.Builder
		b.WriteString("stroke\n")
		positives := 0
		for i := 0; i < n; i++ {
			v := rng.Intn(2)
			positives += v
			fmt.Fprintf(&b, "%d\n", v)
		}
		table := parse(t, b.String())

		h := ComputeHeadline(table, dataset.DescribeSchema(table))

		rate := float64(positives) / float64(n) * 100
		want := math.Round(rate*100) / 100
		require.NotNil(t, h.StrokeRate)
		require.Equal(t, want, *h.StrokeRate)
	}
}

func TestBuildOverview(t *testing.T) {
	var b strings.Builder
	b.WriteString("gender,age,bmi\n")
	for i := 0; i < 12; i++ {
		bmi := fmt.Sprintf("%d", 20+i)
		if i%4 == 0 {
			bmi = "N/A"
		}
		fmt.Fprintf(&b, "Female,%d,%s\n", 30+i, bmi)
	}
	b.WriteString("Male,35,90\n")
	table := parse(t, b.String())

	o := BuildOverview(table, dataset.DescribeSchema(table))

	assert.Equal(t, 13, o.Rows)
	assert.Equal(t, []string{"gender", "age", "bmi"}, o.Columns)
	assert.Len(t, o.Preview, PreviewRows)
	assert.Equal(t, []MissingCount{{"gender", 0}, {"age", 0}, {"bmi", 3}}, o.Missing)
	require.Len(t, o.Summaries, 2)
	assert.Equal(t, "age", o.Summaries[0].Column)
	assert.Equal(t, 10, o.Summaries[1].Count)
	require.Len(t, o.Outliers, 2)
	assert.Equal(t, 0, o.Outliers[0].Count)
	assert.Equal(t, 1, o.Outliers[1].Count, "bmi 90 is outside the fences")
	assert.Len(t, o.Schema, len(dataset.KnownFields))
}
