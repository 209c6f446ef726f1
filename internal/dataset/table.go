// Package dataset loads the uploaded stroke dataset into an in-memory
// table of named, typed columns.
package dataset

import (
	"math"    // NaN handling
	"strconv" // Number parsing
	"strings" // String helpers
)

// Kind is the inferred type of a column.
type Kind int

const (
	Text    Kind = iota // Any non-numeric cell present
	Numeric             // Every present cell parses as a float
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// missingTokens are cell spellings read as "no value".
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// IsMissing reports whether a trimmed cell counts as missing.
func IsMissing(cell string) bool {
	_, ok := missingTokens[cell]
	return ok
}

// Column holds one column of the table. Raw keeps the trimmed cell text
// ("" where missing); Values is populated for numeric columns only, with
// NaN where the cell is missing.
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Missing []bool
	Values  []float64
}

// Len is the number of rows.
func (c *Column) Len() int { return len(c.Raw) }

// MissingCount counts missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values in row order.
func (c *Column) Present() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// infer decides the column kind: numeric when every non-missing cell
// parses as a float.
func (c *Column) infer() {
	values := make([]float64, len(c.Raw))
	for i, cell := range c.Raw {
		if c.Missing[i] {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) {
			c.Kind = Text
			return
		}
		values[i] = v
	}
	c.Kind = Numeric
	c.Values = values
}

// Table is a parsed dataset. A nil *Table behaves as an empty table.
type Table struct {
	columns []*Column
	byName  map[string]*Column
	rows    int
}

// Rows is the number of data rows.
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the columns in header order.
func (t *Table) Columns() []*Column {
	if t == nil {
		return nil
	}
	return t.columns
}

// Column looks a column up by its exact header name.
func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.byName[name]
	return c, ok
}

// NumericColumns returns the numeric columns in header order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns() {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Head returns up to n rows as display strings. Missing cells are empty.
func (t *Table) Head(n int) [][]string {
	if n > t.Rows() {
		n = t.Rows()
	}
	rows := make([][]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.Raw[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// uniqueNames fills blanks and de-duplicates header names the way
// spreadsheet tools do: "x", "x.1", "x.2".
func uniqueNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for k := seen[base] + 1; ; k++ {
				candidate := base + "." + strconv.Itoa(k)
				if _, taken := seen[candidate]; !taken {
					seen[base] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
