package dataset

import "strings" // String helpers

// Field is a column the analytics pages know how to use.
type Field string

const (
	FieldGender          Field = "gender"
	FieldAge             Field = "age"
	FieldHypertension    Field = "hypertension"
	FieldHeartDisease    Field = "heart_disease"
	FieldEverMarried     Field = "ever_married"
	FieldWorkType        Field = "work_type"
	FieldResidenceType   Field = "residence_type"
	FieldAvgGlucoseLevel Field = "avg_glucose_level"
	FieldBMI             Field = "bmi"
	FieldSmokingStatus   Field = "smoking_status"
	FieldStroke          Field = "stroke"
)

// FieldSpec is the expected type of a recognised field.
type FieldSpec struct {
	Field Field
	Kind  Kind
}

// KnownFields lists the recognised dataset columns in display order.
var KnownFields = []FieldSpec{
	{FieldGender, Text},
	{FieldAge, Numeric},
	{FieldHypertension, Numeric},
	{FieldHeartDisease, Numeric},
	{FieldEverMarried, Text},
	{FieldWorkType, Text},
	{FieldResidenceType, Text},
	{FieldAvgGlucoseLevel, Numeric},
	{FieldBMI, Numeric},
	{FieldSmokingStatus, Text},
	{FieldStroke, Numeric},
}

// Binding ties a recognised field to the column that carries it, if any.
type Binding struct {
	FieldSpec
	Column *Column
}

// Present reports whether the dataset has the column.
func (b Binding) Present() bool { return b.Column != nil }

// KindMatches reports whether the column has the expected type.
func (b Binding) KindMatches() bool { return b.Column != nil && b.Column.Kind == b.Kind }

// Schema is computed once per load; analytics code asks it which fields
// are usable instead of probing the table.
type Schema struct {
	bindings []Binding
	byField  map[Field]Binding
}

// DescribeSchema matches header names to known fields, ignoring case so
// that "Residence_type" binds residence_type.
func DescribeSchema(t *Table) Schema {
	s := Schema{byField: make(map[Field]Binding, len(KnownFields))}
	for _, spec := range KnownFields {
		b := Binding{FieldSpec: spec}
		for _, c := range t.Columns() {
			if strings.EqualFold(c.Name, string(spec.Field)) {
				b.Column = c
				break
			}
		}
		s.bindings = append(s.bindings, b)
		s.byField[spec.Field] = b
	}
	return s
}

// Bindings returns one binding per known field, in display order.
func (s Schema) Bindings() []Binding { return s.bindings }

// Any returns the column bound to f regardless of its type.
func (s Schema) Any(f Field) (*Column, bool) {
	b, ok := s.byField[f]
	if !ok || b.Column == nil {
		return nil, false
	}
	return b.Column, true
}

// Numeric returns the column bound to f when it was inferred numeric.
func (s Schema) Numeric(f Field) (*Column, bool) {
	c, ok := s.Any(f)
	if !ok || c.Kind != Numeric {
		return nil, false
	}
	return c, true
}
