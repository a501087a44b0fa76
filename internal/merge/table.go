package merge

import (
	"maps"
	"slices"

	"github.com/tphakala/squeakmerge/internal/calls"
	"github.com/tphakala/squeakmerge/internal/metadata"
)

// Derived column names, appended after the original columns in this order.
const (
	ColumnAnimal    = "Animal"
	ColumnTreatment = "Treatment"
	ColumnStripe    = "Stripe"
	ColumnCage      = "Cage"
	ColumnName      = "Name"
	ColumnMSTIM     = "Frequency of MSTIM"
	ColumnGroupName = "Group Name (Date)"
	ColumnClass     = "Long or Short"
	ColumnGroup     = "Group"
	ColumnUnique    = "Unique"
)

// DerivedColumns lists the derived columns in output order.
var DerivedColumns = []string{
	ColumnAnimal,
	ColumnTreatment,
	ColumnStripe,
	ColumnCage,
	ColumnName,
	ColumnMSTIM,
	ColumnGroupName,
	ColumnClass,
	ColumnGroup,
	ColumnUnique,
}

// Annotation carries the derived values shared by every row of one sheet.
type Annotation struct {
	Subject           metadata.Subject
	StimulusFrequency string
	GroupName         string
	Class             metadata.CallClass
}

// Name is the animal id combined with the stimulus label.
func (a Annotation) Name() string {
	return a.Subject.ID + "_" + a.StimulusFrequency
}

// Group is the treatment combined with the stimulus label.
func (a Annotation) Group() string {
	return a.Subject.Treatment + "_" + a.StimulusFrequency
}

func (a Annotation) values(unique bool) []string {
	return []string{
		a.Subject.ID,
		a.Subject.Treatment,
		a.Subject.Stripe,
		a.Subject.Cage,
		a.Name(),
		a.StimulusFrequency,
		a.GroupName,
		a.Class.Label(),
		a.Group(),
		calls.FormatBool(unique),
	}
}

// Row is one call with its derived annotation.
type Row struct {
	Call       calls.Call
	Annotation Annotation
	Unique     bool
	// columns is the header of the sheet the call came from.
	columns []string
}

// Value returns the original cell of column, if the source sheet had it.
func (r Row) Value(column string) (string, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.Call.Values[i], true
		}
	}
	return "", false
}

// Table is an append-only collection of rows whose original columns are the
// union of every appended sheet, in first-seen order.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// addColumns extends the union with columns not seen yet. A sheet column
// named like a derived column is dropped; the derived value replaces it.
func (t *Table) addColumns(columns []string) {
	for _, c := range columns {
		if _, ok := t.index[c]; ok || slices.Contains(DerivedColumns, c) {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
}

// Append adds every call of sheet with its uniqueness flag.
func (t *Table) Append(sheet *calls.Sheet, a Annotation, unique []bool) {
	t.addColumns(sheet.Columns)
	for i, c := range sheet.Calls {
		t.rows = append(t.rows, Row{Call: c, Annotation: a, Unique: unique[i], columns: sheet.Columns})
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in append order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Header returns the original columns followed by the derived columns.
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.columns)+len(DerivedColumns))
	header = append(header, t.columns...)
	return append(header, DerivedColumns...)
}

// Records renders every row aligned with Header. Columns a row's sheet did
// not have are left empty.
func (t *Table) Records() [][]string {
	width := len(t.columns)
	out := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		rec := make([]string, width, width+len(DerivedColumns))
		for i, c := range r.columns {
			if j, ok := t.index[c]; ok {
				rec[j] = r.Call.Values[i]
			}
		}
		out = append(out, append(rec, r.Annotation.values(r.Unique)...))
	}
	return out
}

// Filter returns a new table holding the rows for which keep is true. The
// column union is carried over unchanged.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{
		columns: slices.Clone(t.columns),
		index:   maps.Clone(t.index),
	}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// AcceptedAndUnique keeps accepted calls that no other detection covers.
func AcceptedAndUnique(r Row) bool {
	return r.Call.Accepted && r.Unique
}
