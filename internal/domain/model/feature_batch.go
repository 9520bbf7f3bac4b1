package model

import (
	"fmt"
	"math"
)

// ColumnKind distinguishes numeric feature columns from text columns.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindText
)

func (k ColumnKind) String() string {
	if k == KindText {
		return "text"
	}
	return "numeric"
}

// Column is one named column of a FeatureBatch. Exactly one of Numbers or
// Texts is populated, according to Kind.
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []float64
	Texts   []string
}

// NumericColumn builds a numeric column, copying values.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Numbers: append([]float64(nil), values...)}
}

// TextColumn builds a text column, copying values.
func TextColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindText, Texts: append([]string(nil), values...)}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Kind == KindText {
		return len(c.Texts)
	}
	return len(c.Numbers)
}

// HasNonFinite reports whether a numeric column holds NaN or an infinity.
func (c Column) HasNonFinite() bool {
	for _, v := range c.Numbers {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// FeatureBatch is an ordered set of equally long, uniquely named columns.
// Operations return new batches; a batch is never modified after creation.
type FeatureBatch struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewFeatureBatch validates column lengths and name uniqueness.
func NewFeatureBatch(rows int, cols ...Column) (FeatureBatch, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return FeatureBatch{}, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := index[c.Name]; dup {
			return FeatureBatch{}, fmt.Errorf("duplicate column %q", c.Name)
		}
		if c.Len() != rows {
			return FeatureBatch{}, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		index[c.Name] = i
	}
	return FeatureBatch{cols: append([]Column(nil), cols...), index: index, rows: rows}, nil
}

// Len returns the row count.
func (b FeatureBatch) Len() int { return b.rows }

// Names returns column names in order.
func (b FeatureBatch) Names() []string {
	names := make([]string, len(b.cols))
	for i, c := range b.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. Callers must not modify the slices.
func (b FeatureBatch) Columns() []Column {
	return append([]Column(nil), b.cols...)
}

// Column looks up a column by name.
func (b FeatureBatch) Column(name string) (Column, bool) {
	i, ok := b.index[name]
	if !ok {
		return Column{}, false
	}
	return b.cols[i], true
}

// Has reports whether the batch contains name.
func (b FeatureBatch) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Drop returns a batch without the named columns. Unknown names are ignored.
func (b FeatureBatch) Drop(names ...string) FeatureBatch {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}

	kept := make([]Column, 0, len(b.cols))
	for _, c := range b.cols {
		if _, ok := skip[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	out, _ := NewFeatureBatch(b.rows, kept...)
	return out
}

// TextColumns returns the names of text columns in order.
func (b FeatureBatch) TextColumns() []string {
	var names []string
	for _, c := range b.cols {
		if c.Kind == KindText {
			names = append(names, c.Name)
		}
	}
	return names
}

// Matrix returns row-major numeric values in column order. It fails if any
// column is text.
func (b FeatureBatch) Matrix() ([][]float64, error) {
	for _, c := range b.cols {
		if c.Kind != KindNumeric {
			return nil, fmt.Errorf("column %q is not numeric", c.Name)
		}
	}

	rows := make([][]float64, b.rows)
	for r := range rows {
		row := make([]float64, len(b.cols))
		for j, c := range b.cols {
			row[j] = c.Numbers[r]
		}
		rows[r] = row
	}
	return rows, nil
}
