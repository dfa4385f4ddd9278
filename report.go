package factgrid

import (
	"fmt"
	"maps"
	"slices"
)

// Footnote is a note referenced by cells or rows.
type Footnote struct {
	ID   int
	Text string
}

// Report is a two-dimensional presentation grid of facts.
//
// Every row holds exactly one cell per column. Mutations that add or remove
// rows and columns go through the methods below so that the invariant holds
// between passes; Synchronize restores contiguous identifiers.
type Report struct {
	Title              string
	Rows               []*Row
	Columns            []*Column
	Footnotes          []Footnote
	IsMultiCurrency    bool
	RoundingDisclosure string
	RoundingLevels     map[UnitFamily]RoundingLevel
}

// NewReport creates an empty report.
func NewReport(title string) *Report {
	return &Report{Title: title}
}

// AddColumn appends a column and an empty cell to every row.
func (r *Report) AddColumn(c *Column) {
	r.InsertColumn(len(r.Columns), c)
}

// InsertColumn inserts a column at index i and an empty cell at the same
// position in every row.
func (r *Report) InsertColumn(i int, c *Column) {
	r.Columns = slices.Insert(r.Columns, i, c)
	for _, row := range r.Rows {
		row.Cells = slices.Insert(row.Cells, i, EmptyCell(i))
	}
}

// RemoveColumn removes the column at index i together with its cells.
func (r *Report) RemoveColumn(i int) {
	r.Columns = slices.Delete(r.Columns, i, i+1)
	for _, row := range r.Rows {
		if i < len(row.Cells) {
			row.Cells = slices.Delete(row.Cells, i, i+1)
		}
	}
}

// AddRow appends a row, padding or trimming its cells to the column count.
func (r *Report) AddRow(row *Row) {
	r.InsertRow(len(r.Rows), row)
}

// InsertRow inserts a row at index i, padding or trimming its cells to the
// column count.
func (r *Report) InsertRow(i int, row *Row) {
	fitCells(row, len(r.Columns))
	r.Rows = slices.Insert(r.Rows, i, row)
}

// RemoveRow removes the row at index i.
func (r *Report) RemoveRow(i int) {
	r.Rows = slices.Delete(r.Rows, i, i+1)
}

func fitCells(row *Row, n int) {
	if len(row.Cells) > n {
		row.Cells = row.Cells[:n]
	}
	for len(row.Cells) < n {
		row.Cells = append(row.Cells, EmptyCell(len(row.Cells)))
	}
	for i, c := range row.Cells {
		if c == nil {
			row.Cells[i] = EmptyCell(i)
		}
	}
}

// Synchronize renumbers rows and columns contiguously and gives every row
// exactly one cell per column.
func (r *Report) Synchronize() {
	for i, c := range r.Columns {
		c.ID = i
	}
	for i, row := range r.Rows {
		row.ID = i
		fitCells(row, len(r.Columns))
		for j, c := range row.Cells {
			c.ColumnID = j
		}
	}
}

// CheckSynchrony returns an error naming the first row whose cell count
// differs from the column count or whose identifiers are out of order.
func (r *Report) CheckSynchrony() error {
	for i, c := range r.Columns {
		if c.ID != i {
			return fmt.Errorf("column %d has id %d", i, c.ID)
		}
	}
	for i, row := range r.Rows {
		if row.ID != i {
			return fmt.Errorf("row %d has id %d", i, row.ID)
		}
		if len(row.Cells) != len(r.Columns) {
			return fmt.Errorf("row %d (%s) has %d cells, report has %d columns",
				i, row.Caption(" "), len(row.Cells), len(r.Columns))
		}
		for j, c := range row.Cells {
			if c == nil || c.ColumnID != j {
				return fmt.Errorf("row %d cell %d is out of sync", i, j)
			}
		}
	}
	return nil
}

// Cell returns the cell at a row and column index.
func (r *Report) Cell(row, col int) *Cell {
	if row < 0 || row >= len(r.Rows) || col < 0 || col >= len(r.Rows[row].Cells) {
		return nil
	}
	return r.Rows[row].Cells[col]
}

// ColumnHasData reports whether any row holds a fact in column i.
func (r *Report) ColumnHasData(i int) bool {
	for _, row := range r.Rows {
		if i < len(row.Cells) && row.Cells[i].HasData() {
			return true
		}
	}
	return false
}

// RemoveEmptyColumns drops columns that hold no facts.
func (r *Report) RemoveEmptyColumns() int {
	removed := 0
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i].IsAbstractGroupTitle || r.ColumnHasData(i) {
			continue
		}
		r.RemoveColumn(i)
		removed++
	}
	return removed
}

// RemoveEmptyRows drops rows that hold no facts. Group titles are kept; balance
// rows are kept when keepBalances is set.
func (r *Report) RemoveEmptyRows(keepBalances bool) int {
	before := len(r.Rows)
	r.Rows = slices.DeleteFunc(r.Rows, func(row *Row) bool {
		if row.IsAbstractGroupTitle || row.HasData() {
			return false
		}
		return !(keepBalances && row.Role.IsBalance())
	})
	return before - len(r.Rows)
}

// Footnote returns the footnote with the given id.
func (r *Report) Footnote(id int) (Footnote, bool) {
	for _, f := range r.Footnotes {
		if f.ID == id {
			return f, true
		}
	}
	return Footnote{}, false
}

// HasBalanceRole reports whether any row carries the role.
func (r *Report) HasBalanceRole(role BalanceRole) bool {
	return slices.ContainsFunc(r.Rows, func(row *Row) bool { return row.Role == role })
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	cp := &Report{
		Title:              r.Title,
		Footnotes:          slices.Clone(r.Footnotes),
		IsMultiCurrency:    r.IsMultiCurrency,
		RoundingDisclosure: r.RoundingDisclosure,
		RoundingLevels:     maps.Clone(r.RoundingLevels),
	}
	cp.Columns = make([]*Column, len(r.Columns))
	for i, c := range r.Columns {
		cp.Columns[i] = c.Clone()
	}
	cp.Rows = make([]*Row, len(r.Rows))
	for i, row := range r.Rows {
		cp.Rows[i] = row.Clone()
	}
	return cp
}
