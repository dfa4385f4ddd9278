package factgrid

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Cell is a single reported value at one row/column intersection.
// A cell is either numeric or textual; a nil cell carries no text and is
// still distinct from an empty (absent) cell.
type Cell struct {
	ColumnID int

	IsNumeric   bool
	Amount      decimal.Decimal
	Decimals    int  // declared precision in decimal digits (negative = rounded to tens, thousands...)
	HasDecimals bool // false for infinite or undeclared precision
	RoundedText string

	Text  string // free-text value of a non-numeric fact
	IsNil bool

	Currency           string
	CurrencySymbol     string
	ShowCurrencySymbol bool

	Footnotes []int

	ContextRef string
	UnitRef    string
}

// NumericCell creates a numeric cell with a declared precision.
func NumericCell(amount decimal.Decimal, decimals int) *Cell {
	return &Cell{IsNumeric: true, Amount: amount, Decimals: decimals, HasDecimals: true}
}

// TextCell creates a textual cell.
func TextCell(text string) *Cell {
	return &Cell{Text: text}
}

// NilCell creates a cell for a fact reported as nil.
func NilCell() *Cell {
	return &Cell{IsNil: true}
}

// EmptyCell creates an absent cell for the given column.
func EmptyCell(columnID int) *Cell {
	return &Cell{ColumnID: columnID}
}

// HasData reports whether the cell holds a fact, including a nil fact.
func (c *Cell) HasData() bool {
	if c == nil {
		return false
	}
	return c.IsNumeric || c.IsNil || c.Text != ""
}

// HasNumericValue reports whether the cell holds a non-nil number.
func (c *Cell) HasNumericValue() bool {
	return c != nil && c.IsNumeric && !c.IsNil
}

// SameValue compares the reported values of two cells.
func (c *Cell) SameValue(o *Cell) bool {
	if !c.HasData() || !o.HasData() {
		return c.HasData() == o.HasData()
	}
	if c.IsNil || o.IsNil {
		return c.IsNil == o.IsNil
	}
	if c.IsNumeric != o.IsNumeric {
		return false
	}
	if c.IsNumeric {
		return c.Amount.Equal(o.Amount) && SameCurrency(c.Currency, o.Currency)
	}
	return c.Text == o.Text
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Footnotes = slices.Clone(c.Footnotes)
	return &cp
}

// CopyFrom replaces the cell's fact with the fact held by src, keeping the
// receiver's column id.
func (c *Cell) CopyFrom(src *Cell) {
	id := c.ColumnID
	*c = *src.Clone()
	c.ColumnID = id
}

// Clear turns the cell into an absent cell.
func (c *Cell) Clear() {
	*c = Cell{ColumnID: c.ColumnID}
}

// DisplayText is the text a renderer shows for the cell.
func (c *Cell) DisplayText() string {
	switch {
	case c == nil || c.IsNil:
		return ""
	case c.IsNumeric:
		if c.RoundedText != "" {
			return c.RoundedText
		}
		return c.Amount.String()
	default:
		return c.Text
	}
}

// HasFootnote reports whether the cell references the footnote.
func (c *Cell) HasFootnote(id int) bool {
	return slices.Contains(c.Footnotes, id)
}
