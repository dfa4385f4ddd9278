package factgrid

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	fy24 = Duration(Date(2024, time.January, 1), Date(2024, time.December, 31))
	fy23 = Duration(Date(2023, time.January, 1), Date(2023, time.December, 31))
	q424 = Duration(Date(2024, time.October, 1), Date(2024, time.December, 31))
	ye24 = Instant(Date(2024, time.December, 31))
	ye23 = Instant(Date(2023, time.December, 31))
	ye22 = Instant(Date(2022, time.December, 31))

	europe   = Segment{Axis: "Geography", Member: "Europe", Label: "Europe", Order: 1}
	americas = Segment{Axis: "Geography", Member: "Americas", Label: "Americas", Order: 2}
	common   = Segment{Axis: "EquityComponents", Member: "CommonStock", Label: "Common Stock", Order: 1}
	retained = Segment{Axis: "EquityComponents", Member: "RetainedEarnings", Label: "Retained Earnings", Order: 2}
	restated = Segment{Axis: "Restatement", Member: "Adjustment", Label: "Adjustment", Order: 1}
)

func newColumn(p Period, segs ...Segment) *Column {
	c := &Column{}
	c.Embed.Period = &p
	c.Embed.Segments = segs
	c.AddLabel(LabelCalendar, p.Label(), p.Key())
	for _, s := range segs {
		c.AddLabel(LabelSegment, s.DisplayLabel(), s.Key())
	}
	return c
}

func newRow(element string, kind UnitKind, role BalanceRole, cells ...*Cell) *Row {
	r := &Row{Role: role, UnitKind: kind, IsBaseElement: true, Cells: cells}
	r.Embed.ElementID = element
	r.AddLabel(LabelElement, element, element)
	return r
}

func labeledRow(element, label string, kind UnitKind, role BalanceRole, cells ...*Cell) *Row {
	r := newRow(element, kind, role, cells...)
	r.Labels[0].Text = label
	return r
}

func money(v int64, code string, decimals int) *Cell {
	c := NumericCell(decimal.NewFromInt(v), decimals)
	c.Currency = code
	return c
}

func usd(v int64) *Cell { return money(v, "USD", 0) }

func count(v int64, decimals int) *Cell {
	return NumericCell(decimal.NewFromInt(v), decimals)
}

func buildReport(t *testing.T, title string, cols []*Column, rows ...*Row) *Report {
	t.Helper()
	r := NewReport(title)
	for _, c := range cols {
		r.AddColumn(c)
	}
	for _, row := range rows {
		r.AddRow(row)
	}
	r.Synchronize()
	require.NoError(t, r.CheckSynchrony())
	return r
}

func columnCaptions(r *Report) []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Caption(" | ")
	}
	return out
}

func rowCaptions(r *Report) []string {
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Caption(" | ")
	}
	return out
}

// amounts lists a row's cells as strings, "" for empty cells.
func amounts(row *Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		if c.HasNumericValue() {
			out[i] = c.Amount.String()
		}
	}
	return out
}

func findRow(t *testing.T, r *Report, caption string) *Row {
	t.Helper()
	for _, row := range r.Rows {
		if row.Caption(" | ") == caption {
			return row
		}
	}
	require.Failf(t, "row not found", "no row captioned %q in %v", caption, rowCaptions(r))
	return nil
}
