package main

import (
	"time"

	"github.com/javajack/factgrid"
	"github.com/shopspring/decimal"
)

// The fact parser is a separate collaborator; the CLI ships two small
// statements so the passes can be tried end to end.

var (
	fy2024 = factgrid.Duration(factgrid.Date(2024, time.January, 1), factgrid.Date(2024, time.December, 31))
	fy2023 = factgrid.Duration(factgrid.Date(2023, time.January, 1), factgrid.Date(2023, time.December, 31))
	dec24  = factgrid.Instant(factgrid.Date(2024, time.December, 31))
	dec23  = factgrid.Instant(factgrid.Date(2023, time.December, 31))
	dec22  = factgrid.Instant(factgrid.Date(2022, time.December, 31))

	europe      = factgrid.Segment{Axis: "Geography", Member: "Europe", Label: "Europe", Order: 1}
	americas    = factgrid.Segment{Axis: "Geography", Member: "Americas", Label: "Americas", Order: 2}
	commonStock = factgrid.Segment{Axis: "EquityComponents", Member: "CommonStock", Label: "Common Stock", Order: 1}
	retained    = factgrid.Segment{Axis: "EquityComponents", Member: "RetainedEarnings", Label: "Retained Earnings", Order: 2}
)

func column(p factgrid.Period, segs ...factgrid.Segment) *factgrid.Column {
	c := &factgrid.Column{}
	c.Embed.Period = &p
	c.Embed.Segments = segs
	c.AddLabel(factgrid.LabelCalendar, p.Label(), p.Key())
	for _, s := range segs {
		c.AddLabel(factgrid.LabelSegment, s.DisplayLabel(), s.Key())
	}
	return c
}

func row(element, label string, kind factgrid.UnitKind, role factgrid.BalanceRole, cells ...*factgrid.Cell) *factgrid.Row {
	r := &factgrid.Row{Role: role, UnitKind: kind, IsBaseElement: true, Cells: cells}
	r.Embed.ElementID = element
	r.AddLabel(factgrid.LabelElement, label, element)
	return r
}

func usd(v int64) *factgrid.Cell {
	c := factgrid.NumericCell(decimal.NewFromInt(v), -3)
	c.Currency = "USD"
	return c
}

func eur(v int64) *factgrid.Cell {
	c := factgrid.NumericCell(decimal.NewFromInt(v), -3)
	c.Currency = "EUR"
	return c
}

func shares(v int64) *factgrid.Cell {
	return factgrid.NumericCell(decimal.NewFromInt(v), 0)
}

func perShare(v string) *factgrid.Cell {
	c := factgrid.NumericCell(decimal.RequireFromString(v), 2)
	c.Currency = "USD"
	return c
}

// sampleStatement is a small income statement and balance sheet with a
// geographic breakdown and euro-denominated revenue.
func sampleStatement() *factgrid.Report {
	r := factgrid.NewReport("Consolidated Statements of Operations")
	for _, c := range []*factgrid.Column{
		column(fy2024), column(fy2023),
		column(fy2024, europe), column(fy2024, americas),
		column(dec24), column(dec23),
	} {
		r.AddColumn(c)
	}
	r.AddRow(row("Revenues", "Revenues", factgrid.UnitMonetary, factgrid.RoleNone,
		usd(1_250_000), usd(1_100_000), eur(420_000), usd(790_000), nil, nil))
	r.AddRow(row("NetIncomeLoss", "Net income", factgrid.UnitMonetary, factgrid.RoleNone,
		usd(185_000), usd(-12_000), nil, nil, nil, nil))
	r.AddRow(row("Cash", "Cash and cash equivalents", factgrid.UnitMonetary, factgrid.RoleNone,
		nil, nil, nil, nil, usd(310_000), usd(275_000)))
	r.AddRow(row("SharesOutstanding", "Shares outstanding", factgrid.UnitShares, factgrid.RoleNone,
		nil, nil, nil, nil, shares(48_200_000), shares(47_900_000)))
	r.AddRow(row("EarningsPerShareBasic", "Earnings per share, basic", factgrid.UnitPerShare, factgrid.RoleNone,
		perShare("3.84"), perShare("-0.25"), nil, nil, nil, nil))
	r.Synchronize()
	return r
}

// sampleEquity is a two-year changes-in-equity statement reported the way
// filers tag it: balances on instants, activity on durations.
func sampleEquity() *factgrid.Report {
	r := factgrid.NewReport("Consolidated Statements of Stockholders' Equity")
	for _, c := range []*factgrid.Column{
		column(fy2024), column(fy2024, commonStock), column(fy2024, retained),
		column(fy2023), column(fy2023, commonStock), column(fy2023, retained),
		column(dec24), column(dec24, commonStock), column(dec24, retained),
		column(dec23), column(dec23, commonStock), column(dec23, retained),
		column(dec22), column(dec22, commonStock), column(dec22, retained),
	} {
		r.AddColumn(c)
	}
	r.AddRow(row("StockholdersEquity", "Balance", factgrid.UnitMonetary, factgrid.RoleBeginningBalance,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil,
		usd(900), usd(400), usd(500),
		usd(800), usd(400), usd(400)))
	r.AddRow(row("NetIncomeLoss", "Net income", factgrid.UnitMonetary, factgrid.RoleNone,
		usd(185), nil, usd(185), usd(130), nil, usd(130)))
	r.AddRow(row("Dividends", "Dividends declared", factgrid.UnitMonetary, factgrid.RoleNone,
		usd(-45), nil, usd(-45), usd(-30), nil, usd(-30)))
	r.AddRow(row("StockholdersEquity", "Balance", factgrid.UnitMonetary, factgrid.RoleEndingBalance,
		nil, nil, nil, nil, nil, nil,
		usd(1040), usd(400), usd(640),
		usd(900), usd(400), usd(500)))
	r.Synchronize()
	return r
}
