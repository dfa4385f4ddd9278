package factgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_MergesInstantIntoDuration(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24), newColumn(ye24)},
		labeledRow("NetIncomeLoss", "Net income", UnitMonetary, RoleNone, usd(185), nil),
		labeledRow("Cash", "Cash", UnitMonetary, RoleEndingBalance, nil, usd(310)),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)
	require.NoError(t, out.CheckSynchrony())

	assert.Equal(t, []string{"12 Months Ended Dec. 31, 2024"}, columnCaptions(out))
	assert.Equal(t, []string{"185"}, amounts(out.Rows[0]))
	assert.Equal(t, []string{"310"}, amounts(out.Rows[1]))
	assert.Len(t, base.Columns, 2, "base is not modified")
}

func TestReconcile_BeginningBalanceMovesToFollowingPeriod(t *testing.T) {
	base := buildReport(t, "Equity", []*Column{newColumn(fy24), newColumn(ye24), newColumn(ye23)},
		newRow("StockholdersEquity", UnitMonetary, RoleBeginningBalance, nil, nil, usd(900)),
		newRow("NetIncomeLoss", UnitMonetary, RoleNone, usd(185), nil, nil),
		newRow("StockholdersEquity", UnitMonetary, RoleEndingBalance, nil, usd(1085), nil),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)

	require.Len(t, out.Columns, 1)
	assert.Equal(t, []string{"900"}, amounts(out.Rows[0]))
	assert.Equal(t, []string{"185"}, amounts(out.Rows[1]))
	assert.Equal(t, []string{"1085"}, amounts(out.Rows[2]))
}

func TestReconcile_KeepsUnpairableInstants(t *testing.T) {
	tests := []struct {
		name string
		dur  *Column
		inst *Column
	}{
		{"different qualifiers", newColumn(fy24, europe), newColumn(ye24)},
		{"unrelated date", newColumn(fy24), newColumn(Instant(Date(2024, 6, 30)))},
		{"label differs by more than a currency", newColumn(fy24), func() *Column {
			c := newColumn(ye24)
			c.AddLabel(LabelText, "Restated", "")
			return c
		}()},
		{"currency mismatch", func() *Column {
			c := newColumn(fy24)
			setColumnCurrency(c, "USD")
			return c
		}(), func() *Column {
			c := newColumn(ye24)
			setColumnCurrency(c, "EUR")
			return c
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := buildReport(t, "Balance", []*Column{tt.dur, tt.inst},
				newRow("NetIncomeLoss", UnitMonetary, RoleNone, usd(185), nil),
				newRow("Cash", UnitMonetary, RoleNone, nil, usd(310)),
			)
			out, err := NewEngine().Reconcile(base)
			require.NoError(t, err)
			assert.Len(t, out.Columns, 2)
		})
	}
}

func TestReconcile_CurrencyLabelMayDiffer(t *testing.T) {
	dur := newColumn(fy24)
	dur.AddLabel(LabelUnit, "USD", "USD")
	base := buildReport(t, "Balance", []*Column{dur, newColumn(ye24)},
		newRow("NetIncomeLoss", UnitMonetary, RoleNone, usd(185), nil),
		newRow("Cash", UnitMonetary, RoleNone, nil, usd(310)),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)
	require.Len(t, out.Columns, 1)
	assert.Equal(t, []string{"310"}, amounts(out.Rows[1]))
}

func TestReconcile_ConflictKeepsDurationValue(t *testing.T) {
	trace := &MemoryTrace{}
	base := buildReport(t, "Balance", []*Column{newColumn(fy24), newColumn(ye24)},
		newRow("Cash", UnitMonetary, RoleNone, usd(300), usd(310)),
	)
	out, err := NewEngine(WithTrace(trace)).Reconcile(base)
	require.NoError(t, err)

	require.Len(t, out.Columns, 2, "an instant whose fact found no home stays")
	assert.Equal(t, []string{"300", "310"}, amounts(out.Rows[0]))
	assert.Equal(t, 1, trace.Count(SeverityInfo))
}

func TestReconcile_KeepsEmptyBalanceRows(t *testing.T) {
	base := buildReport(t, "Equity", []*Column{newColumn(fy24)},
		newRow("StockholdersEquity", UnitMonetary, RoleBeginningBalance, nil),
		newRow("NetIncomeLoss", UnitMonetary, RoleNone, usd(185)),
		newRow("Dividends", UnitMonetary, RoleNone, nil),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"StockholdersEquity", "NetIncomeLoss"}, rowCaptions(out))
}

func TestSplitByCurrency_OneColumnPerCurrency(t *testing.T) {
	base := buildReport(t, "Revenue", []*Column{newColumn(fy24), newColumn(fy23)},
		newRow("RevenuesUS", UnitMonetary, RoleNone, usd(100), usd(90)),
		newRow("RevenuesEU", UnitMonetary, RoleNone, money(80, "EUR", 0), nil),
		newRow("RevenuesJP", UnitMonetary, RoleNone, money(7000, "JPY", 0), nil),
	)
	out, err := NewEngine().SplitByCurrency(base)
	require.NoError(t, err)
	require.NoError(t, out.CheckSynchrony())

	require.Len(t, out.Columns, 4)
	assert.True(t, out.IsMultiCurrency)
	assert.False(t, out.Columns[0].IsPseudo)
	assert.True(t, out.Columns[1].IsPseudo)
	assert.True(t, out.Columns[2].IsPseudo)
	assert.False(t, out.Columns[3].IsPseudo)

	assert.Equal(t, "USD", out.Columns[0].Currency())
	assert.Equal(t, "EUR", out.Columns[1].Currency())
	assert.Equal(t, "JPY", out.Columns[2].Currency())
	assert.Equal(t, []string{"100", "", "", "90"}, amounts(out.Rows[0]))
	assert.Equal(t, []string{"", "80", "", ""}, amounts(out.Rows[1]))
	assert.Equal(t, []string{"", "", "7000", ""}, amounts(out.Rows[2]))
	for _, c := range out.Columns[:3] {
		p, ok := c.Period()
		require.True(t, ok)
		assert.True(t, p.Equal(fy24))
	}
}

func TestSplitByCurrency_KeepsDeclaredCurrency(t *testing.T) {
	col := newColumn(fy24)
	col.Units = []Unit{Currency("EUR")}
	base := buildReport(t, "Revenue", []*Column{col},
		newRow("RevenuesUS", UnitMonetary, RoleNone, usd(100)),
		newRow("RevenuesEU", UnitMonetary, RoleNone, money(80, "EUR", 0)),
	)
	out, err := NewEngine().SplitByCurrency(base)
	require.NoError(t, err)

	require.Len(t, out.Columns, 2)
	assert.Equal(t, "EUR", out.Columns[0].Currency())
	assert.False(t, out.Columns[0].IsPseudo)
	assert.Equal(t, "USD", out.Columns[1].Currency())
	assert.True(t, out.Columns[1].IsPseudo)
}

func TestReconcile_UnusedCurrencySplitFoldsBack(t *testing.T) {
	base := buildReport(t, "Revenue", []*Column{newColumn(fy24)},
		newRow("RevenuesUS", UnitMonetary, RoleNone, usd(100)),
		newRow("RevenuesEU", UnitMonetary, RoleNone, money(80, "EUR", 0)),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)

	require.Len(t, out.Columns, 1)
	assert.False(t, out.Columns[0].IsPseudo)
	assert.Equal(t, []string{"12 Months Ended Dec. 31, 2024"}, columnCaptions(out))
	assert.Equal(t, []string{"100"}, amounts(out.Rows[0]))
	assert.Equal(t, []string{"80"}, amounts(out.Rows[1]))
}

func TestReconcile_InstantFactsFollowTheirCurrency(t *testing.T) {
	base := buildReport(t, "Balance", []*Column{newColumn(fy24), newColumn(ye24)},
		newRow("RevenuesUS", UnitMonetary, RoleNone, usd(100), nil),
		newRow("RevenuesEU", UnitMonetary, RoleNone, money(80, "EUR", 0), nil),
		newRow("CashUS", UnitMonetary, RoleNone, nil, usd(50)),
		newRow("CashEU", UnitMonetary, RoleNone, nil, money(30, "EUR", 0)),
	)
	out, err := NewEngine().Reconcile(base)
	require.NoError(t, err)
	require.NoError(t, out.CheckSynchrony())

	require.Len(t, out.Columns, 2)
	assert.Equal(t, "USD", out.Columns[0].Currency())
	assert.Equal(t, "EUR", out.Columns[1].Currency())
	assert.Equal(t, []string{"100", ""}, amounts(out.Rows[0]))
	assert.Equal(t, []string{"", "80"}, amounts(out.Rows[1]))
	assert.Equal(t, []string{"50", ""}, amounts(out.Rows[2]))
	assert.Equal(t, []string{"", "30"}, amounts(out.Rows[3]))
}

func TestSimilarLabels(t *testing.T) {
	item := func(labels ...Label) *Item { return &Item{Labels: labels} }
	cal := func(text string) Label { return Label{Kind: LabelCalendar, Text: text} }
	seg := Label{Kind: LabelSegment, Text: "Europe"}

	assert.True(t, similarLabels(item(cal("2024"), seg), item(cal("Dec. 31, 2024"), seg)))
	assert.True(t, similarLabels(item(seg, Label{Kind: LabelUnit, Text: "EUR"}), item(seg)))
	assert.False(t, similarLabels(item(seg, Label{Kind: LabelUnit, Text: "shares"}), item(seg)))
	assert.False(t, similarLabels(item(seg), item(Label{Kind: LabelSegment, Text: "Americas"})))
	assert.True(t, similarLabels(item(Label{Kind: LabelPerShare, Text: "USD / shares"}), item()))
}

func TestReconcile_RejectsUnsynchronizedReport(t *testing.T) {
	base := buildReport(t, "Balance", []*Column{newColumn(fy24), newColumn(ye24)},
		newRow("NetIncomeLoss", UnitMonetary, RoleNone, usd(185), nil),
		newRow("Cash", UnitMonetary, RoleNone, nil, usd(310)),
	)
	base.Rows[1].Cells = base.Rows[1].Cells[:1]

	engine := NewEngine()
	_, err := engine.Reconcile(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `reconcile "Balance"`)

	_, err = engine.SplitByCurrency(base)
	require.Error(t, err)

	_, err = engine.Render(base, []AxisIterator{ElementIterator()}, []AxisIterator{PeriodIterator()})
	require.Error(t, err)
}
