package factgrid

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromDecimals(t *testing.T) {
	tests := []struct {
		decimals int
		want     RoundingLevel
		applied  RoundingLevel
	}{
		{2, RoundOnes, RoundOnes},
		{0, RoundOnes, RoundOnes},
		{-2, RoundHundreds, RoundOnes},
		{-3, RoundThousands, RoundThousands},
		{-4, RoundTenThousands, RoundThousands},
		{-6, RoundMillions, RoundMillions},
		{-9, RoundBillions, RoundBillions},
		{-20, RoundQuadrillions, RoundQuadrillions},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := LevelFromDecimals(tt.decimals)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, got.applied())
		})
	}
}

func TestRoundingLevel_Divisor(t *testing.T) {
	assert.True(t, RoundThousands.Divisor().Equal(decimal.NewFromInt(1000)))
	assert.True(t, RoundOnes.Divisor().Equal(decimal.NewFromInt(1)))
	assert.False(t, RoundOnes.Scales())
	assert.True(t, RoundMillions.Scales())
	assert.Equal(t, "ten thousands", RoundTenThousands.String())
}

func statementForRounding(t *testing.T) *Report {
	t.Helper()
	return buildReport(t, "Operations", []*Column{newColumn(fy24), newColumn(fy23)},
		newRow("Revenues", UnitMonetary, RoleNone, money(1_250_000, "USD", -3), money(1_100_000, "USD", -3)),
		newRow("NetIncomeLoss", UnitMonetary, RoleNone, money(185_000, "USD", -3), money(-12_000, "USD", -3)),
		newRow("SharesOutstanding", UnitShares, RoleNone, count(48_200_000, 0), count(47_900_000, 0)),
		newRow("EarningsPerShareBasic", UnitPerShare, RoleNone,
			&Cell{IsNumeric: true, Amount: decimal.RequireFromString("3.84"), Decimals: 2, HasDecimals: true, Currency: "USD"},
			&Cell{IsNumeric: true, Amount: decimal.RequireFromString("-0.25"), Decimals: 2, HasDecimals: true, Currency: "USD"}),
	)
}

func TestRound_ThousandsExceptShares(t *testing.T) {
	out, levels := NewEngine().Round(statementForRounding(t))

	assert.Equal(t, RoundThousands, levels[FamilyMonetary])
	assert.Equal(t, RoundOnes, levels[FamilyShares])
	assert.Equal(t, "in thousands, except share and per-share amounts", out.RoundingDisclosure)

	texts := func(row *Row) []string {
		return []string{row.Cells[0].DisplayText(), row.Cells[1].DisplayText()}
	}
	assert.Equal(t, []string{"1,250", "1,100"}, texts(out.Rows[0]))
	assert.Equal(t, []string{"185", "(12)"}, texts(out.Rows[1]))
	assert.Equal(t, []string{"48,200,000", "47,900,000"}, texts(out.Rows[2]))
	assert.Equal(t, []string{"3.84", "(0.25)"}, texts(out.Rows[3]))
	assert.Equal(t, levels, out.RoundingLevels)
}

func TestRound_ConflictingPrecisions(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, money(1_250_000, "USD", -3)),
		newRow("Goodwill", UnitMonetary, RoleNone, money(42_000_000, "USD", -6)),
	)
	trace := &MemoryTrace{}
	out, levels := NewEngine(WithTrace(trace)).Round(base)

	assert.Equal(t, NoRounding, levels[FamilyMonetary])
	require.Equal(t, 1, trace.Count(SeverityInfo))
	assert.Equal(t, "rounding", trace.Messages[0].Pass)
	assert.Contains(t, trace.Messages[0].Text, "not rounding")
	assert.Empty(t, out.RoundingDisclosure)
	assert.Equal(t, "1,250,000", out.Rows[0].Cells[0].DisplayText())
}

func TestRound_SmallValueBlocksScaling(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, money(1_250_000, "USD", -3)),
		newRow("Fees", UnitMonetary, RoleNone, money(500, "USD", -3)),
		newRow("Rounding", UnitMonetary, RoleNone, money(7, "USD", -3)),
	)
	trace := &MemoryTrace{}
	out, levels := NewEngine(WithTrace(trace)).Round(base)

	assert.Equal(t, NoRounding, levels[FamilyMonetary])
	assert.Equal(t, 1, trace.Count(SeverityInfo))
	assert.Equal(t, "500", out.Rows[1].Cells[0].DisplayText())
	assert.Equal(t, "7", out.Rows[2].Cells[0].DisplayText())
}

func TestRound_MillionsAndSharesInThousands(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, money(5_000_000_000, "USD", -6)),
		newRow("SharesOutstanding", UnitShares, RoleNone, count(48_200_000, -3)),
	)
	out, _ := NewEngine().Round(base)

	assert.Equal(t, "$ in millions, shares in thousands", out.RoundingDisclosure)
	assert.Equal(t, "5,000", out.Rows[0].Cells[0].DisplayText())
	assert.Equal(t, "48,200", out.Rows[1].Cells[0].DisplayText())
}

func TestRound_CustomUnits(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, money(1_250_000, "USD", -3)),
		newRow("Stores", UnitOther, RoleNone, count(12, 0)),
	)
	out, _ := NewEngine().Round(base)
	assert.Equal(t, "in thousands, except custom units", out.RoundingDisclosure)
	assert.Equal(t, "12", out.Rows[1].Cells[0].DisplayText())
}

func TestRound_SmallValuesStayUnscaled(t *testing.T) {
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, money(1_250_000, "USD", -3)),
		newRow("Other", UnitMonetary, RoleNone, money(0, "USD", -3)),
	)
	out, levels := NewEngine().Round(base)
	assert.Equal(t, RoundThousands, levels[FamilyMonetary])
	assert.Equal(t, "0", out.Rows[1].Cells[0].DisplayText())
}

func TestRound_Idempotent(t *testing.T) {
	engine := NewEngine()
	once, firstLevels := engine.Round(statementForRounding(t))
	twice, secondLevels := engine.Round(once)

	assert.Equal(t, firstLevels, secondLevels)
	assert.Equal(t, once.RoundingDisclosure, twice.RoundingDisclosure)
	for i, row := range once.Rows {
		for j, c := range row.Cells {
			assert.Equal(t, c.DisplayText(), twice.Rows[i].Cells[j].DisplayText())
		}
	}
}

func TestRound_CurrencySymbols(t *testing.T) {
	c := money(-1500, "EUR", 0)
	c.ShowCurrencySymbol = true
	base := buildReport(t, "Operations", []*Column{newColumn(fy24)},
		newRow("Revenues", UnitMonetary, RoleNone, c))
	out, _ := NewEngine().Round(base)
	assert.Equal(t, "(€1,500)", out.Rows[0].Cells[0].DisplayText())
}

func TestDescribeLevels(t *testing.T) {
	got := DescribeLevels(map[UnitFamily]RoundingLevel{FamilyShares: RoundOnes, FamilyMonetary: RoundThousands})
	assert.Equal(t, "monetary=thousands shares=ones", got)
}

func TestNumberFormatter_CellText(t *testing.T) {
	tests := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1234567", 0, "1,234,567"},
		{"-1234.5", 2, "(1,234.50)"},
		{"0.256", 2, "0.26"},
		{"999", 0, "999"},
	}
	nf := newNumberFormatter()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := NumericCell(decimal.RequireFromString(tt.in), tt.decimals)
			assert.Equal(t, tt.want, nf.cellText(c, NoRounding))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", currencySymbol("USD", ""))
	assert.Equal(t, "€", currencySymbol("EUR", ""))
	assert.Equal(t, "US$", currencySymbol("USD", "US$"))
	assert.Empty(t, currencySymbol("", ""))
}
