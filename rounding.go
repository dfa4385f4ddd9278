package factgrid

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingLevel is the order of magnitude values of a unit family are
// scaled by for display.
type RoundingLevel int

const (
	NoRounding RoundingLevel = iota
	RoundOnes
	RoundTens
	RoundHundreds
	RoundThousands
	RoundTenThousands
	RoundHundredThousands
	RoundMillions
	RoundTenMillions
	RoundHundredMillions
	RoundBillions
	RoundTenBillions
	RoundHundredBillions
	RoundTrillions
	RoundTenTrillions
	RoundHundredTrillions
	RoundQuadrillions
)

var levelNames = []string{
	"none", "ones", "tens", "hundreds",
	"thousands", "ten thousands", "hundred thousands",
	"millions", "ten millions", "hundred millions",
	"billions", "ten billions", "hundred billions",
	"trillions", "ten trillions", "hundred trillions",
	"quadrillions",
}

// String returns a human-readable name for the RoundingLevel.
func (l RoundingLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// LevelFromDecimals folds a declared precision into a rounding level:
// -3 is thousands, -6 millions, and any non-negative precision is ones.
func LevelFromDecimals(decimals int) RoundingLevel {
	exp := min(max(-decimals, 0), 15)
	return RoundingLevel(exp + 1)
}

func (l RoundingLevel) exponent() int {
	if l <= NoRounding {
		return 0
	}
	return int(l) - 1
}

// group is the equivalence class used for conflict detection: ones to
// hundreds, thousands to hundred thousands, and so on.
func (l RoundingLevel) group() int { return l.exponent() / 3 }

// applied is the lowest level of the level's group.
func (l RoundingLevel) applied() RoundingLevel {
	if l == NoRounding {
		return NoRounding
	}
	return RoundingLevel(l.group()*3 + 1)
}

// Scales reports whether values at this level are divided for display.
func (l RoundingLevel) Scales() bool { return l.exponent() > 0 }

// Divisor returns the factor values are divided by.
func (l RoundingLevel) Divisor() decimal.Decimal {
	return decimal.New(1, int32(l.exponent()))
}

// UnitFamily groups rows whose values are scaled together.
type UnitFamily int

const (
	FamilyMonetary UnitFamily = iota
	FamilyShares
	FamilyPerShare
	FamilyExchangeRate
	FamilyOther
)

var families = []UnitFamily{FamilyMonetary, FamilyShares, FamilyPerShare, FamilyExchangeRate, FamilyOther}

// String returns a human-readable name for the UnitFamily.
func (f UnitFamily) String() string {
	switch f {
	case FamilyMonetary:
		return "monetary"
	case FamilyShares:
		return "shares"
	case FamilyPerShare:
		return "per-share"
	case FamilyExchangeRate:
		return "exchange-rate"
	default:
		return "other"
	}
}

func familyOf(row *Row, c *Cell) UnitFamily {
	switch row.UnitKind {
	case UnitMonetary:
		return FamilyMonetary
	case UnitShares:
		return FamilyShares
	case UnitPerShare:
		return FamilyPerShare
	case UnitExchangeRate:
		return FamilyExchangeRate
	case UnitPure:
		return FamilyOther
	}
	if c.Currency != "" {
		return FamilyMonetary
	}
	return FamilyOther
}

// roundingSelector picks one rounding level per unit family and renders
// every numeric cell at that level.
type roundingSelector struct {
	trace  tracer
	r      *Report
	levels map[UnitFamily]RoundingLevel
	seen   map[UnitFamily]bool
}

func newRoundingSelector(opts *Options, r *Report) *roundingSelector {
	return &roundingSelector{
		trace:  tracer{sink: opts.trace, pass: "rounding"},
		r:      r,
		levels: make(map[UnitFamily]RoundingLevel),
		seen:   make(map[UnitFamily]bool),
	}
}

func (rs *roundingSelector) run() {
	rs.selectLevels()
	rs.render()
	rs.r.RoundingDisclosure = rs.disclosure()
}

func (rs *roundingSelector) selectLevels() {
	votes := make(map[UnitFamily][]RoundingLevel)
	smallest := make(map[UnitFamily]decimal.Decimal)
	for _, row := range rs.r.Rows {
		for _, c := range row.Cells {
			if !c.HasNumericValue() {
				continue
			}
			f := familyOf(row, c)
			rs.seen[f] = true
			if c.HasDecimals {
				votes[f] = appendLevel(votes[f], LevelFromDecimals(c.Decimals))
			}
			if abs := c.Amount.Abs(); abs.GreaterThanOrEqual(hundred) {
				if s, ok := smallest[f]; !ok || abs.LessThan(s) {
					smallest[f] = abs
				}
			}
		}
	}

	for _, f := range families {
		levels := votes[f]
		if len(levels) == 0 {
			rs.levels[f] = NoRounding
			continue
		}
		chosen := levels[0].applied()
		conflict := false
		for _, l := range levels[1:] {
			if l.group() != levels[0].group() {
				conflict = true
				rs.trace.infof("%s values are reported in %s and in %s; not rounding", f, levels[0], l)
				break
			}
		}
		if conflict {
			rs.levels[f] = NoRounding
			continue
		}
		if s, ok := smallest[f]; ok && chosen.Scales() && s.LessThan(chosen.Divisor()) {
			rs.trace.infof("%s value %s is smaller than one %s unit; not rounding", f, s, strings.TrimSuffix(chosen.String(), "s"))
			chosen = NoRounding
		}
		rs.levels[f] = chosen
	}
}

func appendLevel(levels []RoundingLevel, l RoundingLevel) []RoundingLevel {
	for _, x := range levels {
		if x == l {
			return levels
		}
	}
	return append(levels, l)
}

func (rs *roundingSelector) render() {
	nf := newNumberFormatter()
	for _, row := range rs.r.Rows {
		for _, c := range row.Cells {
			if !c.HasNumericValue() {
				continue
			}
			c.RoundedText = nf.cellText(c, rs.levels[familyOf(row, c)])
		}
	}
}

// renderPlaces is the number of decimal places a value is shown with.
func renderPlaces(c *Cell, level RoundingLevel, scaled bool) int32 {
	if !scaled {
		if c.HasDecimals {
			return int32(max(c.Decimals, 0))
		}
		return max(-c.Amount.Exponent(), 0)
	}
	decimals := 0
	if c.HasDecimals {
		decimals = c.Decimals
	}
	return int32(min(max(level.exponent()+decimals, 0), 2))
}

// disclosure composes the banner that tells readers how values are scaled,
// such as "in thousands, except per-share amounts".
func (rs *roundingSelector) disclosure() string {
	m, s := rs.levels[FamilyMonetary], rs.levels[FamilyShares]
	other := rs.levels[FamilyOther]

	var parts []string
	switch {
	case m.Scales() && s.Scales() && m == s:
		parts = append(parts, "in "+m.String())
	case m.Scales() && s.Scales():
		parts = append(parts, rs.monetaryPrefix()+"in "+m.String(), "shares in "+s.String())
	case m.Scales():
		parts = append(parts, "in "+m.String())
	case s.Scales():
		parts = append(parts, "shares in "+s.String())
	}
	if other.Scales() {
		parts = append(parts, "other units in "+other.String())
	}
	if len(parts) == 0 {
		return ""
	}

	var amounts []string
	if rs.seen[FamilyShares] && !s.Scales() {
		amounts = append(amounts, "share")
	}
	if rs.seen[FamilyPerShare] {
		amounts = append(amounts, "per-share")
	}
	var except []string
	if len(amounts) > 0 {
		except = append(except, strings.Join(amounts, " and ")+" amounts")
	}
	if rs.seen[FamilyOther] && !other.Scales() {
		except = append(except, "custom units")
	}

	text := strings.Join(parts, ", ")
	if len(except) > 0 {
		text += ", except " + strings.Join(except, " and ")
	}
	return text
}

// monetaryPrefix names the currency when monetary and share levels differ,
// as in "$ in millions, shares in thousands".
func (rs *roundingSelector) monetaryPrefix() string {
	for _, row := range rs.r.Rows {
		if !row.IsMonetary() {
			continue
		}
		for _, c := range row.Cells {
			if c.HasNumericValue() && c.Currency != "" {
				if sym := currencySymbol(c.Currency, c.CurrencySymbol); sym != "" {
					return sym + " "
				}
			}
		}
	}
	return ""
}

// DescribeLevels renders selected levels for diagnostics.
func DescribeLevels(levels map[UnitFamily]RoundingLevel) string {
	var parts []string
	for _, f := range families {
		if l, ok := levels[f]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", f, l))
		}
	}
	return strings.Join(parts, " ")
}
