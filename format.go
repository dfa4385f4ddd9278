package factgrid

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// numberFormatter renders amounts in statement style: grouped digits,
// negatives in parentheses and an optional leading currency symbol.
type numberFormatter struct {
	p *message.Printer
}

func newNumberFormatter() *numberFormatter {
	return &numberFormatter{p: message.NewPrinter(language.AmericanEnglish)}
}

var hundred = decimal.NewFromInt(100)

// cellText renders a numeric cell at a rounding level. Values below 100
// are never scaled.
func (nf *numberFormatter) cellText(c *Cell, level RoundingLevel) string {
	v := c.Amount
	scaled := level.Scales() && v.Abs().GreaterThanOrEqual(hundred)
	if scaled {
		v = v.Shift(-int32(level.exponent()))
	}
	places := renderPlaces(c, level, scaled)
	v = v.Round(places)

	text := nf.grouped(v.Abs(), places)
	if c.ShowCurrencySymbol {
		text = currencySymbol(c.Currency, c.CurrencySymbol) + text
	}
	if v.IsNegative() {
		text = "(" + text + ")"
	}
	return text
}

func (nf *numberFormatter) grouped(v decimal.Decimal, places int32) string {
	text := nf.p.Sprint(number.Decimal(v.Truncate(0).IntPart()))
	if places > 0 {
		fixed := v.StringFixed(places)
		text += fixed[strings.IndexByte(fixed, '.'):]
	}
	return text
}

// currencySymbol returns the explicit symbol, or the symbol x/text knows
// for the ISO code, or the code itself.
func currencySymbol(code, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if code == "" {
		return ""
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code) + " "
	}
	return message.NewPrinter(language.AmericanEnglish).Sprint(currency.Symbol(u))
}
