package factgrid

import (
	"sort"
	"strings"
)

// UnitKind classifies the measure a fact is reported in.
type UnitKind int

const (
	UnitOther UnitKind = iota
	UnitMonetary
	UnitShares
	UnitPerShare
	UnitExchangeRate
	UnitPure
)

// String returns a human-readable name for the UnitKind.
func (k UnitKind) String() string {
	switch k {
	case UnitMonetary:
		return "Monetary"
	case UnitShares:
		return "Shares"
	case UnitPerShare:
		return "PerShare"
	case UnitExchangeRate:
		return "ExchangeRate"
	case UnitPure:
		return "Pure"
	default:
		return "Other"
	}
}

// Unit is a resolved measure: a currency for monetary facts, or a named
// non-monetary measure such as shares or a custom unit.
type Unit struct {
	ID       string
	Kind     UnitKind
	Currency string // ISO code for monetary, per-share and exchange-rate units
	Symbol   string
	Label    string
}

// Currency creates a monetary unit for an ISO currency code.
func Currency(code string) Unit {
	code = strings.ToUpper(code)
	return Unit{ID: code, Kind: UnitMonetary, Currency: code, Label: code}
}

// Shares creates the shares unit.
func Shares() Unit {
	return Unit{ID: "shares", Kind: UnitShares, Label: "shares"}
}

// PerShare creates a currency-per-share unit.
func PerShare(code string) Unit {
	code = strings.ToUpper(code)
	return Unit{ID: code + "/share", Kind: UnitPerShare, Currency: code, Label: code + " / shares"}
}

// noUnitID identifies NoUnit; angle brackets keep it apart from unit ids.
const noUnitID = "<none>"

// NoUnit is the unit requirement of facts reported without a unit, such as
// text facts. A Unit iterator gives those facts their own slot.
func NoUnit() Unit {
	return Unit{ID: noUnitID}
}

// IsZero reports whether the unit is unset.
func (u Unit) IsZero() bool { return u.ID == "" && u.Currency == "" }

// IsNone reports whether the unit is NoUnit.
func (u Unit) IsNone() bool { return u.ID == noUnitID }

// Key returns the identity used to compare units; currencies compare
// case-insensitively.
func (u Unit) Key() string {
	if u.Currency != "" && u.Kind == UnitMonetary {
		return strings.ToUpper(u.Currency)
	}
	return strings.ToUpper(u.ID)
}

// DisplayLabel is the label fragment shown for this unit.
func (u Unit) DisplayLabel() string {
	if u.Label != "" {
		return u.Label
	}
	if u.Currency != "" {
		return u.Currency
	}
	return u.ID
}

// SameCurrency compares currency codes case-insensitively.
func SameCurrency(a, b string) bool {
	return strings.EqualFold(a, b)
}

// preferredCurrency is pinned first when units are ordered.
const preferredCurrency = "USD"

// SortUnits orders units with the preferred currency first, then
// alphabetically by key.
func SortUnits(units []Unit, preferred string) {
	if preferred == "" {
		preferred = preferredCurrency
	}
	sort.SliceStable(units, func(i, j int) bool {
		pi := strings.EqualFold(units[i].Key(), preferred)
		pj := strings.EqualFold(units[j].Key(), preferred)
		if pi != pj {
			return pi
		}
		return units[i].Key() < units[j].Key()
	})
}

// uniqueUnits de-duplicates units by key, keeping first occurrence.
func uniqueUnits(units []Unit) []Unit {
	seen := make(map[string]bool, len(units))
	var out []Unit
	for _, u := range units {
		if u.IsZero() || seen[u.Key()] {
			continue
		}
		seen[u.Key()] = true
		out = append(out, u)
	}
	return out
}
