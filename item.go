package factgrid

import (
	"slices"
	"strings"
)

// LabelKind tells what a label fragment describes, so passes can strip or
// compare fragments by meaning rather than by text.
type LabelKind int

const (
	LabelText LabelKind = iota
	LabelElement
	LabelCalendar
	LabelUnit
	LabelSegment
	LabelPerShare
	LabelSeparator
)

// Label is one fragment of an axis element's caption.
type Label struct {
	Kind   LabelKind
	Text   string
	Key    string // identity of what the fragment names (period key, unit key, segment key)
	Hidden bool
	Source int // 1-based position of the producing axis iterator, 0 for base labels
}

// BalanceRole marks rows that report an opening or closing balance.
type BalanceRole int

const (
	RoleNone BalanceRole = iota
	RoleBeginningBalance
	RoleEndingBalance
)

// String returns a human-readable name for the BalanceRole.
func (r BalanceRole) String() string {
	switch r {
	case RoleBeginningBalance:
		return "BeginningBalance"
	case RoleEndingBalance:
		return "EndingBalance"
	default:
		return "None"
	}
}

// IsBalance reports whether the role is a beginning or ending balance.
func (r BalanceRole) IsBalance() bool { return r != RoleNone }

// RoleFromPreferredLabel maps a taxonomy preferred-label role to a BalanceRole.
func RoleFromPreferredLabel(role string) BalanceRole {
	switch {
	case strings.HasSuffix(role, "periodStartLabel"):
		return RoleBeginningBalance
	case strings.HasSuffix(role, "periodEndLabel"):
		return RoleEndingBalance
	default:
		return RoleNone
	}
}

// Item is the part shared by rows and columns: the caption fragments, the
// group-title flag and the embed requirement that selects its facts.
type Item struct {
	ID                   int
	Labels               []Label
	IsAbstractGroupTitle bool
	Embed                EmbedRequirement
	Units                []Unit
	Footnotes            []int
}

// AddLabel appends a visible label fragment.
func (it *Item) AddLabel(kind LabelKind, text, key string) {
	it.Labels = append(it.Labels, Label{Kind: kind, Text: text, Key: key})
}

// VisibleLabels returns the fragments that are shown.
func (it *Item) VisibleLabels() []Label {
	var out []Label
	for _, l := range it.Labels {
		if !l.Hidden && l.Text != "" {
			out = append(out, l)
		}
	}
	return out
}

// Caption joins the visible fragments with the separator.
func (it *Item) Caption(sep string) string {
	visible := it.VisibleLabels()
	parts := make([]string, len(visible))
	for i, l := range visible {
		parts[i] = l.Text
	}
	return strings.Join(parts, sep)
}

// LabelFrom returns the fragment produced by the iterator at 1-based position src.
func (it *Item) LabelFrom(src int) (*Label, bool) {
	for i := range it.Labels {
		if it.Labels[i].Source == src {
			return &it.Labels[i], true
		}
	}
	return nil, false
}

// LabelOf returns the first fragment of the given kind.
func (it *Item) LabelOf(kind LabelKind) (Label, bool) {
	for _, l := range it.Labels {
		if l.Kind == kind {
			return l, true
		}
	}
	return Label{}, false
}

// RemoveLabels drops every fragment of the given kind.
func (it *Item) RemoveLabels(kind LabelKind) {
	it.Labels = slices.DeleteFunc(it.Labels, func(l Label) bool { return l.Kind == kind })
}

// Currency returns the first currency among the item's units.
func (it *Item) Currency() string {
	for _, u := range it.Units {
		if u.Currency != "" {
			return u.Currency
		}
	}
	return it.Embed.Unit.Currency
}

// Currencies returns every distinct currency among the item's units.
func (it *Item) Currencies() []string {
	var out []string
	for _, u := range it.Units {
		if u.Currency != "" && !slices.ContainsFunc(out, func(c string) bool { return SameCurrency(c, u.Currency) }) {
			out = append(out, u.Currency)
		}
	}
	return out
}

func (it *Item) clone() Item {
	cp := *it
	cp.Labels = slices.Clone(it.Labels)
	cp.Units = slices.Clone(it.Units)
	cp.Footnotes = slices.Clone(it.Footnotes)
	cp.Embed = it.Embed.Clone()
	return cp
}

// Row is a horizontal axis element owning one cell per column.
type Row struct {
	Item
	Role          BalanceRole
	UnitKind      UnitKind
	IsBaseElement bool // element from the base taxonomy rather than a filer extension
	Cells         []*Cell
}

// ElementID returns the element the row reports.
func (r *Row) ElementID() string { return r.Embed.ElementID }

// HasData reports whether any cell of the row holds a fact.
func (r *Row) HasData() bool {
	for _, c := range r.Cells {
		if c.HasData() {
			return true
		}
	}
	return false
}

// IsMonetary reports whether the row reports currency amounts.
func (r *Row) IsMonetary() bool { return r.UnitKind == UnitMonetary }

// Clone returns a deep copy of the row and its cells.
func (r *Row) Clone() *Row {
	cp := &Row{Item: r.Item.clone(), Role: r.Role, UnitKind: r.UnitKind, IsBaseElement: r.IsBaseElement}
	cp.Cells = make([]*Cell, len(r.Cells))
	for i, c := range r.Cells {
		cp.Cells[i] = c.Clone()
	}
	return cp
}

// Column is a vertical axis element.
type Column struct {
	Item
	IsPseudo bool // lightweight clone created while splitting currencies
}

// Period returns the column's period requirement.
func (c *Column) Period() (Period, bool) {
	if c.Embed.Period == nil {
		return Period{}, false
	}
	return *c.Embed.Period, true
}

// Segments returns the column's qualifiers.
func (c *Column) Segments() Segments { return c.Embed.Segments }

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	return &Column{Item: c.Item.clone(), IsPseudo: c.IsPseudo}
}
