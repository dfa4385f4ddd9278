package factgrid

import (
	"strings"
)

// EmbedRequirement identifies which base facts belong to a row or column.
// Zero-valued parts impose no requirement.
type EmbedRequirement struct {
	ElementID string
	Period    *Period
	Unit      Unit
	Segments  Segments
}

// Clone returns a copy that shares nothing mutable with the receiver.
func (e EmbedRequirement) Clone() EmbedRequirement {
	cp := e
	if e.Period != nil {
		p := *e.Period
		cp.Period = &p
	}
	cp.Segments = append(Segments(nil), e.Segments...)
	return cp
}

// NetCellKey is the union of the requirements of a target row and column.
type NetCellKey struct {
	ElementID string
	Role      BalanceRole
	MatchRole bool // the element requirement also pins the balance role
	Period    *Period
	Unit      Unit
	Segments  Segments
}

// Merge folds an embed requirement into the key. Parts the key already
// requires are kept.
func (k *NetCellKey) Merge(e EmbedRequirement) {
	if k.ElementID == "" {
		k.ElementID = e.ElementID
	}
	if k.Period == nil && e.Period != nil {
		p := *e.Period
		k.Period = &p
	}
	if k.Unit.IsZero() {
		k.Unit = e.Unit
	}
	k.Segments = k.Segments.Union(e.Segments)
}

// String renders the key for diagnostics.
func (k NetCellKey) String() string {
	var parts []string
	if k.ElementID != "" {
		parts = append(parts, "element="+k.ElementID)
	}
	if k.MatchRole && k.Role != RoleNone {
		parts = append(parts, "role="+k.Role.String())
	}
	if k.Period != nil {
		parts = append(parts, "period="+k.Period.Key())
	}
	if !k.Unit.IsZero() {
		parts = append(parts, "unit="+k.Unit.Key())
	}
	for _, s := range k.Segments {
		parts = append(parts, s.Key())
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// MatchPeriod decides whether a candidate period satisfies the key period.
// Same-type periods must be equal. A duration and an instant match when the
// instant falls on the duration's end date, or, for beginning-balance rows,
// on its start date or the day before.
func MatchPeriod(key, cand *Period, role BalanceRole) bool {
	if key == nil {
		return true
	}
	if cand == nil {
		return false
	}
	if key.Type == cand.Type {
		return key.Equal(*cand)
	}
	var dur, inst *Period
	switch {
	case key.IsDuration() && cand.IsInstant():
		dur, inst = key, cand
	case key.IsInstant() && cand.IsDuration():
		dur, inst = cand, key
	default:
		return false
	}
	if role == RoleBeginningBalance {
		return inst.End.Equal(dur.Start) || inst.End.Equal(dur.Start.AddDate(0, 0, -1))
	}
	return inst.End.Equal(dur.End)
}

// MatchUnit reports whether any candidate unit satisfies the key unit.
// A key without a unit requirement matches everything. A candidate without
// unit information only satisfies NoUnit.
func MatchUnit(key Unit, cand []Unit) bool {
	if key.IsZero() {
		return true
	}
	if key.IsNone() {
		return len(cand) == 0
	}
	for _, u := range cand {
		if strings.EqualFold(u.Key(), key.Key()) {
			return true
		}
	}
	return false
}

// MatchSegments checks every key qualifier against the candidate: a
// non-default qualifier must be present with the same member; a default
// member matches when the axis is absent on the candidate.
func MatchSegments(key, cand Segments) bool {
	for _, ks := range key {
		cs, ok := cand.Get(ks.Axis)
		if !ok {
			if ks.IsDefault {
				continue
			}
			return false
		}
		if cs.Member != ks.Member && !(ks.IsDefault && cs.IsDefault) {
			return false
		}
	}
	return true
}

// partialSegments is MatchSegments for one side of a row/column pair: axes
// the side does not carry are left for the pair check.
func partialSegments(key, side Segments) bool {
	for _, ks := range key {
		if cs, ok := side.Get(ks.Axis); ok && cs.Member != ks.Member && !(ks.IsDefault && cs.IsDefault) {
			return false
		}
	}
	return true
}

// Matcher finds the base rows and columns that can populate a target cell.
type Matcher struct {
	rows     []*Row
	columns  []*Column
	colIndex map[*Column]int
}

// NewMatcher creates a Matcher over a base report.
func NewMatcher(base *Report) *Matcher {
	idx := make(map[*Column]int, len(base.Columns))
	for i, c := range base.Columns {
		idx[c] = i
	}
	return &Matcher{rows: base.Rows, columns: base.Columns, colIndex: idx}
}

// Columns returns the base columns whose own requirements are compatible
// with the key, in base order.
func (m *Matcher) Columns(key NetCellKey) []*Column {
	var out []*Column
	for _, c := range m.columns {
		if c.IsAbstractGroupTitle {
			continue
		}
		if !sideMatches(key, c.Embed, key.Role) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Rows returns the base rows whose own requirements are compatible with the
// key, in base order.
func (m *Matcher) Rows(key NetCellKey) []*Row {
	var out []*Row
	for _, r := range m.rows {
		if r.IsAbstractGroupTitle {
			continue
		}
		if key.MatchRole && key.ElementID != "" && r.Role != key.Role {
			continue
		}
		if !sideMatches(key, r.Embed, key.Role) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sideMatches checks the parts of the key one side of a row/column pair can
// decide on its own. Units are resolved per fact in pairMatches, since a base
// column labelled with a currency also holds share counts.
func sideMatches(key NetCellKey, e EmbedRequirement, role BalanceRole) bool {
	if key.ElementID != "" && e.ElementID != "" && e.ElementID != key.ElementID {
		return false
	}
	if key.Period != nil && e.Period != nil && !MatchPeriod(key.Period, e.Period, role) {
		return false
	}
	return partialSegments(key.Segments, e.Segments)
}

// Candidate is a base cell that satisfies a key.
type Candidate struct {
	Row    *Row
	Column *Column
	Cell   *Cell
}

// Candidates lists every base cell with data that satisfies the key,
// scanning candidate columns before candidate rows.
func (m *Matcher) Candidates(key NetCellKey) []Candidate {
	cols := m.Columns(key)
	if len(cols) == 0 {
		return nil
	}
	rows := m.Rows(key)
	var out []Candidate
	for _, c := range cols {
		idx := m.colIndex[c]
		for _, r := range rows {
			if idx >= len(r.Cells) {
				continue
			}
			cell := r.Cells[idx]
			if !cell.HasData() || !pairMatches(key, r, c, cell) {
				continue
			}
			out = append(out, Candidate{Row: r, Column: c, Cell: cell})
		}
	}
	return out
}

// First returns the first populated candidate for the key, or nil.
func (m *Matcher) First(key NetCellKey) *Candidate {
	cands := m.Candidates(key)
	if len(cands) == 0 {
		return nil
	}
	return &cands[0]
}

func pairMatches(key NetCellKey, r *Row, c *Column, cell *Cell) bool {
	if key.ElementID != "" && r.Embed.ElementID == "" && c.Embed.ElementID == "" {
		return false
	}
	if key.Period != nil {
		p := c.Embed.Period
		if p == nil {
			p = r.Embed.Period
		}
		if !MatchPeriod(key.Period, p, key.Role) {
			return false
		}
	}
	if !key.Unit.IsZero() {
		var units []Unit
		if u := resolveUnit(r, c, cell); !u.IsZero() {
			units = append(units, u)
		}
		if !MatchUnit(key.Unit, units) {
			return false
		}
	}
	return MatchSegments(key.Segments, r.Embed.Segments.Union(c.Embed.Segments))
}
