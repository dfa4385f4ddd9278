package factgrid

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// projection holds the state of one Project call. Nothing in it outlives the
// call, so reports can be projected on separate workers without locking.
type projection struct {
	opts     *Options
	trace    tracer
	base     *Report
	matcher  *Matcher
	eval     *selectEvaluator
	facts    []factView
	rowIters []AxisIterator
	colIters []AxisIterator
}

// factView is a base cell with its effective element, period, unit and
// qualifiers resolved from its row and column.
type factView struct {
	row      *Row
	col      *Column
	cell     *Cell
	element  string
	label    string
	period   *Period
	unit     Unit
	segments Segments
}

func newProjection(opts *Options, base *Report, rowIters, colIters []AxisIterator) *projection {
	p := &projection{
		opts:     opts,
		trace:    tracer{sink: opts.trace, pass: "projection"},
		base:     base,
		matcher:  NewMatcher(base),
		eval:     newSelectEvaluator(),
		rowIters: slices.Clone(rowIters),
		colIters: slices.Clone(colIters),
	}
	p.facts = collectFacts(base)
	return p
}

func collectFacts(base *Report) []factView {
	var facts []factView
	for _, row := range base.Rows {
		if row.IsAbstractGroupTitle {
			continue
		}
		for j, col := range base.Columns {
			if j >= len(row.Cells) || col.IsAbstractGroupTitle || !row.Cells[j].HasData() {
				continue
			}
			facts = append(facts, resolveFact(row, col, row.Cells[j]))
		}
	}
	return facts
}

func resolveFact(row *Row, col *Column, cell *Cell) factView {
	fv := factView{row: row, col: col, cell: cell}
	fv.element = row.Embed.ElementID
	if fv.element == "" {
		fv.element = col.Embed.ElementID
	}
	if l, ok := row.LabelOf(LabelElement); ok {
		fv.label = l.Text
	} else {
		fv.label = row.Caption(" ")
	}
	fv.period = col.Embed.Period
	if fv.period == nil {
		fv.period = row.Embed.Period
	}
	fv.unit = resolveUnit(row, col, cell)
	fv.segments = row.Embed.Segments.Union(col.Embed.Segments)
	return fv
}

func resolveUnit(row *Row, col *Column, cell *Cell) Unit {
	switch {
	case !row.Embed.Unit.IsZero():
		return row.Embed.Unit
	case row.UnitKind == UnitShares:
		return Shares()
	case cell.Currency != "" && row.UnitKind == UnitPerShare:
		return PerShare(cell.Currency)
	case cell.Currency != "":
		u := Currency(cell.Currency)
		u.Symbol = cell.CurrencySymbol
		return u
	case !col.Embed.Unit.IsZero():
		return col.Embed.Unit
	case len(col.Units) > 0:
		return col.Units[0]
	case len(row.Units) > 0:
		return row.Units[0]
	}
	return Unit{}
}

// run executes the projection steps in order.
func (p *projection) run() (*Report, error) {
	p.degradeStyles()

	rowValues, err := p.valuesFor(p.rowIters)
	if err != nil {
		return nil, fmt.Errorf("row axes: %w", err)
	}
	colValues, err := p.valuesFor(p.colIters)
	if err != nil {
		return nil, fmt.Errorf("column axes: %w", err)
	}

	out := NewReport(p.base.Title)
	out.Footnotes = slices.Clone(p.base.Footnotes)
	for _, combo := range cartesian(colValues) {
		out.AddColumn(&Column{Item: buildItem(combo)})
	}
	for _, combo := range cartesian(rowValues) {
		row := &Row{Item: buildItem(combo)}
		for _, v := range combo {
			if v.embed.ElementID != "" {
				row.Role = v.role
				row.UnitKind = v.unitKind
				row.IsBaseElement = v.isBase
			}
		}
		out.AddRow(row)
	}

	p.populate(out)
	out.RemoveEmptyColumns()
	out.RemoveEmptyRows(false)
	mergeUnitDuplicates(colAxis{out})
	mergeUnitDuplicates(rowAxis{out})
	p.promoteStyles(out)
	promoteSharedLabels(out, p.opts.titleSeparator)
	renumberFootnotes(out)
	promoteRowFootnotes(out)
	out.IsMultiCurrency = countCurrencies(out) > 1
	showCurrencySymbols(out)
	out.Synchronize()
	return out, nil
}

// degradeStyles turns grouped axis iterators without a declared default
// member into compact ones, warning once per iterator.
func (p *projection) degradeStyles() {
	degrade := func(iters []AxisIterator, side string) {
		for i, it := range iters {
			if it.Selection != SelectAxis || it.Style != StyleGrouped {
				continue
			}
			if _, ok := p.opts.defaults.Default(it.Axis); ok {
				continue
			}
			iters[i].Style = StyleCompact
			p.trace.warnf("%s axis %q is grouped but declares no default member; using compact style", side, it.Axis)
		}
	}
	degrade(p.rowIters, "row")
	degrade(p.colIters, "column")
}

func (p *projection) valuesFor(iters []AxisIterator) ([][]axisValue, error) {
	out := make([][]axisValue, len(iters))
	for i, it := range iters {
		vals, err := p.observe(it)
		if err != nil {
			return nil, fmt.Errorf("iterator %d (%s): %w", i+1, it, err)
		}
		vals, err = p.filter(it, vals)
		if err != nil {
			return nil, fmt.Errorf("iterator %d (%s): %w", i+1, it, err)
		}
		for j := range vals {
			vals[j].label.Source = i + 1
			vals[j].label.Hidden = it.hidesLabel()
		}
		out[i] = vals
	}
	return out, nil
}

// observe returns the distinct values the base facts show for an iterator.
func (p *projection) observe(it AxisIterator) ([]axisValue, error) {
	switch it.Selection {
	case SelectElement:
		return p.observeElements(), nil
	case SelectPeriod:
		return p.observePeriods(), nil
	case SelectUnit:
		return p.observeUnits(), nil
	case SelectAxis:
		if it.Axis == "" {
			return nil, ErrUnmatchedAxis
		}
		return p.observeMembers(it.Axis), nil
	case SelectSeparator:
		return []axisValue{{label: Label{Kind: LabelSeparator, Text: it.Separator, Key: it.Separator}}}, nil
	default:
		return nil, fmt.Errorf("unknown selection %d", it.Selection)
	}
}

func (p *projection) observeElements() []axisValue {
	var out []axisValue
	seen := make(map[string]bool)
	for _, f := range p.facts {
		if f.element == "" {
			continue
		}
		key := f.element + "#" + f.row.Role.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, axisValue{
			embed:     EmbedRequirement{ElementID: f.element},
			role:      f.row.Role,
			matchRole: true,
			unitKind:  f.row.UnitKind,
			isBase:    f.row.IsBaseElement,
			label:     Label{Kind: LabelElement, Text: f.label, Key: key},
		})
	}
	return out
}

func (p *projection) observePeriods() []axisValue {
	var periods []Period
	seen := make(map[string]bool)
	for _, f := range p.facts {
		if f.period == nil || seen[f.period.Key()] {
			continue
		}
		seen[f.period.Key()] = true
		periods = append(periods, *f.period)
	}
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].Compare(periods[j]) < 0 })
	out := make([]axisValue, len(periods))
	for i := range periods {
		per := periods[i]
		out[i] = axisValue{
			embed: EmbedRequirement{Period: &per},
			label: Label{Kind: LabelCalendar, Text: per.Label(), Key: per.Key()},
		}
	}
	return out
}

// observeUnits lists the units seen, preferred currency first. Facts
// without a unit get one trailing NoUnit value with an empty label.
func (p *projection) observeUnits() []axisValue {
	var units []Unit
	unitless := false
	for _, f := range p.facts {
		if f.unit.IsZero() {
			unitless = true
			continue
		}
		units = append(units, f.unit)
	}
	units = uniqueUnits(units)
	SortUnits(units, p.opts.preferredCurrency)
	out := make([]axisValue, 0, len(units)+1)
	for _, u := range units {
		kind := LabelUnit
		if u.Kind == UnitPerShare {
			kind = LabelPerShare
		}
		out = append(out, axisValue{
			embed: EmbedRequirement{Unit: u},
			label: Label{Kind: kind, Text: u.DisplayLabel(), Key: u.Key()},
		})
	}
	if unitless {
		none := NoUnit()
		out = append(out, axisValue{
			embed: EmbedRequirement{Unit: none},
			label: Label{Kind: LabelUnit, Key: none.Key()},
		})
	}
	return out
}

// observeMembers lists the members seen on an axis in declared order. Facts
// without the axis contribute the axis's default member.
func (p *projection) observeMembers(axis string) []axisValue {
	var members []Segment
	seen := make(map[string]bool)
	hasDefault := false
	for _, f := range p.facts {
		s, ok := f.segments.Get(axis)
		if !ok || s.IsDefault {
			hasDefault = true
			continue
		}
		if seen[s.Member] {
			continue
		}
		seen[s.Member] = true
		members = append(members, s)
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Order < members[j].Order })

	if hasDefault {
		def, ok := p.opts.defaults.Default(axis)
		if !ok {
			def = Segment{Axis: axis, IsDefault: true}
		}
		members = append([]Segment{def}, members...)
	}
	out := make([]axisValue, len(members))
	for i, s := range members {
		out[i] = axisValue{
			embed:   EmbedRequirement{Segments: Segments{s}},
			segment: s,
			label:   Label{Kind: LabelSegment, Text: s.DisplayLabel(), Key: s.Key()},
		}
	}
	return out
}

func (p *projection) filter(it AxisIterator, vals []axisValue) ([]axisValue, error) {
	if it.acceptsAny() && it.Select == "" {
		return vals, nil
	}
	var out []axisValue
	for _, v := range vals {
		if !it.acceptsAny() && !strings.EqualFold(v.filterKey(it.Selection), it.Filter) {
			continue
		}
		if it.Select != "" {
			ok, err := p.eval.accept(it.Select, v.env())
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// cartesian expands per-iterator value lists into every combination, the
// first iterator varying slowest. No iterators yield a single empty
// combination so that the axis still has one element.
func cartesian(values [][]axisValue) [][]axisValue {
	combos := [][]axisValue{nil}
	for _, vals := range values {
		var next [][]axisValue
		for _, c := range combos {
			for _, v := range vals {
				combo := append(slices.Clip(c), v)
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}

func buildItem(combo []axisValue) Item {
	var it Item
	for _, v := range combo {
		it.Labels = append(it.Labels, v.label)
		if v.embed.ElementID != "" {
			it.Embed.ElementID = v.embed.ElementID
		}
		if v.embed.Period != nil {
			per := *v.embed.Period
			it.Embed.Period = &per
		}
		if !v.embed.Unit.IsZero() {
			it.Embed.Unit = v.embed.Unit
			it.Units = append(it.Units, v.embed.Unit)
		}
		it.Embed.Segments = append(it.Embed.Segments, v.embed.Segments...)
	}
	return it
}

// populate fills every target cell with the first base fact matching the
// union of its row and column requirements, columns scanned before rows.
func (p *projection) populate(out *Report) {
	for _, row := range out.Rows {
		for j, col := range out.Columns {
			key := NetCellKey{Role: row.Role, MatchRole: row.Embed.ElementID != ""}
			key.Merge(row.Embed)
			key.Merge(col.Embed)

			cands := p.matcher.Candidates(key)
			if len(cands) == 0 {
				continue
			}
			first := cands[0]
			for _, c := range cands[1:] {
				if !c.Cell.SameValue(first.Cell) {
					p.trace.infof("%d facts match %s; using the first", len(cands), key)
					break
				}
			}
			cell := row.Cells[j]
			cell.CopyFrom(first.Cell)
			applyCurrency(row, col, first, cell)
		}
	}
}

// applyCurrency gives a monetary cell the currency of its column, falling
// back to the currency of the base column the fact came from.
func applyCurrency(row *Row, col *Column, cand Candidate, cell *Cell) {
	cell.ShowCurrencySymbol = false
	if !row.IsMonetary() {
		return
	}
	code := col.Currency()
	if code == "" {
		code = cand.Column.Currency()
	}
	if code != "" {
		cell.Currency = code
	}
}

// showCurrencySymbols marks the monetary amounts of a multi-currency
// report so that each shows its currency. A single-currency report shows
// none.
func showCurrencySymbols(r *Report) {
	for _, row := range r.Rows {
		for _, c := range row.Cells {
			c.ShowCurrencySymbol = r.IsMultiCurrency && row.IsMonetary() &&
				c.HasNumericValue() && c.Currency != ""
		}
	}
}

// mergeUnitDuplicates folds adjacent items that differ only by unit when
// their facts do not collide.
func mergeUnitDuplicates(a axisView) {
	isUnit := func(l Label) bool { return l.Kind == LabelUnit }
	for i := 0; i+1 < a.len(); {
		x, y := a.item(i), a.item(i+1)
		if x.IsAbstractGroupTitle || y.IsAbstractGroupTitle ||
			!sameEmbedExceptUnit(x.Embed, y.Embed) || !sameExcept(x, y, isUnit) ||
			x.Embed.Unit.Key() == y.Embed.Unit.Key() || collides(a, i, i+1) {
			i++
			continue
		}
		markCellCurrency(a, i, x.Embed.Unit)
		markCellCurrency(a, i+1, y.Embed.Unit)
		foldInto(a, i, i+1)
		x.RemoveLabels(LabelUnit)
		x.Embed.Unit = Unit{}
		a.remove(i + 1)
	}
}

func sameEmbedExceptUnit(a, b EmbedRequirement) bool {
	if a.ElementID != b.ElementID || a.Segments.Key() != b.Segments.Key() {
		return false
	}
	if (a.Period == nil) != (b.Period == nil) {
		return false
	}
	return a.Period == nil || a.Period.Equal(*b.Period)
}

// markCellCurrency records the item's currency on its monetary cells so it
// survives once units are folded together.
func markCellCurrency(a axisView, i int, u Unit) {
	if u.Currency == "" || u.Kind != UnitMonetary {
		return
	}
	for k := 0; k < a.crossLen(); k++ {
		c := a.cell(i, k)
		if c.HasNumericValue() {
			c.Currency = u.Currency
			if u.Symbol != "" {
				c.CurrencySymbol = u.Symbol
			}
		}
	}
}

func countCurrencies(r *Report) int {
	seen := make(map[string]bool)
	for _, row := range r.Rows {
		for _, c := range row.Cells {
			if c.HasNumericValue() && c.Currency != "" {
				seen[strings.ToUpper(c.Currency)] = true
			}
		}
	}
	for _, c := range r.Columns {
		for _, code := range c.Currencies() {
			seen[strings.ToUpper(code)] = true
		}
	}
	return len(seen)
}
