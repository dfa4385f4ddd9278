package factgrid

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// equityColumn is one column of a changes-in-equity statement: a set of
// qualifiers on the column axes and, for monetary facts, a currency.
type equityColumn struct {
	segments Segments
	currency string
}

func (c equityColumn) key() string {
	return c.segments.Key() + "#" + strings.ToUpper(c.currency)
}

// equityPeriod is the bucket of rows one reporting period contributes.
type equityPeriod struct {
	period    Period
	beginning []*Row
	activity  []*Row
	ending    []*Row
}

func (ep *equityPeriod) rows() []*Row {
	return slices.Concat(ep.beginning, ep.activity, ep.ending)
}

func (ep *equityPeriod) balances() []*Row {
	return slices.Concat(ep.beginning, ep.ending)
}

// equityBuilder reconstructs the beginning balance, activity, ending balance
// layout from a report whose rows carry balance roles.
type equityBuilder struct {
	opts    *Options
	trace   tracer
	base    *Report
	lookup  *AdjustmentLookup
	matcher *Matcher
	facts   []factView
	rowAxes map[string]bool
	colAxes map[string]bool
	columns []equityColumn
	buckets []*equityPeriod
}

func newEquityBuilder(opts *Options, base *Report) *equityBuilder {
	b := &equityBuilder{
		opts:    opts,
		trace:   tracer{sink: opts.trace, pass: "equity"},
		base:    base,
		lookup:  opts.adjustments,
		matcher: NewMatcher(base),
		facts:   collectFacts(base),
		rowAxes: opts.adjustments.Axes(),
		colAxes: make(map[string]bool),
	}
	for _, f := range b.facts {
		for _, s := range f.segments {
			if !b.rowAxes[s.Axis] {
				b.colAxes[s.Axis] = true
			}
		}
	}
	return b
}

func (b *equityBuilder) run() (*Report, error) {
	if !b.base.HasBalanceRole(RoleBeginningBalance) {
		return nil, incompleteEquity(MissingBeginningBalance)
	}
	if !b.base.HasBalanceRole(RoleEndingBalance) {
		return nil, incompleteEquity(MissingEndingBalance)
	}

	b.reduceColumns()
	b.groupPeriods()
	b.pruneBuckets()
	b.chainBuckets()
	b.sortBalances()

	out := b.emit()
	if len(out.Rows) == 0 || len(out.Columns) == 0 {
		return nil, incompleteEquity(Incomplete)
	}
	return out, nil
}

// reduceColumns collapses the base columns into the distinct (qualifiers,
// currency) combinations the facts show. Non-monetary facts share the
// column of their qualifiers and only add one when no monetary column has
// those qualifiers.
func (b *equityBuilder) reduceColumns() {
	seen := make(map[string]bool)
	var plain []Segments
	for _, f := range b.facts {
		segs := f.segments.Without(b.rowAxes).NonDefault()
		if f.unit.Kind != UnitMonetary || f.unit.Currency == "" {
			plain = append(plain, segs)
			continue
		}
		c := equityColumn{segments: segs, currency: f.unit.Currency}
		if seen[c.key()] {
			continue
		}
		seen[c.key()] = true
		b.columns = append(b.columns, c)
	}
	for _, segs := range plain {
		if slices.ContainsFunc(b.columns, func(c equityColumn) bool { return c.segments.Key() == segs.Key() }) {
			continue
		}
		b.columns = append(b.columns, equityColumn{segments: segs})
	}

	preferred := b.opts.preferredCurrency
	sort.SliceStable(b.columns, func(i, j int) bool {
		ci, cj := b.columns[i], b.columns[j]
		if ti, tj := len(ci.segments) == 0, len(cj.segments) == 0; ti != tj {
			return tj
		}
		if oi, oj := ci.segments.Order(), cj.segments.Order(); oi != oj {
			return oi < oj
		}
		if pi, pj := SameCurrency(ci.currency, preferred), SameCurrency(cj.currency, preferred); pi != pj {
			return pi
		}
		return ci.currency < cj.currency
	})
}

// groupPeriods builds one bucket per distinct duration, oldest first, with
// one row per base row and row-axis qualifier combination.
func (b *equityBuilder) groupPeriods() {
	var periods []Period
	seen := make(map[string]bool)
	for _, f := range b.facts {
		if f.period == nil || !f.period.IsDuration() || seen[f.period.Key()] {
			continue
		}
		seen[f.period.Key()] = true
		periods = append(periods, *f.period)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		if c := periods[i].End.Compare(periods[j].End); c != 0 {
			return c < 0
		}
		return periods[i].Start.Before(periods[j].Start)
	})

	for _, per := range periods {
		bucket := &equityPeriod{period: per}
		for _, src := range b.base.Rows {
			for _, v := range b.variants(src) {
				row := b.buildRow(src, v, per)
				switch src.Role {
				case RoleBeginningBalance:
					bucket.beginning = append(bucket.beginning, row)
				case RoleEndingBalance:
					bucket.ending = append(bucket.ending, row)
				default:
					bucket.activity = append(bucket.activity, row)
				}
			}
		}
		bucket.activity = slices.DeleteFunc(bucket.activity, func(r *Row) bool {
			return !r.IsAbstractGroupTitle && !r.HasData()
		})
		bucket.activity = trimTitles(bucket.activity)
		b.buckets = append(b.buckets, bucket)
	}
}

// variants lists the row-axis qualifier combinations a base row's facts
// show, the unqualified combination first.
func (b *equityBuilder) variants(src *Row) []Segments {
	if src.IsAbstractGroupTitle || len(b.rowAxes) == 0 {
		return []Segments{nil}
	}
	var out []Segments
	seen := make(map[string]bool)
	for _, f := range b.facts {
		if f.row != src {
			continue
		}
		v := f.segments.Only(b.rowAxes).NonDefault()
		if seen[v.Key()] {
			continue
		}
		seen[v.Key()] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return []Segments{nil}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ei, ej := len(out[i]) == 0, len(out[j]) == 0; ei != ej {
			return ei
		}
		return out[i].Order() < out[j].Order()
	})
	return out
}

func (b *equityBuilder) buildRow(src *Row, variant Segments, per Period) *Row {
	p := per
	row := &Row{
		Item: Item{
			Labels:               baseLabels(src),
			IsAbstractGroupTitle: src.IsAbstractGroupTitle,
			Footnotes:            slices.Clone(src.Footnotes),
			Units:                slices.Clone(src.Units),
			Embed: EmbedRequirement{
				ElementID: src.Embed.ElementID,
				Period:    &p,
				Segments:  b.withDefaults(variant, b.rowAxes),
			},
		},
		Role:          src.Role,
		UnitKind:      src.UnitKind,
		IsBaseElement: src.IsBaseElement,
		Cells:         make([]*Cell, len(b.columns)),
	}
	for j, col := range b.columns {
		row.Cells[j] = EmptyCell(j)
		if src.IsAbstractGroupTitle || src.Embed.ElementID == "" {
			continue
		}
		key := NetCellKey{
			ElementID: src.Embed.ElementID,
			Role:      src.Role,
			MatchRole: true,
			Period:    &p,
			Segments:  row.Embed.Segments.Union(b.withDefaults(col.segments, b.colAxes)),
		}
		if col.currency != "" && src.IsMonetary() {
			key.Unit = Currency(col.currency)
		}
		cands := b.matcher.Candidates(key)
		if len(cands) == 0 {
			continue
		}
		for _, c := range cands[1:] {
			if !c.Cell.SameValue(cands[0].Cell) {
				b.trace.infof("%d facts match %s; using the first", len(cands), key)
				break
			}
		}
		row.Cells[j].CopyFrom(cands[0].Cell)
	}
	return row
}

// withDefaults completes a qualifier set with the default member of every
// listed axis it does not mention, so that matching requires those axes to
// be absent.
func (b *equityBuilder) withDefaults(ss Segments, axes map[string]bool) Segments {
	out := slices.Clone(ss)
	names := make([]string, 0, len(axes))
	for a := range axes {
		names = append(names, a)
	}
	sort.Strings(names)
	for _, a := range names {
		if _, ok := out.Get(a); ok {
			continue
		}
		def, ok := b.opts.defaults.Default(a)
		if !ok {
			def = Segment{Axis: a, IsDefault: true}
		}
		out = append(out, def)
	}
	return out
}

func baseLabels(src *Row) []Label {
	var out []Label
	for _, l := range src.Labels {
		if l.Kind == LabelCalendar {
			continue
		}
		l.Source = 0
		out = append(out, l)
	}
	return out
}

// trimTitles drops group titles that title nothing: a title followed by a
// title for the same member, or one at the end of the list.
func trimTitles(rows []*Row) []*Row {
	out := rows[:0]
	for i, r := range rows {
		if r.IsAbstractGroupTitle {
			if i+1 == len(rows) {
				continue
			}
			next := rows[i+1]
			if next.IsAbstractGroupTitle && next.Embed.Segments.Key() == r.Embed.Segments.Key() {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// pruneBuckets drops periods whose balances are all empty and periods with
// no fact on a qualified column. A period without activity is kept unless
// another period with activity ends on the same date.
func (b *equityBuilder) pruneBuckets() {
	var segmented []int
	for j, c := range b.columns {
		if len(c.segments) > 0 {
			segmented = append(segmented, j)
		}
	}
	b.buckets = slices.DeleteFunc(b.buckets, func(bk *equityPeriod) bool {
		if !anyData(bk.balances()) {
			b.trace.infof("dropping %s: no balances", bk.period.Label())
			return true
		}
		if !dataIn(bk.rows(), segmented) {
			b.trace.infof("dropping %s: no facts on qualified columns", bk.period.Label())
			return true
		}
		return false
	})

	active := make(map[string]bool)
	for _, bk := range b.buckets {
		if anyData(bk.activity) {
			active[bk.period.End.Format("2006-01-02")] = true
		}
	}
	b.buckets = slices.DeleteFunc(b.buckets, func(bk *equityPeriod) bool {
		if anyData(bk.activity) || !active[bk.period.End.Format("2006-01-02")] {
			return false
		}
		b.trace.infof("dropping %s: no activity", bk.period.Label())
		return true
	})
}

func anyData(rows []*Row) bool {
	return slices.ContainsFunc(rows, func(r *Row) bool { return r.HasData() })
}

func dataIn(rows []*Row, cols []int) bool {
	for _, r := range rows {
		for _, j := range cols {
			if r.Cells[j].HasData() {
				return true
			}
		}
	}
	return false
}

// chainBuckets fills the empty beginning balances of a period from the
// ending balances of the period right before it, then drops beginning
// rows that only repeat those ending balances.
func (b *equityBuilder) chainBuckets() {
	for i := 0; i+1 < len(b.buckets); i++ {
		prev, next := b.buckets[i], b.buckets[i+1]
		if !touches(prev.period.End, next.period.Start) {
			continue
		}
		for _, br := range next.beginning {
			er := matchingBalance(prev.ending, br)
			if er == nil {
				continue
			}
			for j, c := range br.Cells {
				if !c.HasData() && er.Cells[j].HasData() {
					c.CopyFrom(er.Cells[j])
				}
			}
		}
		next.beginning = slices.DeleteFunc(next.beginning, func(br *Row) bool {
			er := matchingBalance(prev.ending, br)
			return er != nil && sameCells(br, er)
		})
	}
	for _, bk := range b.buckets {
		empty := func(r *Row) bool { return !r.HasData() }
		bk.beginning = slices.DeleteFunc(bk.beginning, empty)
		bk.ending = slices.DeleteFunc(bk.ending, empty)
	}
}

func matchingBalance(rows []*Row, r *Row) *Row {
	for _, x := range rows {
		if x.Embed.ElementID == r.Embed.ElementID && x.Embed.Segments.Key() == r.Embed.Segments.Key() {
			return x
		}
	}
	return nil
}

func sameCells(a, b *Row) bool {
	for j := range a.Cells {
		if !a.Cells[j].SameValue(b.Cells[j]) {
			return false
		}
	}
	return true
}

// sortBalances orders the balance rows of each period. Activity rows keep
// their source order.
func (b *equityBuilder) sortBalances() {
	for _, bk := range b.buckets {
		sort.SliceStable(bk.beginning, func(i, j int) bool { return b.balanceLess(bk.beginning[i], bk.beginning[j]) })
		sort.SliceStable(bk.ending, func(i, j int) bool { return b.balanceLess(bk.ending[i], bk.ending[j]) })
	}
}

func (b *equityBuilder) balanceLess(x, y *Row) bool {
	if x.IsBaseElement != y.IsBaseElement {
		return x.IsBaseElement
	}
	if rx, ry := unitRank(x.UnitKind), unitRank(y.UnitKind); rx != ry {
		return rx < ry
	}
	xa, xp := b.lookup.Marks(x.Embed.Segments)
	ya, yp := b.lookup.Marks(y.Embed.Segments)
	if xp != yp {
		return xp
	}
	if xa != ya {
		return xa
	}
	return x.Embed.Segments.Order() < y.Embed.Segments.Order()
}

func unitRank(k UnitKind) int {
	switch k {
	case UnitMonetary:
		return 0
	case UnitShares:
		return 1
	default:
		return 2
	}
}

// emit lays the buckets out into a report and labels the balance rows with
// their dates and qualified rows with their members.
func (b *equityBuilder) emit() *Report {
	out := NewReport(b.base.Title)
	out.Footnotes = slices.Clone(b.base.Footnotes)

	var currencies []string
	for _, c := range b.columns {
		if c.currency != "" && !slices.ContainsFunc(currencies, func(x string) bool { return SameCurrency(x, c.currency) }) {
			currencies = append(currencies, c.currency)
		}
	}
	multi := len(currencies) > 1
	for _, c := range b.columns {
		out.AddColumn(&Column{Item: b.columnItem(c, multi)})
	}

	for _, bk := range b.buckets {
		for _, row := range bk.beginning {
			labelBalance(row, bk.period.BeginningBalanceDate())
			labelVariant(row)
			out.AddRow(row)
		}
		for _, row := range bk.activity {
			labelVariant(row)
			out.AddRow(row)
		}
		for _, row := range bk.ending {
			labelBalance(row, bk.period.End)
			labelVariant(row)
			out.AddRow(row)
		}
	}

	for _, row := range out.Rows {
		for j, c := range row.Cells {
			code := b.columns[j].currency
			c.ShowCurrencySymbol = multi && row.IsMonetary() && code != "" && c.HasNumericValue()
			if c.ShowCurrencySymbol {
				c.Currency = code
			}
		}
	}
	renumberFootnotes(out)
	promoteRowFootnotes(out)
	out.IsMultiCurrency = multi
	out.Synchronize()
	return out
}

func (b *equityBuilder) columnItem(c equityColumn, multi bool) Item {
	it := Item{Embed: EmbedRequirement{Segments: slices.Clone(c.segments)}}
	if len(c.segments) == 0 {
		it.AddLabel(LabelText, "Total", "")
	}
	for _, s := range c.segments {
		it.AddLabel(LabelSegment, s.DisplayLabel(), s.Key())
	}
	if c.currency != "" {
		u := Currency(c.currency)
		it.Units = []Unit{u}
		it.Embed.Unit = u
		if multi {
			it.AddLabel(LabelUnit, u.DisplayLabel(), u.Key())
		}
	}
	return it
}

func labelBalance(row *Row, date time.Time) {
	row.RemoveLabels(LabelCalendar)
	row.AddLabel(LabelCalendar, DateLabel(date), Instant(date).Key())
}

func labelVariant(row *Row) {
	for _, s := range row.Embed.Segments.NonDefault() {
		row.AddLabel(LabelSegment, s.DisplayLabel(), s.Key())
	}
}
