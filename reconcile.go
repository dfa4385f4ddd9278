package factgrid

import (
	"slices"
	"strings"

	"golang.org/x/text/currency"
)

// reconciler merges instant columns into the duration columns that report
// the same economic position. It works on the report in place.
type reconciler struct {
	opts     *Options
	trace    tracer
	r        *Report
	splits   []*currencySplit
	received map[*Column]int
}

// currencySplit remembers how one multi-currency duration column was split
// so the split can be undone for clones that gain nothing.
type currencySplit struct {
	real     *Column
	original Item
	pseudos  []*Column
}

func newReconciler(opts *Options, r *Report) *reconciler {
	return &reconciler{
		opts:     opts,
		trace:    tracer{sink: opts.trace, pass: "reconcile"},
		r:        r,
		received: make(map[*Column]int),
	}
}

func (rc *reconciler) run() {
	rc.splits = splitByCurrency(rc.r, rc.opts.preferredCurrency)
	if len(rc.splits) > 0 {
		rc.r.IsMultiCurrency = true
	}

	var consumed []*Column
	for _, inst := range slices.Clone(rc.r.Columns) {
		if inst.IsAbstractGroupTitle {
			continue
		}
		if p, ok := inst.Period(); !ok || !p.IsInstant() {
			continue
		}
		if rc.mergeInstant(inst) {
			consumed = append(consumed, inst)
		}
	}
	for _, inst := range consumed {
		if i := columnIndex(rc.r, inst); i >= 0 {
			rc.r.RemoveColumn(i)
		}
	}
	rc.foldUnusedPseudos()
	rc.r.RemoveEmptyRows(true)
	rc.r.Synchronize()
}

// mergeInstant copies the facts of an instant column into every duration
// column it pairs with. It reports whether every fact found a home.
func (rc *reconciler) mergeInstant(inst *Column) bool {
	ip, _ := inst.Period()
	var targets []*Column
	for _, d := range rc.r.Columns {
		if d == inst || d.IsAbstractGroupTitle {
			continue
		}
		dp, ok := d.Period()
		if !ok || !dp.IsDuration() || !rc.pairable(d, dp, inst, ip) {
			continue
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return false
	}

	ii := columnIndex(rc.r, inst)
	consumed := true
	for _, row := range rc.r.Rows {
		src := row.Cells[ii]
		if !src.HasData() {
			continue
		}
		placed := false
		for _, d := range targets {
			dp, _ := d.Period()
			if !MatchPeriod(&dp, &ip, row.Role) || !currencyFits(src.Currency, d.Currency()) {
				continue
			}
			dst := row.Cells[columnIndex(rc.r, d)]
			switch {
			case !dst.HasData():
				dst.CopyFrom(src)
				rc.received[d]++
				placed = true
			case dst.SameValue(src):
				placed = true
			default:
				rc.trace.infof("row %q: %s already holds %s, keeping %s from %s",
					row.Caption(" "), dp.Label(), dst.DisplayText(), src.DisplayText(), ip.Label())
			}
		}
		if !placed {
			consumed = false
		}
	}
	return consumed
}

// pairable decides whether a duration and an instant column describe the
// same position: equal qualifiers, compatible currencies, adjoining dates
// and labels that differ by at most a currency fragment.
func (rc *reconciler) pairable(d *Column, dp Period, inst *Column, ip Period) bool {
	if !d.Segments().Equal(inst.Segments()) {
		return false
	}
	if !currencyFits(columnCurrency(rc.r, d), columnCurrency(rc.r, inst)) {
		return false
	}
	if !ip.End.Equal(dp.End) && !touches(ip.End, dp.Start) {
		return false
	}
	return similarLabels(&d.Item, &inst.Item)
}

// foldUnusedPseudos returns the facts of pseudo columns that received no
// instant facts to the column they were split from. A real column whose
// clones all fold back gets its original labels again.
func (rc *reconciler) foldUnusedPseudos() {
	for _, sp := range rc.splits {
		kept := sp.pseudos[:0]
		for _, p := range sp.pseudos {
			if rc.received[p] > 0 || !rc.foldBack(p, sp.real) {
				kept = append(kept, p)
			}
		}
		sp.pseudos = kept
		if len(kept) == 0 {
			id := sp.real.ID
			sp.real.Item = sp.original.clone()
			sp.real.ID = id
		}
	}
}

func (rc *reconciler) foldBack(p, real *Column) bool {
	pi, ri := columnIndex(rc.r, p), columnIndex(rc.r, real)
	if pi < 0 || ri < 0 {
		return false
	}
	a := colAxis{rc.r}
	if collides(a, ri, pi) {
		rc.trace.infof("%s column %s keeps its own column", p.Currency(), p.Caption(" "))
		return false
	}
	foldInto(a, ri, pi)
	rc.r.RemoveColumn(pi)
	return true
}

// splitByCurrency splits every duration column whose facts carry more than
// one currency into one column per currency. The column keeps the currency
// it declares (or the preferred currency, or the first in order); each other
// currency moves to a pseudo column inserted right after it.
func splitByCurrency(r *Report, preferred string) []*currencySplit {
	var splits []*currencySplit
	for i := 0; i < len(r.Columns); i++ {
		col := r.Columns[i]
		if col.IsAbstractGroupTitle || col.IsPseudo {
			continue
		}
		if p, ok := col.Period(); !ok || !p.IsDuration() {
			continue
		}
		codes := cellCurrencies(r, i)
		if len(codes) < 2 {
			continue
		}
		keep := realCurrency(col, codes, preferred)
		sp := &currencySplit{real: col, original: col.Item.clone()}
		at := i
		for _, code := range codes {
			if SameCurrency(code, keep) {
				continue
			}
			clone := col.Clone()
			clone.IsPseudo = true
			setColumnCurrency(clone, code)
			at++
			r.InsertColumn(at, clone)
			for _, row := range r.Rows {
				src := row.Cells[i]
				if src.HasNumericValue() && SameCurrency(src.Currency, code) {
					row.Cells[at].CopyFrom(src)
					src.Clear()
				}
			}
			sp.pseudos = append(sp.pseudos, clone)
		}
		setColumnCurrency(col, keep)
		splits = append(splits, sp)
		i = at
	}
	r.Synchronize()
	return splits
}

// cellCurrencies lists the currencies of column i's numeric facts, the
// preferred currency first.
func cellCurrencies(r *Report, i int) []string {
	var units []Unit
	for _, row := range r.Rows {
		if c := row.Cells[i]; c.HasNumericValue() && c.Currency != "" {
			units = append(units, Currency(c.Currency))
		}
	}
	units = uniqueUnits(units)
	SortUnits(units, "")
	codes := make([]string, len(units))
	for j, u := range units {
		codes[j] = u.Currency
	}
	return codes
}

func realCurrency(col *Column, codes []string, preferred string) string {
	for _, want := range []string{col.Currency(), preferred} {
		if want == "" {
			continue
		}
		for _, code := range codes {
			if SameCurrency(code, want) {
				return code
			}
		}
	}
	return codes[0]
}

func setColumnCurrency(c *Column, code string) {
	u := Currency(code)
	c.Units = []Unit{u}
	c.Embed.Unit = u
	c.RemoveLabels(LabelUnit)
	c.AddLabel(LabelUnit, u.DisplayLabel(), u.Key())
}

// columnCurrency is the column's declared currency, or the single currency
// its facts carry. It is empty when neither is known.
func columnCurrency(r *Report, c *Column) string {
	if code := c.Currency(); code != "" {
		return code
	}
	i := columnIndex(r, c)
	if i < 0 {
		return ""
	}
	if codes := cellCurrencies(r, i); len(codes) == 1 {
		return codes[0]
	}
	return ""
}

func currencyFits(a, b string) bool {
	return a == "" || b == "" || SameCurrency(a, b)
}

func columnIndex(r *Report, c *Column) int {
	return slices.Index(r.Columns, c)
}

// similarLabels compares the label fragments of two columns once calendar
// and per-share fragments are set aside. At most one fragment may differ,
// and it must name a currency.
func similarLabels(a, b *Item) bool {
	la, lb := comparableLabels(a), comparableLabels(b)
	var extra []Label
	for _, l := range la {
		if !hasLabelText(lb, l.Text) {
			extra = append(extra, l)
		}
	}
	for _, l := range lb {
		if !hasLabelText(la, l.Text) {
			extra = append(extra, l)
		}
	}
	switch len(extra) {
	case 0:
		return true
	case 1:
		return isCurrencyLabel(extra[0])
	default:
		return false
	}
}

func comparableLabels(it *Item) []Label {
	var out []Label
	for _, l := range it.Labels {
		if l.Text == "" || l.Kind == LabelCalendar || l.Kind == LabelPerShare {
			continue
		}
		out = append(out, l)
	}
	return out
}

func hasLabelText(ls []Label, text string) bool {
	return slices.ContainsFunc(ls, func(l Label) bool { return strings.EqualFold(l.Text, text) })
}

func isCurrencyLabel(l Label) bool {
	_, err := currency.ParseISO(strings.TrimSpace(l.Text))
	return err == nil
}
