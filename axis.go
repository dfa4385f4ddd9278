package factgrid

import "slices"

// axisView lets passes treat the row axis and the column axis alike. Index i
// runs along the axis, index k along the other one.
type axisView interface {
	len() int
	crossLen() int
	item(i int) *Item
	cell(i, k int) *Cell
	insertTitle(i int, title Item)
	remove(i int)
	reorder(order []int)
	name() string
}

type rowAxis struct{ r *Report }

func (a rowAxis) len() int            { return len(a.r.Rows) }
func (a rowAxis) crossLen() int       { return len(a.r.Columns) }
func (a rowAxis) item(i int) *Item    { return &a.r.Rows[i].Item }
func (a rowAxis) cell(i, k int) *Cell { return a.r.Rows[i].Cells[k] }
func (a rowAxis) remove(i int)        { a.r.RemoveRow(i) }
func (a rowAxis) name() string        { return "row" }
func (a rowAxis) insertTitle(i int, title Item) {
	title.IsAbstractGroupTitle = true
	a.r.InsertRow(i, &Row{Item: title})
}

func (a rowAxis) reorder(order []int) {
	rows := make([]*Row, len(order))
	for i, j := range order {
		rows[i] = a.r.Rows[j]
	}
	a.r.Rows = rows
}

type colAxis struct{ r *Report }

func (a colAxis) len() int            { return len(a.r.Columns) }
func (a colAxis) crossLen() int       { return len(a.r.Rows) }
func (a colAxis) item(i int) *Item    { return &a.r.Columns[i].Item }
func (a colAxis) cell(i, k int) *Cell { return a.r.Rows[k].Cells[i] }
func (a colAxis) remove(i int)        { a.r.RemoveColumn(i) }
func (a colAxis) name() string        { return "column" }
func (a colAxis) insertTitle(i int, title Item) {
	title.IsAbstractGroupTitle = true
	a.r.InsertColumn(i, &Column{Item: title})
}

func (a colAxis) reorder(order []int) {
	cols := make([]*Column, len(order))
	for i, j := range order {
		cols[i] = a.r.Columns[j]
	}
	a.r.Columns = cols
	for _, row := range a.r.Rows {
		cells := make([]*Cell, len(order))
		for i, j := range order {
			cells[i] = row.Cells[j]
		}
		row.Cells = cells
	}
}

// collides reports whether items i and j both hold a fact at the same
// position of the other axis.
func collides(a axisView, i, j int) bool {
	for k := 0; k < a.crossLen(); k++ {
		if a.cell(i, k).HasData() && a.cell(j, k).HasData() {
			return true
		}
	}
	return false
}

// foldInto moves the facts of item j into the empty cells of item i.
func foldInto(a axisView, i, j int) {
	for k := 0; k < a.crossLen(); k++ {
		src := a.cell(j, k)
		if src.HasData() && !a.cell(i, k).HasData() {
			a.cell(i, k).CopyFrom(src)
		}
	}
	dst, src := a.item(i), a.item(j)
	dst.Units = uniqueUnits(append(dst.Units, src.Units...))
	for _, f := range src.Footnotes {
		if !slices.Contains(dst.Footnotes, f) {
			dst.Footnotes = append(dst.Footnotes, f)
		}
	}
}

// sameExcept compares two items' visible identity ignoring fragments that
// match skip.
func sameExcept(a, b *Item, skip func(Label) bool) bool {
	la := keptLabels(a, skip)
	lb := keptLabels(b, skip)
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if la[i].Kind != lb[i].Kind || la[i].Text != lb[i].Text {
			return false
		}
	}
	return a.IsAbstractGroupTitle == b.IsAbstractGroupTitle
}

func keptLabels(it *Item, skip func(Label) bool) []Label {
	var out []Label
	for _, l := range it.Labels {
		if !skip(l) {
			out = append(out, l)
		}
	}
	return out
}
