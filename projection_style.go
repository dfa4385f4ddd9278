package factgrid

// promoteStyles applies the layout each iterator's style asks for, outer
// iterators first so that inner groups nest inside outer ones.
func (p *projection) promoteStyles(out *Report) {
	for i, it := range p.rowIters {
		p.promote(rowAxis{out}, it, i+1)
	}
	for i, it := range p.colIters {
		p.promote(colAxis{out}, it, i+1)
	}
}

func (p *projection) promote(a axisView, it AxisIterator, src int) {
	switch it.Style {
	case StyleGrouped:
		groupByMember(a, it, src)
	case StyleSegmentTitle:
		titleOnChange(a, src)
	case StyleUnitCell:
		collapseUnits(a, src)
	}
}

// runs splits the axis into maximal stretches of data items between group
// titles. Each run is a [start, end) index pair.
func runs(a axisView) [][2]int {
	var out [][2]int
	start := -1
	for i := 0; i < a.len(); i++ {
		if a.item(i).IsAbstractGroupTitle {
			if start >= 0 {
				out = append(out, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, [2]int{start, a.len()})
	}
	return out
}

func labelKey(it *Item, src int) string {
	if l, ok := it.LabelFrom(src); ok {
		return l.Key
	}
	return ""
}

// isDefaultMember reports whether the item's value for an axis iterator is
// the axis's default member.
func isDefaultMember(it *Item, iter AxisIterator) bool {
	if iter.Selection != SelectAxis {
		return false
	}
	s, ok := it.Embed.Segments.Get(iter.Axis)
	return ok && s.IsDefault
}

// groupByMember clusters each run by the iterator's value, inserts a title
// per non-default member and moves the default member's items, which act as
// the total, after the groups.
func groupByMember(a axisView, iter AxisIterator, src int) {
	order := make([]int, 0, a.len())
	next := 0
	for _, run := range runs(a) {
		for ; next < run[0]; next++ {
			order = append(order, next)
		}
		var keys []string
		groups := make(map[string][]int)
		var totals []int
		for i := run[0]; i < run[1]; i++ {
			it := a.item(i)
			if isDefaultMember(it, iter) {
				totals = append(totals, i)
				continue
			}
			k := labelKey(it, src)
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], i)
		}
		for _, k := range keys {
			order = append(order, groups[k]...)
		}
		order = append(order, totals...)
		next = run[1]
	}
	for ; next < a.len(); next++ {
		order = append(order, next)
	}
	a.reorder(order)

	for i := 0; i < a.len(); i++ {
		it := a.item(i)
		if it.IsAbstractGroupTitle || isDefaultMember(it, iter) {
			continue
		}
		l, ok := it.LabelFrom(src)
		if !ok {
			continue
		}
		if i == 0 || labelKey(a.item(i-1), src) != l.Key {
			a.insertTitle(i, titleItem(*l, it.Embed.Segments.Only(map[string]bool{iter.Axis: true})))
			i++
			it = a.item(i)
			l, _ = it.LabelFrom(src)
		}
		l.Hidden = true
	}
}

// titleOnChange inserts a title whenever the iterator's value changes from
// one data item to the next, without reordering.
func titleOnChange(a axisView, src int) {
	for i := 0; i < a.len(); i++ {
		it := a.item(i)
		if it.IsAbstractGroupTitle {
			continue
		}
		l, ok := it.LabelFrom(src)
		if !ok || l.Text == "" {
			continue
		}
		if i == 0 || labelKey(a.item(i-1), src) != l.Key {
			a.insertTitle(i, titleItem(*l, nil))
			i++
			it = a.item(i)
			l, _ = it.LabelFrom(src)
		}
		l.Hidden = true
	}
}

func titleItem(l Label, segs Segments) Item {
	l.Hidden = false
	return Item{Labels: []Label{l}, Embed: EmbedRequirement{Segments: segs}}
}

// collapseUnits folds items of the same run that differ only by the unit
// iterator's value, provided no position of the other axis is claimed by
// more than one of them. Items that cannot fold show their unit again.
func collapseUnits(a axisView, src int) {
	skip := func(l Label) bool { return l.Source == src }
	for i := 0; i < a.len(); i++ {
		if a.item(i).IsAbstractGroupTitle {
			continue
		}
		marked := false
		for j := i + 1; j < a.len() && !a.item(j).IsAbstractGroupTitle; {
			x, y := a.item(i), a.item(j)
			if !sameExcept(x, y, skip) || !sameEmbedExceptUnit(x.Embed, y.Embed) {
				j++
				continue
			}
			if collides(a, i, j) {
				showLabel(x, src)
				showLabel(y, src)
				j++
				continue
			}
			if !marked {
				markCellCurrency(a, i, x.Embed.Unit)
				marked = true
			}
			markCellCurrency(a, j, y.Embed.Unit)
			foldInto(a, i, j)
			a.remove(j)
		}
		if marked {
			x := a.item(i)
			x.Embed.Unit = Unit{}
			if l, ok := x.LabelFrom(src); ok {
				l.Hidden = true
			}
		}
	}
}

func showLabel(it *Item, src int) {
	if l, ok := it.LabelFrom(src); ok {
		l.Hidden = false
	}
}
