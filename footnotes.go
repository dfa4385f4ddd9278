package factgrid

import "slices"

// renumberFootnotes numbers footnotes 1..n in order of first reference,
// scanning row footnotes and cells row by row and column footnotes last.
// Footnotes nobody references are dropped.
func renumberFootnotes(r *Report) {
	if len(r.Footnotes) == 0 {
		return
	}
	remap := make(map[int]int)
	var order []int
	see := func(ids []int) {
		for _, id := range ids {
			if _, ok := remap[id]; ok {
				continue
			}
			if _, ok := r.Footnote(id); !ok {
				continue
			}
			order = append(order, id)
			remap[id] = len(order)
		}
	}
	for _, row := range r.Rows {
		see(row.Footnotes)
		for _, c := range row.Cells {
			see(c.Footnotes)
		}
	}
	for _, col := range r.Columns {
		see(col.Footnotes)
	}

	notes := make([]Footnote, 0, len(order))
	for _, id := range order {
		f, _ := r.Footnote(id)
		notes = append(notes, Footnote{ID: remap[id], Text: f.Text})
	}
	r.Footnotes = notes

	apply := func(ids []int) []int {
		out := ids[:0]
		for _, id := range ids {
			if n, ok := remap[id]; ok && !slices.Contains(out, n) {
				out = append(out, n)
			}
		}
		return out
	}
	for _, row := range r.Rows {
		row.Footnotes = apply(row.Footnotes)
		for _, c := range row.Cells {
			c.Footnotes = apply(c.Footnotes)
		}
	}
	for _, col := range r.Columns {
		col.Footnotes = apply(col.Footnotes)
	}
}

// promoteRowFootnotes moves a footnote that every populated cell of a row
// references onto the row itself.
func promoteRowFootnotes(r *Report) {
	for _, row := range r.Rows {
		var filled []*Cell
		for _, c := range row.Cells {
			if c.HasData() {
				filled = append(filled, c)
			}
		}
		if len(filled) == 0 {
			continue
		}
		for _, id := range slices.Clone(filled[0].Footnotes) {
			shared := true
			for _, c := range filled[1:] {
				if !c.HasFootnote(id) {
					shared = false
					break
				}
			}
			if !shared {
				continue
			}
			for _, c := range filled {
				c.Footnotes = slices.DeleteFunc(c.Footnotes, func(x int) bool { return x == id })
			}
			if !slices.Contains(row.Footnotes, id) {
				row.Footnotes = append(row.Footnotes, id)
			}
		}
	}
}
