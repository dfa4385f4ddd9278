package factgrid

import "strings"

// promoteSharedLabels moves label fragments that every data row (or every
// data column) shows into the report title. A fragment stays where it is
// when it is the last visible label of some item.
func promoteSharedLabels(r *Report, sep string) {
	var promoted []string
	promoted = append(promoted, promoteAxisLabels(colAxis{r})...)
	promoted = append(promoted, promoteAxisLabels(rowAxis{r})...)
	if len(promoted) == 0 {
		return
	}
	parts := make([]string, 0, len(promoted)+1)
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	parts = append(parts, promoted...)
	r.Title = strings.Join(parts, sep)
}

func promoteAxisLabels(a axisView) []string {
	var data []*Item
	for i := 0; i < a.len(); i++ {
		if it := a.item(i); !it.IsAbstractGroupTitle {
			data = append(data, it)
		}
	}
	if len(data) == 0 {
		return nil
	}

	var promoted []string
	for _, cand := range data[0].VisibleLabels() {
		if cand.Kind == LabelElement {
			continue
		}
		shared := true
		for _, it := range data {
			if !showsLabel(it, cand) || len(it.VisibleLabels()) < 2 {
				shared = false
				break
			}
		}
		if !shared {
			continue
		}
		for _, it := range data {
			hideLabel(it, cand)
		}
		promoted = append(promoted, cand.Text)
	}
	return promoted
}

func showsLabel(it *Item, l Label) bool {
	for _, x := range it.Labels {
		if !x.Hidden && x.Kind == l.Kind && x.Text == l.Text {
			return true
		}
	}
	return false
}

func hideLabel(it *Item, l Label) {
	for i := range it.Labels {
		x := &it.Labels[i]
		if !x.Hidden && x.Kind == l.Kind && x.Text == l.Text {
			x.Hidden = true
			return
		}
	}
}
