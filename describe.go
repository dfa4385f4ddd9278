package factgrid

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable tree of a report: title, columns and
// rows with their embed requirements, and every populated cell.
// Useful for debugging projections during development.
func Describe(r *Report) string {
	var b strings.Builder
	b.WriteString("Report: ")
	if r.Title != "" {
		b.WriteString(r.Title)
	} else {
		b.WriteString("<untitled>")
	}
	fmt.Fprintf(&b, " (%dx%d)", len(r.Rows), len(r.Columns))
	if r.IsMultiCurrency {
		b.WriteString(" multi-currency")
	}
	b.WriteByte('\n')
	if r.RoundingDisclosure != "" {
		fmt.Fprintf(&b, "  Rounding: %s\n", r.RoundingDisclosure)
	}
	if len(r.RoundingLevels) > 0 {
		fmt.Fprintf(&b, "  Levels: %s\n", DescribeLevels(r.RoundingLevels))
	}

	if len(r.Columns) > 0 {
		b.WriteString("  Columns:\n")
		for _, c := range r.Columns {
			describeItem(&b, "    ", &c.Item)
			if c.IsPseudo {
				b.WriteString(" pseudo")
			}
			b.WriteByte('\n')
		}
	}

	if len(r.Rows) > 0 {
		b.WriteString("  Rows:\n")
		for _, row := range r.Rows {
			describeItem(&b, "    ", &row.Item)
			if row.Role != RoleNone {
				fmt.Fprintf(&b, " role=%s", row.Role)
			}
			b.WriteByte('\n')
			describeCells(&b, row, r.Columns)
		}
	}

	if len(r.Footnotes) > 0 {
		b.WriteString("  Footnotes:\n")
		for _, f := range r.Footnotes {
			fmt.Fprintf(&b, "    [%d] %s\n", f.ID, f.Text)
		}
	}
	return b.String()
}

func describeItem(b *strings.Builder, prefix string, it *Item) {
	caption := it.Caption(" | ")
	if caption == "" {
		caption = "<no label>"
	}
	fmt.Fprintf(b, "%s%d %q", prefix, it.ID, caption)
	if it.IsAbstractGroupTitle {
		b.WriteString(" title")
	}
	if attrs := describeEmbed(it.Embed); attrs != "" {
		b.WriteString(" " + attrs)
	}
}

// describeEmbed returns the parts of an embed requirement that are set.
func describeEmbed(e EmbedRequirement) string {
	var parts []string
	if e.ElementID != "" {
		parts = append(parts, fmt.Sprintf("element=%q", e.ElementID))
	}
	if e.Period != nil {
		parts = append(parts, fmt.Sprintf("period=%s", e.Period.Key()))
	}
	if !e.Unit.IsZero() {
		parts = append(parts, fmt.Sprintf("unit=%s", e.Unit.Key()))
	}
	for _, s := range e.Segments.NonDefault() {
		parts = append(parts, s.Key())
	}
	return strings.Join(parts, " ")
}

func describeCells(b *strings.Builder, row *Row, cols []*Column) {
	for j, c := range row.Cells {
		if !c.HasData() {
			continue
		}
		text := c.DisplayText()
		if c.IsNil {
			text = "<nil>"
		}
		fmt.Fprintf(b, "      [%d] %s", j, text)
		if c.ShowCurrencySymbol && c.Currency != "" {
			fmt.Fprintf(b, " %s", c.Currency)
		}
		if len(c.Footnotes) > 0 {
			fmt.Fprintf(b, " footnotes=%v", c.Footnotes)
		}
		if j < len(cols) {
			fmt.Fprintf(b, " (%s)", cols[j].Caption(" | "))
		}
		b.WriteByte('\n')
	}
}
