package factgrid

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// SelectionKind is the semantic axis an iterator selects. Exactly one kind
// applies to an iterator.
type SelectionKind int

const (
	SelectElement SelectionKind = iota + 1
	SelectPeriod
	SelectUnit
	SelectAxis
	SelectSeparator
)

// String returns a human-readable name for the SelectionKind.
func (k SelectionKind) String() string {
	switch k {
	case SelectElement:
		return "Element"
	case SelectPeriod:
		return "Period"
	case SelectUnit:
		return "Unit"
	case SelectAxis:
		return "Axis"
	case SelectSeparator:
		return "Separator"
	default:
		return "Unknown"
	}
}

// Style controls how an iterator's values are laid out.
type Style int

const (
	StyleCompact      Style = iota // one label fragment per value
	StyleGrouped                   // a group-title row or column per member
	StyleUnitCell                  // values folded into their parent, shown in the cell
	StyleNoDisplay                 // selects facts but shows no label
	StyleSegmentTitle              // a title whenever the member changes
)

// String returns a human-readable name for the Style.
func (s Style) String() string {
	switch s {
	case StyleGrouped:
		return "grouped"
	case StyleUnitCell:
		return "unit-collapsed"
	case StyleNoDisplay:
		return "hidden"
	case StyleSegmentTitle:
		return "segment-title"
	default:
		return "compact"
	}
}

// AnyMember is the filter that accepts every value.
const AnyMember = "*"

// AxisIterator declares one level of row or column grouping.
type AxisIterator struct {
	Selection SelectionKind
	Axis      string // axis id, for SelectAxis
	Separator string // fragment text, for SelectSeparator
	Style     Style
	Filter    string // "*" or empty for any value, otherwise an exact member, element, unit or period key
	Select    string // optional expression over member, axis, label, element, unit and period
}

// ElementIterator selects report elements.
func ElementIterator() AxisIterator { return AxisIterator{Selection: SelectElement} }

// PeriodIterator selects reporting periods.
func PeriodIterator() AxisIterator { return AxisIterator{Selection: SelectPeriod} }

// UnitIterator selects units.
func UnitIterator() AxisIterator { return AxisIterator{Selection: SelectUnit} }

// AxisOf selects the members of a named dimension.
func AxisOf(axis string) AxisIterator { return AxisIterator{Selection: SelectAxis, Axis: axis} }

// SeparatorIterator inserts a fixed label fragment.
func SeparatorIterator(text string) AxisIterator {
	return AxisIterator{Selection: SelectSeparator, Separator: text}
}

// WithStyle returns a copy of the iterator using the style.
func (it AxisIterator) WithStyle(s Style) AxisIterator {
	it.Style = s
	return it
}

// WithFilter returns a copy of the iterator restricted to one value.
func (it AxisIterator) WithFilter(filter string) AxisIterator {
	it.Filter = filter
	return it
}

// WithSelect returns a copy of the iterator with a select expression.
func (it AxisIterator) WithSelect(expression string) AxisIterator {
	it.Select = expression
	return it
}

// String renders the iterator like "Axis(Geography) grouped filter=*".
func (it AxisIterator) String() string {
	var b strings.Builder
	b.WriteString(it.Selection.String())
	switch it.Selection {
	case SelectAxis:
		fmt.Fprintf(&b, "(%s)", it.Axis)
	case SelectSeparator:
		fmt.Fprintf(&b, "(%q)", it.Separator)
	}
	b.WriteString(" ")
	b.WriteString(it.Style.String())
	if it.Filter != "" && it.Filter != AnyMember {
		fmt.Fprintf(&b, " filter=%s", it.Filter)
	}
	if it.Select != "" {
		fmt.Fprintf(&b, " select=%q", it.Select)
	}
	return b.String()
}

func (it AxisIterator) acceptsAny() bool {
	return it.Filter == "" || it.Filter == AnyMember
}

// hidesLabel reports whether values of this iterator show no fragment on
// the items they produce.
func (it AxisIterator) hidesLabel() bool {
	return it.Style == StyleNoDisplay || it.Style == StyleUnitCell
}

// selectEvaluator compiles select expressions once per projection call.
type selectEvaluator struct {
	programs map[string]*vm.Program
}

func newSelectEvaluator() *selectEvaluator {
	return &selectEvaluator{programs: make(map[string]*vm.Program)}
}

func (e *selectEvaluator) accept(expression string, env map[string]any) (bool, error) {
	program, ok := e.programs[expression]
	if !ok {
		var err error
		program, err = expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("compile select %q: %w", expression, err)
		}
		e.programs[expression] = program
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate select %q: %w", expression, err)
	}
	b, _ := out.(bool)
	return b, nil
}

// axisValue is one distinct value an iterator produces.
type axisValue struct {
	embed     EmbedRequirement
	role      BalanceRole
	matchRole bool
	label     Label
	unitKind  UnitKind
	isBase    bool
	segment   Segment
	abstract  bool
}

func (v axisValue) env() map[string]any {
	env := map[string]any{
		"label":   v.label.Text,
		"element": v.embed.ElementID,
		"unit":    v.embed.Unit.Key(),
		"member":  v.segment.Member,
		"axis":    v.segment.Axis,
		"default": v.segment.IsDefault,
		"period":  "",
	}
	if v.embed.Period != nil {
		env["period"] = v.embed.Period.Key()
	}
	return env
}

// filterKey is what an exact Filter is compared to.
func (v axisValue) filterKey(kind SelectionKind) string {
	switch kind {
	case SelectElement:
		return v.embed.ElementID
	case SelectPeriod:
		if v.embed.Period != nil {
			return v.embed.Period.Key()
		}
	case SelectUnit:
		return v.embed.Unit.Key()
	case SelectAxis:
		return v.segment.Member
	}
	return v.label.Text
}
