package factgrid

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// ValidationIssue represents a single problem found in an iterator hierarchy.
type ValidationIssue struct {
	Severity Severity
	Where    string // "rows[0]", "columns[2]"
	Message  string
}

// String formats the issue as "[ERROR] rows[1]: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Where, v.Message)
}

// ValidateIterators checks row and column iterators for configuration
// errors without needing a report. Projection itself never fails on these;
// it degrades or leaves cells empty.
func ValidateIterators(rows, cols []AxisIterator, opts ...Option) []ValidationIssue {
	return NewEngine(opts...).Validate(rows, cols)
}

// Validate performs static checks on an iterator hierarchy.
func (e *Engine) Validate(rows, cols []AxisIterator) []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, e.validateSide("rows", rows)...)
	issues = append(issues, e.validateSide("columns", cols)...)
	issues = append(issues, validateOverlap(rows, cols)...)
	return issues
}

func (e *Engine) validateSide(side string, iters []AxisIterator) []ValidationIssue {
	var issues []ValidationIssue
	elements := 0
	for i, it := range iters {
		where := fmt.Sprintf("%s[%d]", side, i)
		switch it.Selection {
		case SelectElement:
			elements++
			if elements > 1 {
				issues = append(issues, ValidationIssue{SeverityError, where, "more than one element iterator on the same axis"})
			}
		case SelectPeriod, SelectUnit:
		case SelectAxis:
			if it.Axis == "" {
				issues = append(issues, ValidationIssue{SeverityError, where, ErrUnmatchedAxis.Error()})
			} else if it.Style == StyleGrouped {
				if _, ok := e.opts.defaults.Default(it.Axis); !ok {
					issues = append(issues, ValidationIssue{SeverityWarning, where,
						fmt.Sprintf("axis %q is grouped but declares no default member; compact style will be used", it.Axis)})
				}
			}
		case SelectSeparator:
			if it.Separator == "" {
				issues = append(issues, ValidationIssue{SeverityWarning, where, "separator iterator has no text"})
			}
		default:
			issues = append(issues, ValidationIssue{SeverityError, where, fmt.Sprintf("unknown selection %d", it.Selection)})
		}

		if it.Style == StyleUnitCell && it.Selection != SelectUnit {
			issues = append(issues, ValidationIssue{SeverityWarning, where,
				fmt.Sprintf("%s style on a %s iterator folds items that differ by %s", it.Style, it.Selection, it.Selection)})
		}
		if issue := compileCheck(where, it.Select); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// validateOverlap reports selections made on both the row and column axes;
// such a grid can only populate its diagonal.
func validateOverlap(rows, cols []AxisIterator) []ValidationIssue {
	var issues []ValidationIssue
	for i, r := range rows {
		if r.Selection == SelectSeparator {
			continue
		}
		for j, c := range cols {
			if r.Selection != c.Selection || (r.Selection == SelectAxis && r.Axis != c.Axis) {
				continue
			}
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Where:    fmt.Sprintf("rows[%d]", i),
				Message:  fmt.Sprintf("%s is also selected by columns[%d]", r, j),
			})
		}
	}
	return issues
}

// compileCheck compiles a select expression for syntax checking and returns
// an issue if it fails.
func compileCheck(where, expression string) *ValidationIssue {
	if expression == "" {
		return nil
	}
	_, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return &ValidationIssue{
			Severity: SeverityError,
			Where:    where,
			Message:  fmt.Sprintf("invalid select expression %q: %v", expression, err),
		}
	}
	return nil
}
