package factgrid

import (
	"errors"
	"fmt"
	"maps"
)

// Engine runs the projection, reconciliation, equity and rounding passes.
// An Engine holds only configuration; every call works on its own copy of
// the report, so one Engine may serve several goroutines.
type Engine struct {
	opts *Options
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Engine{opts: o}
}

// Reconcile returns a copy of base in which instant columns are merged into
// the duration columns that report the same position.
func (e *Engine) Reconcile(base *Report) (*Report, error) {
	if err := base.CheckSynchrony(); err != nil {
		return nil, fmt.Errorf("reconcile %q: %w", base.Title, err)
	}
	out := base.Clone()
	newReconciler(e.opts, out).run()
	return out, nil
}

// SplitByCurrency returns a copy of base in which every duration column
// holding facts in several currencies is split into one column per
// currency. The column keeps its own currency; the others become pseudo
// columns.
func (e *Engine) SplitByCurrency(base *Report) (*Report, error) {
	if err := base.CheckSynchrony(); err != nil {
		return nil, fmt.Errorf("split %q: %w", base.Title, err)
	}
	out := base.Clone()
	if len(splitByCurrency(out, e.opts.preferredCurrency)) > 0 {
		out.IsMultiCurrency = true
	}
	return out, nil
}

// Project builds a new report whose rows and columns are the expansion of
// the given axis iterators over the facts of base.
func (e *Engine) Project(base *Report, rows, cols []AxisIterator) (*Report, error) {
	out, err := newProjection(e.opts, base, rows, cols).run()
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", base.Title, err)
	}
	return out, nil
}

// ReconstructEquity lays base out as a changes-in-equity statement. It
// returns an *IncompleteEquityError when the report lacks the structure.
func (e *Engine) ReconstructEquity(base *Report) (*Report, error) {
	if err := base.CheckSynchrony(); err != nil {
		return nil, fmt.Errorf("equity %q: %w", base.Title, err)
	}
	out, err := newEquityBuilder(e.opts, base).run()
	if err != nil {
		return nil, fmt.Errorf("equity %q: %w", base.Title, err)
	}
	return out, nil
}

// Round returns a copy of r with rounded cell text and a rounding
// disclosure, and the level chosen for each unit family.
func (e *Engine) Round(r *Report) (*Report, map[UnitFamily]RoundingLevel) {
	out := r.Clone()
	rs := newRoundingSelector(e.opts, out)
	rs.run()
	out.RoundingLevels = rs.levels
	return out, maps.Clone(rs.levels)
}

// Render reconciles base, projects it onto the iterators and rounds the
// result.
func (e *Engine) Render(base *Report, rows, cols []AxisIterator) (*Report, error) {
	rec, err := e.Reconcile(base)
	if err != nil {
		return nil, err
	}
	if err := rec.CheckSynchrony(); err != nil {
		return nil, fmt.Errorf("reconcile %q: %w", base.Title, err)
	}
	out, err := e.Project(rec, rows, cols)
	if err != nil {
		return nil, err
	}
	if err := out.CheckSynchrony(); err != nil {
		return nil, fmt.Errorf("project %q: %w", base.Title, err)
	}
	rounded, _ := e.Round(out)
	return rounded, nil
}

// RenderEquity reconciles base and lays it out as a changes-in-equity
// statement. When the report lacks the structure it falls back to a generic
// projection and emits a warning.
func (e *Engine) RenderEquity(base *Report) (*Report, error) {
	rec, err := e.Reconcile(base)
	if err != nil {
		return nil, err
	}
	out, err := e.ReconstructEquity(rec)
	if err == nil {
		rounded, _ := e.Round(out)
		return rounded, nil
	}
	if !errors.Is(err, ErrIncompleteEquity) {
		return nil, err
	}
	tracer{sink: e.opts.trace, pass: "equity"}.warnf("%v; showing the generic layout", err)
	return e.Render(base, []AxisIterator{ElementIterator()}, e.fallbackColumns(rec))
}

// fallbackColumns is the generic column layout: period, then every axis
// the facts use, then unit.
func (e *Engine) fallbackColumns(r *Report) []AxisIterator {
	cols := []AxisIterator{PeriodIterator()}
	seen := make(map[string]bool)
	for _, f := range collectFacts(r) {
		for _, s := range f.segments {
			if seen[s.Axis] {
				continue
			}
			seen[s.Axis] = true
			cols = append(cols, AxisOf(s.Axis))
		}
	}
	return append(cols, UnitIterator())
}
