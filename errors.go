package factgrid

import (
	"errors"
	"fmt"
)

// ErrIncompleteEquity matches every IncompleteEquityError with errors.Is.
var ErrIncompleteEquity = errors.New("incomplete equity statement")

// ErrUnmatchedAxis reports an axis iterator that names no axis.
var ErrUnmatchedAxis = errors.New("axis iterator names no axis")

// IncompleteKind tells why an equity statement could not be reconstructed.
type IncompleteKind int

const (
	MissingBeginningBalance IncompleteKind = iota + 1
	MissingEndingBalance
	Incomplete
	MissingLookup
)

// String returns a human-readable name for the IncompleteKind.
func (k IncompleteKind) String() string {
	switch k {
	case MissingBeginningBalance:
		return "MissingBeginningBalance"
	case MissingEndingBalance:
		return "MissingEndingBalance"
	case Incomplete:
		return "Incomplete"
	case MissingLookup:
		return "MissingLookup"
	default:
		return "Unknown"
	}
}

// IncompleteEquityError aborts equity reconstruction only; callers fall back
// to a generic projection of the same report.
type IncompleteEquityError struct {
	Kind IncompleteKind
	Err  error
}

func (e *IncompleteEquityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("incomplete equity: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("incomplete equity: %s", e.Kind)
}

func (e *IncompleteEquityError) Is(target error) bool {
	return target == ErrIncompleteEquity
}

func (e *IncompleteEquityError) Unwrap() error { return e.Err }

func incompleteEquity(kind IncompleteKind) error {
	return &IncompleteEquityError{Kind: kind}
}

// IncompleteKindOf returns the kind of an IncompleteEquityError in err's chain.
func IncompleteKindOf(err error) (IncompleteKind, bool) {
	var ie *IncompleteEquityError
	if errors.As(err, &ie) {
		return ie.Kind, true
	}
	return 0, false
}
