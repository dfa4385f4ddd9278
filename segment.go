package factgrid

import (
	"sort"
	"strings"
)

// Segment is one dimensional qualifier: a member chosen on an axis.
type Segment struct {
	Axis      string
	Member    string
	IsDefault bool   // the axis's declared default member
	Label     string // display value
	Order     int    // declared presentation order within the axis
}

// Key identifies the (axis, member) pair.
func (s Segment) Key() string { return s.Axis + "=" + s.Member }

// DisplayLabel returns the label or, lacking one, the member id.
func (s Segment) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Member
}

// Segments is an unordered set of qualifiers attached to a fact, row or column.
type Segments []Segment

// Get returns the qualifier on the given axis.
func (ss Segments) Get(axis string) (Segment, bool) {
	for _, s := range ss {
		if s.Axis == axis {
			return s, true
		}
	}
	return Segment{}, false
}

// NonDefault returns the qualifiers that are not their axis's default member.
func (ss Segments) NonDefault() Segments {
	var out Segments
	for _, s := range ss {
		if !s.IsDefault {
			out = append(out, s)
		}
	}
	return out
}

// Key returns an order-independent identity of the non-default qualifiers;
// default members are implicit and do not participate.
func (ss Segments) Key() string {
	nd := ss.NonDefault()
	keys := make([]string, len(nd))
	for i, s := range nd {
		keys[i] = s.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// Equal compares the non-default qualifiers of both sets.
func (ss Segments) Equal(o Segments) bool { return ss.Key() == o.Key() }

// Union merges two qualifier sets; on an axis conflict the receiver wins.
func (ss Segments) Union(o Segments) Segments {
	out := append(Segments(nil), ss...)
	for _, s := range o {
		if _, ok := out.Get(s.Axis); !ok {
			out = append(out, s)
		}
	}
	return out
}

// Without returns the qualifiers whose axis is not in the given set.
func (ss Segments) Without(axes map[string]bool) Segments {
	var out Segments
	for _, s := range ss {
		if !axes[s.Axis] {
			out = append(out, s)
		}
	}
	return out
}

// Only returns the qualifiers whose axis is in the given set.
func (ss Segments) Only(axes map[string]bool) Segments {
	var out Segments
	for _, s := range ss {
		if axes[s.Axis] {
			out = append(out, s)
		}
	}
	return out
}

// Order is the presentation order of the set: the sum is stable enough for
// sorting sets drawn from the same axes.
func (ss Segments) Order() int {
	total := 0
	for _, s := range ss.NonDefault() {
		total += s.Order
	}
	return total
}

// DefaultMembers maps an axis id to its declared default member.
type DefaultMembers map[string]Segment

// Default returns the declared default member of an axis.
func (dm DefaultMembers) Default(axis string) (Segment, bool) {
	if dm == nil {
		return Segment{}, false
	}
	s, ok := dm[axis]
	if ok {
		s.Axis = axis
		s.IsDefault = true
	}
	return s, ok
}
