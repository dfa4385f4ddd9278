package factgrid

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// AdjustmentLookup marks qualifiers that denote restatement adjustments or
// previously reported amounts. Each map goes from an axis id to member
// markers; "*" marks every member of the axis.
type AdjustmentLookup struct {
	Adjusted           map[string][]string `yaml:"adjusted"`
	PreviouslyReported map[string][]string `yaml:"previouslyReported"`
}

// LoadAdjustmentLookup parses a lookup document.
func LoadAdjustmentLookup(r io.Reader) (*AdjustmentLookup, error) {
	var l AdjustmentLookup
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		if err == io.EOF {
			return nil, &IncompleteEquityError{Kind: MissingLookup, Err: fmt.Errorf("empty lookup document")}
		}
		return nil, &IncompleteEquityError{Kind: MissingLookup, Err: fmt.Errorf("parse lookup document: %w", err)}
	}
	return &l, nil
}

// IsAdjusted reports whether the qualifier marks an adjustment.
func (l *AdjustmentLookup) IsAdjusted(s Segment) bool {
	return l != nil && markerMatches(l.Adjusted, s)
}

// IsPreviouslyReported reports whether the qualifier marks previously
// reported amounts.
func (l *AdjustmentLookup) IsPreviouslyReported(s Segment) bool {
	return l != nil && markerMatches(l.PreviouslyReported, s)
}

// Axes returns every axis the lookup mentions.
func (l *AdjustmentLookup) Axes() map[string]bool {
	axes := make(map[string]bool)
	if l == nil {
		return axes
	}
	for a := range l.Adjusted {
		axes[a] = true
	}
	for a := range l.PreviouslyReported {
		axes[a] = true
	}
	return axes
}

// Marks reports whether any qualifier in the set is marked by the lookup.
func (l *AdjustmentLookup) Marks(ss Segments) (adjusted, previouslyReported bool) {
	for _, s := range ss.NonDefault() {
		adjusted = adjusted || l.IsAdjusted(s)
		previouslyReported = previouslyReported || l.IsPreviouslyReported(s)
	}
	return adjusted, previouslyReported
}

func markerMatches(markers map[string][]string, s Segment) bool {
	if s.IsDefault {
		return false
	}
	list, ok := markers[s.Axis]
	if !ok {
		return false
	}
	return slices.Contains(list, AnyMember) || slices.Contains(list, s.Member)
}
