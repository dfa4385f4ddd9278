package factgrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lookupYAML = `
adjusted:
  Restatement: ["*"]
  ChangeInAccountingPrinciple: [CumulativeEffect]
previouslyReported:
  Restatement: [PreviouslyReported]
`

func TestLoadAdjustmentLookup(t *testing.T) {
	l, err := LoadAdjustmentLookup(strings.NewReader(lookupYAML))
	require.NoError(t, err)

	assert.True(t, l.IsAdjusted(restated))
	assert.True(t, l.IsAdjusted(Segment{Axis: "ChangeInAccountingPrinciple", Member: "CumulativeEffect"}))
	assert.False(t, l.IsAdjusted(Segment{Axis: "ChangeInAccountingPrinciple", Member: "Other"}))
	assert.False(t, l.IsAdjusted(europe))
	assert.False(t, l.IsAdjusted(Segment{Axis: "Restatement", Member: "AsReported", IsDefault: true}), "default members are never markers")

	assert.True(t, l.IsPreviouslyReported(Segment{Axis: "Restatement", Member: "PreviouslyReported"}))
	assert.False(t, l.IsPreviouslyReported(restated))

	assert.Equal(t, map[string]bool{"Restatement": true, "ChangeInAccountingPrinciple": true}, l.Axes())

	adjusted, previous := l.Marks(Segments{common, restated})
	assert.True(t, adjusted)
	assert.False(t, previous)
}

func TestLoadAdjustmentLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"unknown key", "restated:\n  Restatement: ['*']\n"},
		{"wrong shape", "adjusted: [Restatement]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAdjustmentLookup(strings.NewReader(tt.doc))
			require.Error(t, err)
			kind, ok := IncompleteKindOf(err)
			require.True(t, ok)
			assert.Equal(t, MissingLookup, kind)
		})
	}
}

func TestAdjustmentLookup_Nil(t *testing.T) {
	var l *AdjustmentLookup
	assert.False(t, l.IsAdjusted(restated))
	assert.False(t, l.IsPreviouslyReported(restated))
	assert.Empty(t, l.Axes())
}
