package factgrid

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMessage_String(t *testing.T) {
	m := TraceMessage{Severity: SeverityWarning, Pass: "projection", Text: "degraded"}
	assert.Equal(t, "[WARN] projection: degraded", m.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "ERROR", SeverityError.String())
}

func TestMemoryTrace_Count(t *testing.T) {
	trace := &MemoryTrace{}
	tr := tracer{sink: trace, pass: "rounding"}
	tr.infof("one %d", 1)
	tr.warnf("two")
	tr.infof("three")

	assert.Equal(t, 2, trace.Count(SeverityInfo))
	assert.Equal(t, 1, trace.Count(SeverityWarning))
	assert.Equal(t, 0, trace.Count(SeverityError))
	assert.Equal(t, "one 1", trace.Messages[0].Text)
}

func TestZerologTrace(t *testing.T) {
	var buf bytes.Buffer
	sink := NewZerologTrace(zerolog.New(&buf))
	tr := tracer{sink: sink, pass: "equity"}
	tr.warnf("dropping %s", "Q4")
	sink.Emit(TraceMessage{Severity: SeverityError, Pass: "equity", Text: "broken"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "warn", first["level"])
	assert.Equal(t, "equity", first["pass"])
	assert.Equal(t, "dropping Q4", first["message"])
	assert.Contains(t, lines[1], `"level":"error"`)
}

func TestZerologTrace_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := NewZerologTrace(zerolog.New(&buf).Level(zerolog.WarnLevel))
	tracer{sink: sink, pass: "projection"}.infof("quiet")
	assert.Empty(t, buf.String())
}

func TestWithTrace_IgnoresNil(t *testing.T) {
	e := NewEngine(WithTrace(nil))
	assert.IsType(t, NopTrace{}, e.opts.trace)
}
