package factgrid

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Severity indicates the severity of a trace message or validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the pass could not do what was asked
	SeverityWarning                 // configuration was degraded to a safer behavior
	SeverityInfo                    // informational, the output is still correct
)

// String returns the short tag used when rendering messages.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARN"
	default:
		return "INFO"
	}
}

// TraceMessage is one diagnostic emitted by a pass.
type TraceMessage struct {
	Severity Severity
	Pass     string
	Text     string
}

// String formats the message as "[WARN] projection: text".
func (m TraceMessage) String() string {
	return fmt.Sprintf("[%s] %s: %s", m.Severity, m.Pass, m.Text)
}

// TraceSink receives diagnostics. The engine never fails for conditions it can
// express as a trace message.
type TraceSink interface {
	Emit(msg TraceMessage)
}

// NopTrace discards every message.
type NopTrace struct{}

func (NopTrace) Emit(TraceMessage) {}

// MemoryTrace collects messages in emission order.
type MemoryTrace struct {
	Messages []TraceMessage
}

func (t *MemoryTrace) Emit(msg TraceMessage) {
	t.Messages = append(t.Messages, msg)
}

// Count returns the number of messages with the given severity.
func (t *MemoryTrace) Count(sev Severity) int {
	n := 0
	for _, m := range t.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// ZerologTrace forwards messages to a zerolog logger.
type ZerologTrace struct {
	logger zerolog.Logger
}

// NewZerologTrace creates a sink that logs through the given logger.
func NewZerologTrace(logger zerolog.Logger) *ZerologTrace {
	return &ZerologTrace{logger: logger}
}

func (t *ZerologTrace) Emit(msg TraceMessage) {
	var ev *zerolog.Event
	switch msg.Severity {
	case SeverityError:
		ev = t.logger.Error()
	case SeverityWarning:
		ev = t.logger.Warn()
	default:
		ev = t.logger.Info()
	}
	ev.Str("pass", msg.Pass).Msg(msg.Text)
}

// tracer stamps messages of one pass before handing them to the sink.
type tracer struct {
	sink TraceSink
	pass string
}

func (t tracer) warnf(format string, args ...any) {
	t.emit(SeverityWarning, format, args...)
}

func (t tracer) infof(format string, args ...any) {
	t.emit(SeverityInfo, format, args...)
}

func (t tracer) emit(sev Severity, format string, args ...any) {
	if t.sink == nil {
		return
	}
	t.sink.Emit(TraceMessage{Severity: sev, Pass: t.pass, Text: fmt.Sprintf(format, args...)})
}
