package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor by logging span lifecycle events
// at debug level.
type Bridge struct {
	logger ports.Logger
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}
	b.logger.Debug(fmt.Sprintf("%s started", s.Name()))
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s finished in %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Millisecond))
	if attrs := formatAttributes(s.Attributes()); attrs != "" {
		sb.WriteString(" (")
		sb.WriteString(attrs)
		sb.WriteString(")")
	}
	if st := s.Status(); st.Code == codes.Error {
		desc := st.Description
		if desc == "" {
			desc = "failed"
		}
		sb.WriteString(": ")
		sb.WriteString(desc)
	}
	b.logger.Debug(sb.String())
}

// Shutdown is called when the SDK shuts down.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// ForceFlush is called to ensure all spans are flushed.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

func formatAttributes(attrs []attribute.KeyValue) string {
	parts := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
	}
	return strings.Join(parts, " ")
}
