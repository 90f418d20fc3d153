package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor, forwarding span lifecycle events
// to a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// NewProvider creates a tracer provider reporting every span to the bridge.
func NewProvider(bridge *Bridge) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}
	b.renderer.OnTaskStart(s.SpanContext().SpanID().String(), s.Name(), s.StartTime())
}

// OnEnd is called when a span ends. The task status comes from the
// task.status attribute, falling back to the span status code.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	status := domain.StatusSuccess.String()
	if s.Status().Code == codes.Error {
		status = domain.StatusFailure.String()
	}
	message := s.Status().Description

	for _, kv := range s.Attributes() {
		switch string(kv.Key) {
		case AttrStatus:
			status = kv.Value.AsString()
		case AttrMessage:
			message = kv.Value.AsString()
		}
	}

	b.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), status, message)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
