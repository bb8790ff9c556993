package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrCommand      = "rawfmt.command"
	AttrInputPath    = "input.path"
	AttrInputBytes   = "input.bytes"
	AttrTokenCount   = "token.count"
	AttrNodeCount    = "node.count"
	AttrOutputFormat = "output.format"
	AttrLossless     = "check.lossless"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanPrefixCommand = "command."
	SpanTokenize      = "markup.tokenize"
	SpanReparse       = "editor.reparse"
	SpanCatalogLoad   = "catalog.load"
)

// Event names.
const (
	EventInputRead     = "input.read"
	EventFileChanged   = "file.changed"
	EventCatalogReload = "catalog.reload"
	EventErrorOccurred = "error.occurred"
)

// Run executes fn inside a span named name. A returned error marks the
// span failed; otherwise the status is OK.
func Run(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context, trace.Span) error, attrs ...attribute.KeyValue) error {
	if tracer == nil {
		return fn(ctx, trace.SpanFromContext(ctx))
	}

	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		RecordError(span, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// RecordError marks span failed with err.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	span.AddEvent(EventErrorOccurred)
}
