package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "swampy-server/chat"
)

// GetTracer returns the tracer for the chat service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartChatSpan starts a span for one chat turn.
func StartChatSpan(ctx context.Context, conversationID string, grounded bool) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.stream",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("chat.conversation_id", conversationID),
			attribute.Bool("chat.grounded", grounded),
		),
	)
	return ctx, span
}

// StartDeploySpan starts a span for a file deployment.
func StartDeploySpan(ctx context.Context, fileName, kind string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "deploy.file",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("deploy.file_name", fileName),
			attribute.String("deploy.kind", kind),
		),
	)
	return ctx, span
}

// StartGenerationSpan starts a span for a model generation call.
func StartGenerationSpan(ctx context.Context, model string, turns int) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "generation.stream",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("generation.model", model),
			attribute.Int("generation.turns", turns),
		),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddTokenEvent notes how many tokens a stream produced.
func AddTokenEvent(span trace.Span, count int) {
	span.AddEvent("stream.tokens",
		trace.WithAttributes(attribute.Int("stream.token_count", count)),
	)
}
