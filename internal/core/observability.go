package core

import (
	"context"
	"time"

	"rnacolumns/pkg/domain"
)

// Result classifies how a service operation ended.
type Result string

const (
	ResultSuccess Result = "success"
	// ResultRejected marks requests refused for a user error such as an
	// unknown sample or a malformed range.
	ResultRejected Result = "rejected"
	ResultError    Result = "error"
)

func resultOf(err error) Result {
	switch {
	case err == nil:
		return ResultSuccess
	case domain.IsUserError(err):
		return ResultRejected
	default:
		return ResultError
	}
}

// MetricsRecorder receives one observation per service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, result Result, duration time.Duration)
}

// ColumnsRecorder is implemented by recorders that also count the columns
// each applied request added and the stored tokens that no longer resolve.
type ColumnsRecorder interface {
	ObserveColumns(ctx context.Context, strategy string, added, dropped int)
}

// Tracer starts a span around a service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation's error, if any.
type TraceSpan interface {
	Annotate(key, value string)
	End(err error)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, Result, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) Annotate(string, string) {}
func (noopSpan) End(error)               {}

type spanKey struct{}

// annotate labels the span instrument opened for ctx.
func annotate(ctx context.Context, kv ...string) {
	span, ok := ctx.Value(spanKey{}).(TraceSpan)
	if !ok {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		span.Annotate(kv[i], kv[i+1])
	}
}

// instrument starts a span and returns the function that closes it and
// records the outcome. Call it as `defer done(&err)`.
func (s *Service) instrument(ctx context.Context, operation string) (context.Context, func(*error)) {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, operation)
	ctx = context.WithValue(ctx, spanKey{}, span)
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		span.End(err)
		s.metrics.Observe(ctx, operation, resultOf(err), s.now().Sub(started))
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request identifier that spans and log lines carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the identifier set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
