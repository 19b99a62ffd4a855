package logging

import "context"

type sinkKey struct{}

// NewContext returns a context carrying sink, so components deep in a job's
// call chain log with the job's prefix.
func NewContext(ctx context.Context, sink *Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

// FromContext returns the sink stored in ctx, or fallback when there is none.
// A nil fallback yields a discarding sink.
func FromContext(ctx context.Context, fallback *Sink) *Sink {
	if ctx != nil {
		if sink, ok := ctx.Value(sinkKey{}).(*Sink); ok && sink != nil {
			return sink
		}
	}
	if fallback == nil {
		return Discard()
	}
	return fallback
}
