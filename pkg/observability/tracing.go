package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps X-Ray segment handling. A disabled tracer is safe to call,
// every method degrades to a pass-through so local development does not need
// the X-Ray daemon
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a tracer for the named service
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		enabled:     enabled,
	}
}

// Enabled reports whether segments are actually recorded
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// StartSegment starts a root trace segment
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	if !t.Enabled() {
		return ctx, nil
	}
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// Trace runs fn inside a subsegment named after the operation. Inside Lambda
// the parent segment comes from the runtime, locally StartSegment supplies it
func (t *Tracer) Trace(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.Enabled() {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, name)
	err := fn(ctx)
	if seg != nil {
		if err != nil {
			_ = seg.AddError(err)
		}
		seg.Close(nil)
	}
	return err
}

// AddMetadata attaches metadata to the current segment, if any
func (t *Tracer) AddMetadata(ctx context.Context, key string, value interface{}) {
	if !t.Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
