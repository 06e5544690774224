// Package dispatch matches host-independent requests against an ordered rule
// list and produces exactly one response per request.
//
// All matching, handling and encoding happens inside Dispatch, which converts
// handler errors and panics into 500 responses and never panics itself.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/okian/teamhub/pkg/logger"
	"github.com/okian/teamhub/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/okian/teamhub/internal/domain/dispatch"

	// NotFoundRoute names the fallback rule.
	NotFoundRoute = "not_found"

	faultKindError = "error"
	faultKindPanic = "panic"

	nanosecondsPerMillisecond = 1e6
)

// Recorder receives dispatch metrics. *metrics.Manager implements it.
type Recorder interface {
	RecordRouteMatched(variant, route string)
	RecordDispatchFault(variant, kind string)
	RecordDispatchDuration(variant string, durationMs float64)
}

// Dispatcher evaluates routes in order; the first match handles the request.
// It is immutable after New and safe for concurrent use.
type Dispatcher struct {
	variant  string
	routes   []Route
	fallback Route
	logger   logger.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-dispatch diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithRecorder overrides the global metrics manager.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithFallback replaces the default 404 handler.
func WithFallback(h HandlerFunc) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.fallback.Handle = h
		}
	}
}

// New builds a dispatcher named variant over routes, evaluated in order.
func New(variant string, routes []Route, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		variant:  variant,
		routes:   append([]Route(nil), routes...),
		fallback: Route{Name: NotFoundRoute, Handle: NotFound},
		logger:   logger.Nop(),
		tracer:   otel.Tracer(tracerName),
		recorder: metrics.Global(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NotFound is the default fallback: 404 {"message":"Not found"}.
func NotFound(_ context.Context, _ Request) (Response, error) {
	return Message(http.StatusNotFound, "Not found")
}

// Variant returns the dispatcher name.
func (d *Dispatcher) Variant() string { return d.variant }

// Routes returns the names of the ordered rules, fallback excluded.
func (d *Dispatcher) Routes() []string {
	names := make([]string, len(d.routes))
	for i, r := range d.routes {
		names[i] = r.Name
	}
	return names
}

// Dispatch produces the response for req. It never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "dispatch."+d.variant,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	route, resp, err := d.run(ctx, req)
	if err != nil {
		kind := faultKindError
		var pe *PanicError
		if errors.As(err, &pe) {
			kind = faultKindPanic
		}
		resp = d.fault(ctx, span, req, route, kind, err)
	}

	span.SetAttributes(
		attribute.String("teamhub.route", route),
		attribute.Int("http.response.status_code", resp.Status),
	)
	d.recorder.RecordRouteMatched(d.variant, route)
	d.recorder.RecordDispatchDuration(d.variant, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
	d.logger.Debug(ctx, "dispatched",
		logger.String("variant", d.variant),
		logger.String("method", req.Method),
		logger.String("path", req.Path),
		logger.String("route", route),
		logger.Int("status", resp.Status),
	)
	return resp
}

func (d *Dispatcher) fault(ctx context.Context, span trace.Span, req Request, route, kind string, err error) Response {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	d.recorder.RecordDispatchFault(d.variant, kind)

	fields := []logger.Field{
		logger.String("variant", d.variant),
		logger.String("method", req.Method),
		logger.String("path", req.Path),
		logger.String("route", route),
		logger.String("kind", kind),
		logger.Error(err),
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		fields = append(fields, logger.String("stack", string(pe.Stack)))
	}
	d.logger.Error(ctx, "request failed", fields...)
	return FaultResponse(err)
}

// run matches and handles req, recovering panics into *PanicError.
func (d *Dispatcher) run(ctx context.Context, req Request) (route string, resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	rt := d.match(req)
	route = rt.Name
	if rt.Handle == nil {
		return route, Response{}, fmt.Errorf("%s: %w", route, ErrNoRoute)
	}
	resp, err = rt.Handle(ctx, req)
	if err != nil {
		return route, Response{}, err
	}
	if resp.Status == 0 {
		return route, Response{}, fmt.Errorf("%s: %w", route, ErrEmptyResponse)
	}
	if resp.Status < 100 || resp.Status > 599 {
		return route, Response{}, fmt.Errorf("%s: invalid status %d", route, resp.Status)
	}
	return route, resp, nil
}

func (d *Dispatcher) match(req Request) Route {
	for _, r := range d.routes {
		if r.Match != nil && r.Match(req) {
			return r
		}
	}
	return d.fallback
}
