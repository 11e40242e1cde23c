package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

type instrumentResty struct {
	tel       API
	tracer    trace.Tracer
	idcounter *uint64
}

// InstrumentResty reports every request made by client to tel and wraps it
// in a span of the named tracer.
func InstrumentResty(client *resty.Client, tracerName string, tel API) {
	var idcounter uint64
	i := instrumentResty{
		tel:       tel,
		tracer:    otel.Tracer(tracerName),
		idcounter: &idcounter,
	}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", res.Request.Method),
		attribute.String("url.full", res.Request.URL),
		attribute.Int("http.response.status_code", res.StatusCode()),
	)
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}
	i.tel.ReportDebug(
		report_resty_response,
		rc.id,
		time.Since(rc.startTime).String(),
		res.Status(),
	)
	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	var duration time.Duration
	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if ok {
		duration = time.Since(rc.startTime)
	}

	i.tel.ReportBroken(
		report_resty_response,
		err,
		req.Method,
		req.URL,
		duration,
	)
}
