package reports

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"cmreports/internal/scrapers/cargamaquina"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("cmreports/reports")

// Source is anything that can produce the three CM reports,
// *cargamaquina.Client in production. Every method must fail when its report
// could not be fetched, an empty result means an empty report.
type Source interface {
	FetchSalesBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.SalesRecord, error)
	FetchProductionBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.ProductionOrderRecord, error)
	FetchPendingMaterials(ctx context.Context) ([]cargamaquina.PendingMaterialRecord, error)
}

// Bundle holds the result of every report fetched for one consolidated run.
type Bundle struct {
	Sales     []cargamaquina.SalesRecord
	Orders    []cargamaquina.ProductionOrderRecord
	Materials []cargamaquina.PendingMaterialRecord
}

// capture runs fn and turns a panic into an error.
func capture(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v\n%s", name, r, debug.Stack())
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// FetchAll fetches the three reports concurrently. Every fetch runs to
// completion regardless of the others, if any of them failed the errors of
// all failed fetches are returned joined and the bundle is discarded.
func FetchAll(ctx context.Context, src Source, window cargamaquina.DateRange) (Bundle, error) {
	ctx, span := tracer.Start(ctx, "FetchAll")
	defer span.End()

	var (
		bundle                            Bundle
		salesErr, ordersErr, materialsErr error
	)

	var group errgroup.Group
	group.Go(func() error {
		salesErr = capture("sales backlog", func() (err error) {
			bundle.Sales, err = src.FetchSalesBacklog(ctx, window)
			return err
		})
		return nil
	})
	group.Go(func() error {
		ordersErr = capture("production backlog", func() (err error) {
			bundle.Orders, err = src.FetchProductionBacklog(ctx, window)
			return err
		})
		return nil
	})
	group.Go(func() error {
		materialsErr = capture("pending materials", func() (err error) {
			bundle.Materials, err = src.FetchPendingMaterials(ctx)
			return err
		})
		return nil
	})
	group.Wait()

	err := errors.Join(salesErr, ordersErr, materialsErr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return Bundle{}, err
	}

	span.SetAttributes(
		attribute.Int("sales", len(bundle.Sales)),
		attribute.Int("orders", len(bundle.Orders)),
		attribute.Int("materials", len(bundle.Materials)),
	)
	return bundle, nil
}

// ConsolidatedReport fetches every report and joins them by production order.
func ConsolidatedReport(ctx context.Context, src Source, window cargamaquina.DateRange) ([]ConsolidatedRecord, error) {
	bundle, err := FetchAll(ctx, src, window)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}

	var out []ConsolidatedRecord
	err = capture("combine", func() error {
		out = Combine(bundle.Sales, bundle.Orders, bundle.Materials)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
