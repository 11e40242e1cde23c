package cargamaquina

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"cmreports/internal/components/metrics"
	"cmreports/pkg/htmlutil"
	"cmreports/pkg/localefmt"
	"cmreports/pkg/textutil"

	"github.com/go-resty/resty/v2"
)

// metric source labels
const (
	SourceSalesBacklog      = "sales_backlog"
	SourceProductionBacklog = "production_backlog"
	SourcePendingMaterials  = "pending_materials"
)

// headers scoring below this similarity to the expected label are reported as
// layout drift.
const driftThreshold = 0.85

// ErrReportUnavailable is returned by the strict fetchers when CM could not
// be reached or answered with a non-2xx status.
var ErrReportUnavailable = errors.New("report unavailable")

type report[T any] struct {
	id      string
	source  string
	labels  map[int]string
	mapRow  func([]string) (T, bool)
	request func(req *resty.Request) (*resty.Response, error)
}

// fetchReport requests a report page and maps its table. A page without the
// report table is always an error. Transport failures and non-2xx responses
// are an ErrReportUnavailable error unless degrade is set, in which case they
// are reported and give an empty result. A cancelled or expired ctx is never
// degraded.
func fetchReport[T any](ctx context.Context, c *Client, r report[T], degrade bool) ([]T, error) {
	start := time.Now()
	observe := func(outcome string, rows int) {
		c.opts.Metrics.ObserveFetch(r.source, outcome, rows, time.Since(start))
	}
	unavailable := func(cause error) ([]T, error) {
		c.tel.ReportBroken(r.id, cause)
		if degrade && ctx.Err() == nil {
			observe(metrics.OutcomeDegraded, 0)
			return []T{}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(cause, ctxErr) {
			cause = fmt.Errorf("%w: %w", ctxErr, cause)
		}
		observe(metrics.OutcomeFailed, 0)
		return nil, fmt.Errorf("%s: %w: %w", r.source, ErrReportUnavailable, cause)
	}

	res, err := r.request(c.request(ctx))
	if err != nil {
		return unavailable(fmt.Errorf("request: %w", err))
	}
	if res.IsError() {
		return unavailable(fmt.Errorf("unexpected status: %s", res.Status()))
	}

	table, err := htmlutil.ExtractTable(bytes.NewReader(res.Body()), reportTableId)
	if err != nil {
		c.tel.ReportBroken(r.id, err)
		observe(metrics.OutcomeFailed, 0)
		return nil, fmt.Errorf("%s: %w", r.source, err)
	}
	c.checkLayout(r.id, table.Header, r.labels)

	records, skipped := mapRows(table.Rows, r.mapRow)
	if skipped > 0 {
		c.tel.ReportDebug(report_client_skipped_rows, r.source, skipped)
	}
	c.tel.ReportCount(report_client_records_mapped, int64(len(records)))
	observe(metrics.OutcomeOk, len(records))
	return records, nil
}

// checkLayout compares the scraped header with the labels the mappers expect.
func (c *Client) checkLayout(reportId string, header []string, labels map[int]string) {
	if len(header) == 0 {
		return
	}
	for idx, expected := range labels {
		if idx >= len(header) {
			c.tel.ReportWarning(
				report_client_layout_drift,
				fmt.Errorf("%s: header has %d columns, expected %q at %d", reportId, len(header), expected, idx),
			)
			continue
		}
		similarity := textutil.Similarity(header[idx], expected)
		if similarity < driftThreshold {
			c.tel.ReportWarning(
				report_client_layout_drift,
				fmt.Errorf("%s: column %d is %q, expected %q", reportId, idx, header[idx], expected),
				similarity,
			)
		}
	}
}

func (c *Client) salesReport(window DateRange) report[SalesRecord] {
	return report[SalesRecord]{
		id:     report_client_sales_backlog,
		source: SourceSalesBacklog,
		labels: salesHeaderLabels,
		mapRow: mapSalesRow,
		request: func(req *resty.Request) (*resty.Response, error) {
			return req.
				SetQueryParams(map[string]string{
					"RelatorioPedidosPendentes[dataInicio]":         localefmt.FormatDate(window.Start),
					"RelatorioPedidosPendentes[dataFim]":            localefmt.FormatDate(window.End),
					"RelatorioPedidosPendentes[considerarForecast]": "0",
					"RelatorioPedidosPendentes[emissor]":            "37299632",
					"RelatorioPedidosPendentes[situacao]":           "",
				}).
				Get(c.opts.Endpoints.SalesBacklog)
		},
	}
}

// productionReport needs the CSRF token of a logged in session.
func (c *Client) productionReport(window DateRange) report[ProductionOrderRecord] {
	return report[ProductionOrderRecord]{
		id:     report_client_production,
		source: SourceProductionBacklog,
		labels: productionHeaderLabels,
		mapRow: mapProductionOrderRow,
		request: func(req *resty.Request) (*resty.Response, error) {
			return req.
				SetQueryParams(map[string]string{
					"dataInicio":  localefmt.FormatDate(window.Start),
					"dataFim":     localefmt.FormatDate(window.End),
					"clienteId":   "",
					csrfFieldName: c.CSRFToken(),
				}).
				Post(c.opts.Endpoints.ProductionBacklog)
		},
	}
}

// materialsReport lists the partially supplied material requests created since
// the start of 2025.
func (c *Client) materialsReport() report[PendingMaterialRecord] {
	return report[PendingMaterialRecord]{
		id:     report_client_materials,
		source: SourcePendingMaterials,
		labels: materialsHeaderLabels,
		mapRow: mapPendingMaterialRow,
		request: func(req *resty.Request) (*resty.Response, error) {
			return req.
				SetQueryParams(map[string]string{
					"Pedido[_nomeMaterial]":  "",
					"Pedido[_solicitante]":   "",
					"Pedido[status_id]":      "",
					"Pedido[situacao]":       "TODAS",
					"Pedido[_qtdeFornecida]": "Parcialmente",
					"Pedido[_inicioCriacao]": "01/01/2025",
					"Pedido[_fimCriacao]":    "",
					"pageSize":               "20",
				}).
				Get(c.opts.Endpoints.PendingMaterials)
		},
	}
}

// SalesBacklog scrapes the pending sales orders issued within window. An
// unreachable report gives an empty result.
func (c *Client) SalesBacklog(ctx context.Context, window DateRange) ([]SalesRecord, error) {
	return fetchReport(ctx, c, c.salesReport(window), true)
}

// FetchSalesBacklog is SalesBacklog failing with ErrReportUnavailable instead
// of degrading.
func (c *Client) FetchSalesBacklog(ctx context.Context, window DateRange) ([]SalesRecord, error) {
	return fetchReport(ctx, c, c.salesReport(window), false)
}

// ProductionBacklog scrapes the open production orders within window. An
// unreachable report gives an empty result.
func (c *Client) ProductionBacklog(ctx context.Context, window DateRange) ([]ProductionOrderRecord, error) {
	return fetchReport(ctx, c, c.productionReport(window), true)
}

func (c *Client) FetchProductionBacklog(ctx context.Context, window DateRange) ([]ProductionOrderRecord, error) {
	return fetchReport(ctx, c, c.productionReport(window), false)
}

// PendingMaterials scrapes the pending material requests. An unreachable
// report gives an empty result.
func (c *Client) PendingMaterials(ctx context.Context) ([]PendingMaterialRecord, error) {
	return fetchReport(ctx, c, c.materialsReport(), true)
}

func (c *Client) FetchPendingMaterials(ctx context.Context) ([]PendingMaterialRecord, error) {
	return fetchReport(ctx, c, c.materialsReport(), false)
}
