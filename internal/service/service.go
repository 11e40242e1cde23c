package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cmreports/internal/components/assert"
	"cmreports/internal/components/chrono"
	"cmreports/internal/components/telemetry"
	"cmreports/internal/reports"
	"cmreports/internal/scrapers/cargamaquina"

	"cloud.google.com/go/civil"
)

const (
	report_service_pending_sales    = "service.pending-sales"
	report_service_pending_orders   = "service.pending-orders"
	report_service_pending_material = "service.pending-materials"
	report_service_filtered_report  = "service.filtered-sales-report"
	report_service_export           = "service.export"
)

// ErrNotFound is returned by the single report operations when the report
// has no records.
var ErrNotFound = errors.New("not found")

// ErrInvalidDate is returned when a date parameter is not a YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// Window is the default date range, relative to today, used when a request
// does not specify one.
type Window struct {
	LookbackDays  int `json:"lookback_days"`
	LookaheadDays int `json:"lookahead_days"`
}

func DefaultWindow() Window {
	return Window{LookbackDays: 15, LookaheadDays: 90}
}

// Source adds the single report fetchers to reports.Source. They degrade to an
// empty result when CM is unreachable.
type Source interface {
	reports.Source
	SalesBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.SalesRecord, error)
	ProductionBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.ProductionOrderRecord, error)
	PendingMaterials(ctx context.Context) ([]cargamaquina.PendingMaterialRecord, error)
}

// Service implements every report operation on top of a Source.
type Service struct {
	src     Source
	chrono  chrono.API
	tel     telemetry.API
	window  Window
	timeout time.Duration
}

type serviceConfig struct {
	chrono  chrono.API
	tel     telemetry.API
	window  *Window
	timeout *time.Duration
}

type Option func(cfg *serviceConfig)

func WithChrono(api chrono.API) Option {
	return func(cfg *serviceConfig) {
		cfg.chrono = api
	}
}

func WithTelemetry(tel telemetry.API) Option {
	return func(cfg *serviceConfig) {
		cfg.tel = tel
	}
}

func WithWindow(window Window) Option {
	return func(cfg *serviceConfig) {
		cfg.window = &window
	}
}

// WithStandaloneTimeout sets the timeout of the single report operations, the
// consolidated report is never timed out.
func WithStandaloneTimeout(timeout time.Duration) Option {
	return func(cfg *serviceConfig) {
		cfg.timeout = &timeout
	}
}

func NewService(src Source, options ...Option) Service {
	assert.NotNil(src, "report source")

	cfg := serviceConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	s := Service{
		src:     src,
		chrono:  chrono.StandardImpl{},
		tel:     telemetry.SlogAPI{},
		window:  DefaultWindow(),
		timeout: 30 * time.Second,
	}
	if cfg.chrono != nil {
		s.chrono = cfg.chrono
	}
	if cfg.tel != nil {
		s.tel = cfg.tel
	}
	if cfg.window != nil {
		s.window = *cfg.window
	}
	if cfg.timeout != nil {
		s.timeout = *cfg.timeout
	}
	s.tel = telemetry.NewScopedAPI("service", s.tel)
	return s
}

func parseDateParam(name, text string) (*civil.Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	date, err := civil.ParseDate(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q", ErrInvalidDate, name, text)
	}
	return &date, nil
}

// DateRange resolves the optional init/end date parameters of a request,
// missing ones fall back to the default window around today.
func (s Service) DateRange(initDate, endDate string) (cargamaquina.DateRange, error) {
	start, err := parseDateParam("init_date", initDate)
	if err != nil {
		return cargamaquina.DateRange{}, err
	}
	end, err := parseDateParam("end_date", endDate)
	if err != nil {
		return cargamaquina.DateRange{}, err
	}

	today := chrono.Today(s.chrono)
	window := cargamaquina.DateRange{
		Start: today.AddDays(-s.window.LookbackDays),
		End:   today.AddDays(s.window.LookaheadDays),
	}
	if start != nil {
		window.Start = *start
	}
	if end != nil {
		window.End = *end
	}
	return window, nil
}

func (s Service) standalone(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s Service) PendingSales(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.SalesRecord, error) {
	ctx, cancel := s.standalone(ctx)
	defer cancel()

	records, err := s.src.SalesBacklog(ctx, window)
	if err != nil {
		s.tel.ReportBroken(report_service_pending_sales, err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no sales pending orders found", ErrNotFound)
	}
	return records, nil
}

func (s Service) PendingOrders(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.ProductionOrderRecord, error) {
	ctx, cancel := s.standalone(ctx)
	defer cancel()

	records, err := s.src.ProductionBacklog(ctx, window)
	if err != nil {
		s.tel.ReportBroken(report_service_pending_orders, err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no production pending orders found", ErrNotFound)
	}
	return records, nil
}

func (s Service) PendingMaterials(ctx context.Context) ([]cargamaquina.PendingMaterialRecord, error) {
	ctx, cancel := s.standalone(ctx)
	defer cancel()

	records, err := s.src.PendingMaterials(ctx)
	if err != nil {
		s.tel.ReportBroken(report_service_pending_material, err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no pending materials found", ErrNotFound)
	}
	return records, nil
}

// FilteredSalesReport returns the consolidated report. An empty report is not
// an error.
func (s Service) FilteredSalesReport(ctx context.Context, window cargamaquina.DateRange) ([]reports.ConsolidatedRecord, error) {
	records, err := reports.ConsolidatedReport(ctx, s.src, window)
	if err != nil {
		s.tel.ReportBroken(report_service_filtered_report, err)
		return nil, err
	}
	return records, nil
}

// Export is a rendered spreadsheet of the consolidated report.
type Export struct {
	FileName string
	Content  []byte
}

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s Service) ExportFilteredSalesReport(ctx context.Context, window cargamaquina.DateRange) (Export, error) {
	records, err := s.FilteredSalesReport(ctx, window)
	if err != nil {
		return Export{}, err
	}
	content, err := reports.ExportXLSX(records)
	if err != nil {
		s.tel.ReportBroken(report_service_export, err)
		return Export{}, err
	}
	return Export{
		FileName: fmt.Sprintf("relatorio_carteira_%s.xlsx", chrono.Today(s.chrono).String()),
		Content:  content,
	}, nil
}
