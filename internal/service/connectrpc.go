package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cmreports/internal/reports"
	"cmreports/internal/scrapers/cargamaquina"

	"connectrpc.com/connect"
)

// ReportServiceName is the fully-qualified name of the report service.
const ReportServiceName = "cmreports.v1.ReportService"

const (
	ReportServicePendingSalesProcedure              = "/" + ReportServiceName + "/PendingSales"
	ReportServicePendingOrdersProcedure             = "/" + ReportServiceName + "/PendingOrders"
	ReportServicePendingMaterialsProcedure          = "/" + ReportServiceName + "/PendingMaterials"
	ReportServiceFilteredSalesReportProcedure       = "/" + ReportServiceName + "/FilteredSalesReport"
	ReportServiceExportFilteredSalesReportProcedure = "/" + ReportServiceName + "/ExportFilteredSalesReport"
)

type DateRangeRequest struct {
	InitDate string `json:"init_date,omitempty"`
	EndDate  string `json:"end_date,omitempty"`
}

type PendingMaterialsRequest struct{}

type PendingSalesResponse struct {
	Records []cargamaquina.SalesRecord `json:"records"`
}

type PendingOrdersResponse struct {
	Records []cargamaquina.ProductionOrderRecord `json:"records"`
}

type PendingMaterialsResponse struct {
	Records []cargamaquina.PendingMaterialRecord `json:"records"`
}

type FilteredSalesReportResponse struct {
	Records []reports.ConsolidatedRecord `json:"records"`
}

type ExportResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// JSONCodec lets connect carry plain go structs as json, it replaces the
// default protojson codec.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}

func connectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// ReportServiceHandler is implemented by both the local ConnectController and
// the remote ReportServiceClient.
type ReportServiceHandler interface {
	PendingSales(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingSalesResponse], error)
	PendingOrders(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingOrdersResponse], error)
	PendingMaterials(ctx context.Context, req *connect.Request[PendingMaterialsRequest]) (*connect.Response[PendingMaterialsResponse], error)
	FilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[FilteredSalesReportResponse], error)
	ExportFilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[ExportResponse], error)
}

// ConnectController implements cmreports.v1.ReportService.
type ConnectController struct {
	svc Service
}

func NewConnectController(svc Service) ConnectController {
	return ConnectController{svc: svc}
}

// NewConnectHandler builds an http.Handler serving the report service, it
// returns the path to mount the handler on.
func NewConnectHandler(svc Service, opts ...connect.HandlerOption) (string, http.Handler) {
	c := NewConnectController(svc)
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ReportServicePendingSalesProcedure, connect.NewUnaryHandler(
		ReportServicePendingSalesProcedure, c.PendingSales, opts...,
	))
	mux.Handle(ReportServicePendingOrdersProcedure, connect.NewUnaryHandler(
		ReportServicePendingOrdersProcedure, c.PendingOrders, opts...,
	))
	mux.Handle(ReportServicePendingMaterialsProcedure, connect.NewUnaryHandler(
		ReportServicePendingMaterialsProcedure, c.PendingMaterials, opts...,
	))
	mux.Handle(ReportServiceFilteredSalesReportProcedure, connect.NewUnaryHandler(
		ReportServiceFilteredSalesReportProcedure, c.FilteredSalesReport, opts...,
	))
	mux.Handle(ReportServiceExportFilteredSalesReportProcedure, connect.NewUnaryHandler(
		ReportServiceExportFilteredSalesReportProcedure, c.ExportFilteredSalesReport, opts...,
	))
	return "/" + ReportServiceName + "/", mux
}

func (c ConnectController) PendingSales(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingSalesResponse], error) {
	window, err := c.svc.DateRange(req.Msg.InitDate, req.Msg.EndDate)
	if err != nil {
		return nil, connectError(err)
	}
	records, err := c.svc.PendingSales(ctx, window)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PendingSalesResponse{Records: records}), nil
}

func (c ConnectController) PendingOrders(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingOrdersResponse], error) {
	window, err := c.svc.DateRange(req.Msg.InitDate, req.Msg.EndDate)
	if err != nil {
		return nil, connectError(err)
	}
	records, err := c.svc.PendingOrders(ctx, window)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PendingOrdersResponse{Records: records}), nil
}

func (c ConnectController) PendingMaterials(ctx context.Context, req *connect.Request[PendingMaterialsRequest]) (*connect.Response[PendingMaterialsResponse], error) {
	records, err := c.svc.PendingMaterials(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&PendingMaterialsResponse{Records: records}), nil
}

func (c ConnectController) FilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[FilteredSalesReportResponse], error) {
	window, err := c.svc.DateRange(req.Msg.InitDate, req.Msg.EndDate)
	if err != nil {
		return nil, connectError(err)
	}
	records, err := c.svc.FilteredSalesReport(ctx, window)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&FilteredSalesReportResponse{Records: records}), nil
}

func (c ConnectController) ExportFilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[ExportResponse], error) {
	window, err := c.svc.DateRange(req.Msg.InitDate, req.Msg.EndDate)
	if err != nil {
		return nil, connectError(err)
	}
	export, err := c.svc.ExportFilteredSalesReport(ctx, window)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ExportResponse{FileName: export.FileName, Content: export.Content}), nil
}

// ReportServiceClient is a client for cmreports.v1.ReportService.
type ReportServiceClient struct {
	pendingSales        *connect.Client[DateRangeRequest, PendingSalesResponse]
	pendingOrders       *connect.Client[DateRangeRequest, PendingOrdersResponse]
	pendingMaterials    *connect.Client[PendingMaterialsRequest, PendingMaterialsResponse]
	filteredSalesReport *connect.Client[DateRangeRequest, FilteredSalesReportResponse]
	export              *connect.Client[DateRangeRequest, ExportResponse]
}

func NewReportServiceClient(httpClient connect.HTTPClient, baseUrl string, opts ...connect.ClientOption) ReportServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return ReportServiceClient{
		pendingSales: connect.NewClient[DateRangeRequest, PendingSalesResponse](
			httpClient, baseUrl+ReportServicePendingSalesProcedure, opts...,
		),
		pendingOrders: connect.NewClient[DateRangeRequest, PendingOrdersResponse](
			httpClient, baseUrl+ReportServicePendingOrdersProcedure, opts...,
		),
		pendingMaterials: connect.NewClient[PendingMaterialsRequest, PendingMaterialsResponse](
			httpClient, baseUrl+ReportServicePendingMaterialsProcedure, opts...,
		),
		filteredSalesReport: connect.NewClient[DateRangeRequest, FilteredSalesReportResponse](
			httpClient, baseUrl+ReportServiceFilteredSalesReportProcedure, opts...,
		),
		export: connect.NewClient[DateRangeRequest, ExportResponse](
			httpClient, baseUrl+ReportServiceExportFilteredSalesReportProcedure, opts...,
		),
	}
}

func (c ReportServiceClient) PendingSales(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingSalesResponse], error) {
	return c.pendingSales.CallUnary(ctx, req)
}

func (c ReportServiceClient) PendingOrders(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[PendingOrdersResponse], error) {
	return c.pendingOrders.CallUnary(ctx, req)
}

func (c ReportServiceClient) PendingMaterials(ctx context.Context, req *connect.Request[PendingMaterialsRequest]) (*connect.Response[PendingMaterialsResponse], error) {
	return c.pendingMaterials.CallUnary(ctx, req)
}

func (c ReportServiceClient) FilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[FilteredSalesReportResponse], error) {
	return c.filteredSalesReport.CallUnary(ctx, req)
}

func (c ReportServiceClient) ExportFilteredSalesReport(ctx context.Context, req *connect.Request[DateRangeRequest]) (*connect.Response[ExportResponse], error) {
	return c.export.CallUnary(ctx, req)
}
