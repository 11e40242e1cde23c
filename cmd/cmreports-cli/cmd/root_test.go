package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cmreports/internal/components/chrono"
	"cmreports/internal/components/telemetry"
	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/internal/service"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	window cargamaquina.DateRange
}

func (f *fakeSource) SalesBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.SalesRecord, error) {
	f.window = window
	return []cargamaquina.SalesRecord{{Op: "OP-1", Customer: "ACME", PendingQuantity: 4}}, nil
}

func (f *fakeSource) ProductionBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.ProductionOrderRecord, error) {
	return []cargamaquina.ProductionOrderRecord{{Op: "OP-1", Stage: "Corte"}}, nil
}

func (f *fakeSource) PendingMaterials(ctx context.Context) ([]cargamaquina.PendingMaterialRecord, error) {
	return []cargamaquina.PendingMaterialRecord{}, nil
}

func (f *fakeSource) FetchSalesBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.SalesRecord, error) {
	return f.SalesBacklog(ctx, window)
}

func (f *fakeSource) FetchProductionBacklog(ctx context.Context, window cargamaquina.DateRange) ([]cargamaquina.ProductionOrderRecord, error) {
	return f.ProductionBacklog(ctx, window)
}

func (f *fakeSource) FetchPendingMaterials(ctx context.Context) ([]cargamaquina.PendingMaterialRecord, error) {
	return f.PendingMaterials(ctx)
}

func run(t *testing.T, src *fakeSource, args ...string) (string, error) {
	t.Helper()

	newHandler = func(ctx context.Context) (service.ReportServiceHandler, error) {
		return service.NewConnectController(service.NewService(
			src,
			service.WithChrono(chrono.FixedImpl{At: time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)}),
			service.WithTelemetry(telemetry.NewTestAPI()),
		)), nil
	}
	format = "table"
	salesFrom, salesTo = "", ""
	reportFrom, reportTo, reportXlsx = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSalesJSON(t *testing.T) {
	src := &fakeSource{}
	out, err := run(t, src, "sales", "--from", "2025-01-01", "--to", "2025-01-31", "--format", "json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, "OP-1", records[0]["op"])
	require.Equal(t, "2025-01-01", src.window.Start.String())
}

func TestReportTable(t *testing.T) {
	out, err := run(t, &fakeSource{}, "report")
	require.NoError(t, err)
	require.Contains(t, out, "OP-1")
	require.Contains(t, out, "Corte")
}

func TestReportXlsx(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, &fakeSource{}, "report", "--xlsx", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "relatorio_carteira_2025-03-20.xlsx")
	require.Contains(t, out, path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

func TestMaterialsNotFound(t *testing.T) {
	_, err := run(t, &fakeSource{}, "materials")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, &fakeSource{}, "orders", "--format", "xml")
	require.Error(t, err)
}
