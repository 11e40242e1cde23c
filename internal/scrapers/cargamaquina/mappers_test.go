package cargamaquina

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func date(y int, m int, d int) *civil.Date {
	return &civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func number(v float64) *float64 {
	return &v
}

func TestMapPendingMaterialRow(t *testing.T) {
	cells := []string{"10/01/25", "Compra", "M-1", "Cobre", "OP-1", "Cabo", "-", "", "100,5 KG", "10,5 KG", "Parcial", "01/04/25"}
	record, ok := mapPendingMaterialRow(cells)
	require.True(t, ok)

	expected := PendingMaterialRecord{
		CreatedAt:          date(2025, 1, 10),
		Service:            "Compra",
		MaterialCode:       "M-1",
		Material:           "Cobre",
		Op:                 "OP-1",
		Product:            "Cabo",
		SubProduct:         "-",
		RequiredQuantity:   100.5,
		PendingQuantity:    10.5,
		Unit:               "KG",
		Status:             "Parcial",
		MaterialExpectedAt: date(2025, 4, 1),
	}
	if diff := cmp.Diff(expected, record); diff != "" {
		t.Fatal(diff)
	}
}

func TestMapPendingMaterialRowWithoutUnit(t *testing.T) {
	cells := []string{"", "", "", "", "OP-1", "", "", "", "20", "5", "", ""}
	record, ok := mapPendingMaterialRow(cells)
	require.True(t, ok)
	require.Equal(t, 5.0, record.PendingQuantity)
	require.Equal(t, "", record.Unit)
	require.Nil(t, record.CreatedAt)
}

func TestMapProductionOrderRow(t *testing.T) {
	record, ok := mapProductionOrderRow([]string{"OP-1", "ACME", "C-1", "Cabo", "01/03/25", "xx", "1200", "350,5", "Extrusão"})
	require.True(t, ok)
	expected := ProductionOrderRecord{
		Op:          "OP-1",
		Customer:    "ACME",
		ProductCode: "C-1",
		Product:     "Cabo",
		CreatedAt:   date(2025, 3, 1),
		Quantity:    1200,
		Weight:      350.5,
		Stage:       "Extrusão",
	}
	if diff := cmp.Diff(expected, record); diff != "" {
		t.Fatal(diff)
	}
}

func TestMapProductionOrderRowGroupedQuantity(t *testing.T) {
	record, ok := mapProductionOrderRow([]string{"OP-3", "ACME", "C-1", "Cabo", "", "", "1.200", "2.500,75", "Corte"})
	require.True(t, ok)
	require.Equal(t, 1200, record.Quantity)
	require.Equal(t, 2500.75, record.Weight)
}

func TestMapSalesRowTaxPercent(t *testing.T) {
	cells := make([]string, salesMinCells)
	cells[salesColOp] = "OP-1"
	cells[salesColTaxPercent] = "9,75"
	cells[salesColProfitability] = "-150,25"

	record, ok := mapSalesRow(cells)
	require.True(t, ok)
	require.Equal(t, number(9.75), record.TaxPercent)
	require.Equal(t, -150.25, record.Profitability)

	cells[salesColTaxPercent] = " "
	record, ok = mapSalesRow(cells)
	require.True(t, ok)
	require.Nil(t, record.TaxPercent)
}

func TestShortRowsAreSkipped(t *testing.T) {
	_, ok := mapSalesRow(make([]string, salesMinCells-1))
	require.False(t, ok)
	_, ok = mapProductionOrderRow(make([]string, productionMinCells-1))
	require.False(t, ok)
	_, ok = mapPendingMaterialRow(make([]string, materialsMinCells-1))
	require.False(t, ok)

	records, skipped := mapRows([][]string{
		make([]string, productionMinCells),
		{"OP-1"},
		nil,
	}, mapProductionOrderRow)
	require.Len(t, records, 1)
	require.Equal(t, 2, skipped)

	records, skipped = mapRows(nil, mapProductionOrderRow)
	require.NotNil(t, records)
	require.Empty(t, records)
	require.Zero(t, skipped)
}

func TestMinimumCellCounts(t *testing.T) {
	require.Equal(t, 19, salesMinCells)
	require.Equal(t, 9, productionMinCells)
	require.Equal(t, 12, materialsMinCells)
}
