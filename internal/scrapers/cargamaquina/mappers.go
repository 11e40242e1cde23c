package cargamaquina

import (
	"strings"

	"cmreports/pkg/localefmt"
)

func optionalNumber(text string) *float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	value := localefmt.ParseNumber(text)
	return &value
}

// quantityUnit returns the unit of a cell like "12,5 KG", cells without a
// unit suffix have none.
func quantityUnit(text string) string {
	if len(strings.Fields(text)) < 2 {
		return ""
	}
	return localefmt.LastToken(text)
}

func mapSalesRow(cells []string) (SalesRecord, bool) {
	if len(cells) < salesMinCells {
		return SalesRecord{}, false
	}
	return SalesRecord{
		Customer:          cells[salesColCustomer],
		Negotiation:       cells[salesColNegotiation],
		ServiceType:       cells[salesColServiceType],
		IssuedAt:          localefmt.ParseDate(cells[salesColIssuedAt]),
		CustomerOrder:     cells[salesColCustomerOrder],
		Op:                cells[salesColOp],
		ProjectNumber:     cells[salesColProjectNumber],
		ProductCode:       cells[salesColProductCode],
		Product:           cells[salesColProduct],
		ExpectedDelivery:  localefmt.ParseDate(cells[salesColExpectedDelivery]),
		PendingQuantity:   localefmt.ParseInteger(cells[salesColPendingQuantity]),
		Stock:             localefmt.ParseInteger(cells[salesColStock]),
		UnitPrice:         localefmt.ParseNumber(cells[salesColUnitPrice]),
		TaxPercent:        optionalNumber(cells[salesColTaxPercent]),
		TotalValue:        localefmt.ParseNumber(cells[salesColTotalValue]),
		StructureCost:     localefmt.ParseNumber(cells[salesColStructureCost]),
		Profitability:     localefmt.ParseNumber(cells[salesColProfitability]),
		ProfitabilityRate: localefmt.ParseNumber(cells[salesColProfitabilityRate]),
		PaymentTerms:      cells[salesColPaymentTerms],
	}, true
}

func mapProductionOrderRow(cells []string) (ProductionOrderRecord, bool) {
	if len(cells) < productionMinCells {
		return ProductionOrderRecord{}, false
	}
	return ProductionOrderRecord{
		Op:          cells[productionColOp],
		Customer:    cells[productionColCustomer],
		ProductCode: cells[productionColProductCode],
		Product:     cells[productionColProduct],
		CreatedAt:   localefmt.ParseDate(cells[productionColCreatedAt]),
		DueAt:       localefmt.ParseDate(cells[productionColDueAt]),
		Quantity:    localefmt.ParseInteger(cells[productionColQuantity]),
		Weight:      localefmt.ParseNumber(cells[productionColWeight]),
		Stage:       cells[productionColStage],
	}, true
}

func mapPendingMaterialRow(cells []string) (PendingMaterialRecord, bool) {
	if len(cells) < materialsMinCells {
		return PendingMaterialRecord{}, false
	}
	pending := cells[materialsColPendingQuantity]
	return PendingMaterialRecord{
		CreatedAt:          localefmt.ParseDate(cells[materialsColCreatedAt]),
		Service:            cells[materialsColService],
		MaterialCode:       cells[materialsColMaterialCode],
		Material:           cells[materialsColMaterial],
		Op:                 cells[materialsColOp],
		Product:            cells[materialsColProduct],
		SubProduct:         cells[materialsColSubProduct],
		OrderExpectedAt:    localefmt.ParseDate(cells[materialsColOrderExpectedAt]),
		RequiredQuantity:   localefmt.ParseNumber(localefmt.FirstToken(cells[materialsColRequiredQuantity])),
		PendingQuantity:    localefmt.ParseNumber(localefmt.FirstToken(pending)),
		Unit:               quantityUnit(pending),
		Status:             cells[materialsColStatus],
		MaterialExpectedAt: localefmt.ParseDate(cells[materialsColMaterialExpectedAt]),
	}, true
}

// mapRows applies mapRow to every row, skipping the ones it rejects. The result
// is never nil.
func mapRows[T any](rows [][]string, mapRow func([]string) (T, bool)) (records []T, skipped int) {
	records = make([]T, 0, len(rows))
	for _, cells := range rows {
		record, ok := mapRow(cells)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}
