package reports

import (
	"cmreports/internal/scrapers/cargamaquina"

	"cloud.google.com/go/civil"
)

// StageUnknown is the stage of a sales line without a production order.
const StageUnknown = "N/A"

// ConsolidatedRecord is a sales line enriched with the stage of its production
// order and the materials still pending for it.
type ConsolidatedRecord struct {
	Customer         string                               `json:"cliente"`
	Negotiation      string                               `json:"negociacao"`
	CustomerOrder    string                               `json:"pedido_cliente"`
	Op               string                               `json:"op"`
	ServiceType      string                               `json:"tipo_servico"`
	ProjectNumber    string                               `json:"numero_projeto"`
	ProductCode      string                               `json:"codigo"`
	Product          string                               `json:"produto"`
	ExpectedDelivery *civil.Date                          `json:"previsao"`
	PendingQuantity  int                                  `json:"qtde_pendente"`
	UnitPrice        float64                              `json:"valor_unitario"`
	TaxPercent       *float64                             `json:"ipi"`
	TotalValue       float64                              `json:"valor_total"`
	Stage            string                               `json:"etapa"`
	PendingMaterials []cargamaquina.PendingMaterialRecord `json:"materiais_pendentes"`
}

// Combine left joins sales with orders and materials on the production order
// (op). The output has exactly one record per sales line, in the same order.
// When an op repeats in orders the last one wins, materials keep their input
// order. The inputs are not modified.
func Combine(
	sales []cargamaquina.SalesRecord,
	orders []cargamaquina.ProductionOrderRecord,
	materials []cargamaquina.PendingMaterialRecord,
) []ConsolidatedRecord {
	stages := make(map[string]string, len(orders))
	for _, order := range orders {
		stages[order.Op] = order.Stage
	}
	pending := make(map[string][]cargamaquina.PendingMaterialRecord)
	for _, material := range materials {
		pending[material.Op] = append(pending[material.Op], material)
	}

	out := make([]ConsolidatedRecord, 0, len(sales))
	for _, sale := range sales {
		stage, ok := stages[sale.Op]
		if !ok {
			stage = StageUnknown
		}
		group := pending[sale.Op]
		linked := make([]cargamaquina.PendingMaterialRecord, len(group))
		copy(linked, group)

		out = append(out, ConsolidatedRecord{
			Customer:         sale.Customer,
			Negotiation:      sale.Negotiation,
			CustomerOrder:    sale.CustomerOrder,
			Op:               sale.Op,
			ServiceType:      sale.ServiceType,
			ProjectNumber:    sale.ProjectNumber,
			ProductCode:      sale.ProductCode,
			Product:          sale.Product,
			ExpectedDelivery: sale.ExpectedDelivery,
			PendingQuantity:  sale.PendingQuantity,
			UnitPrice:        sale.UnitPrice,
			TaxPercent:       sale.TaxPercent,
			TotalValue:       sale.TotalValue,
			Stage:            stage,
			PendingMaterials: linked,
		})
	}
	return out
}
