package cargamaquina

// The CM reports are rendered as positional html tables. Every column index the
// mappers read lives here, when CM changes a layout this is the only place to edit.

// reportTableId is the id every CM export table is rendered with.
const reportTableId = "tableExpo"

const (
	salesColCustomer = iota
	salesColNegotiation
	salesColServiceType
	salesColIssuedAt
	salesColCustomerOrder
	salesColOp
	salesColProjectNumber
	salesColProductCode
	salesColProduct
	salesColExpectedDelivery
	salesColPendingQuantity
	salesColStock
	salesColUnitPrice
	salesColTaxPercent
	salesColTotalValue
	salesColStructureCost
	salesColProfitability
	salesColProfitabilityRate
	salesColPaymentTerms

	salesMinCells
)

const (
	productionColOp = iota
	productionColCustomer
	productionColProductCode
	productionColProduct
	productionColCreatedAt
	productionColDueAt
	productionColQuantity
	productionColWeight
	productionColStage

	productionMinCells
)

const (
	materialsColCreatedAt = iota
	materialsColService
	materialsColMaterialCode
	materialsColMaterial
	materialsColOp
	materialsColProduct
	materialsColSubProduct
	materialsColOrderExpectedAt
	materialsColRequiredQuantity
	materialsColPendingQuantity
	materialsColStatus
	materialsColMaterialExpectedAt

	materialsMinCells
)

// headerLabels are the header texts the mappers rely on the most, they are
// compared against the scraped header to detect layout drift.
var (
	salesHeaderLabels = map[int]string{
		salesColCustomer:        "Cliente",
		salesColOp:              "OP",
		salesColPendingQuantity: "Qtde. Pendente",
	}
	productionHeaderLabels = map[int]string{
		productionColOp:    "OP",
		productionColStage: "Etapa",
	}
	materialsHeaderLabels = map[int]string{
		materialsColMaterial: "Material",
		materialsColOp:       "OP",
	}
)
