package cargamaquina

import (
	"cloud.google.com/go/civil"
)

// DateRange is the inclusive window the date filtered reports are queried with.
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

// SalesRecord is one line of the sales backlog ("pedidos pendentes") report.
type SalesRecord struct {
	Customer          string      `json:"cliente"`
	Negotiation       string      `json:"negociacao"`
	ServiceType       string      `json:"tipo_servico"`
	IssuedAt          *civil.Date `json:"emissao_pv"`
	CustomerOrder     string      `json:"pedido_cliente"`
	Op                string      `json:"op"`
	ProjectNumber     string      `json:"numero_projeto"`
	ProductCode       string      `json:"codigo"`
	Product           string      `json:"produto"`
	ExpectedDelivery  *civil.Date `json:"previsao"`
	PendingQuantity   int         `json:"qtde_pendente"`
	Stock             int         `json:"estoque"`
	UnitPrice         float64     `json:"valor_unitario"`
	TaxPercent        *float64    `json:"ipi"`
	TotalValue        float64     `json:"valor_total"`
	StructureCost     float64     `json:"custo_estrutura"`
	Profitability     float64     `json:"lucratividade_rs"`
	ProfitabilityRate float64     `json:"lucratividade_percentual"`
	PaymentTerms      string      `json:"condicao_pagamento"`
}

// ProductionOrderRecord is one line of the production backlog report, Op is
// expected to be unique within a fetch.
type ProductionOrderRecord struct {
	Op          string      `json:"op"`
	Customer    string      `json:"cliente"`
	ProductCode string      `json:"codigo"`
	Product     string      `json:"produto"`
	CreatedAt   *civil.Date `json:"criacao"`
	DueAt       *civil.Date `json:"prazo"`
	Quantity    int         `json:"quantidade"`
	Weight      float64     `json:"peso"`
	Stage       string      `json:"etapa"`
}

// PendingMaterialRecord is one line of the pending materials report, many
// materials usually share the same Op.
type PendingMaterialRecord struct {
	CreatedAt          *civil.Date `json:"criacao"`
	Service            string      `json:"servico"`
	MaterialCode       string      `json:"codigo"`
	Material           string      `json:"material"`
	Op                 string      `json:"op"`
	Product            string      `json:"produto"`
	SubProduct         string      `json:"sub_produto"`
	OrderExpectedAt    *civil.Date `json:"previsao_op"`
	RequiredQuantity   float64     `json:"quantidade"`
	PendingQuantity    float64     `json:"pendente"`
	Unit               string      `json:"unidade"`
	Status             string      `json:"situacao"`
	MaterialExpectedAt *civil.Date `json:"previsao_mp"`
}
