package reports

import (
	"fmt"
	"io"

	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/pkg/localefmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Format is an output format understood by Render.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

func ParseFormat(text string) (Format, error) {
	switch Format(text) {
	case FormatTable, FormatCSV:
		return Format(text), nil
	}
	return "", fmt.Errorf("unknown format %q", text)
}

// Tabular is a header and the rows under it.
type Tabular struct {
	Header table.Row
	Rows   []table.Row
}

// Render writes t to w as a rounded table or as csv.
func Render(w io.Writer, format Format, t Tabular) {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(t.Header)
	writer.AppendRows(t.Rows)

	switch format {
	case FormatCSV:
		writer.RenderCSV()
	default:
		writer.Render()
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func SalesTable(records []cargamaquina.SalesRecord) Tabular {
	t := Tabular{Header: table.Row{"Cliente", "OP", "Produto", "Emissão", "Previsão", "Qtde. Pendente", "Valor Unitário", "Valor Total"}}
	for _, r := range records {
		t.Rows = append(t.Rows, table.Row{
			r.Customer,
			r.Op,
			r.Product,
			localefmt.FormatOptionalDate(r.IssuedAt, ""),
			localefmt.FormatOptionalDate(r.ExpectedDelivery, ""),
			r.PendingQuantity,
			money(r.UnitPrice),
			money(r.TotalValue),
		})
	}
	return t
}

func ProductionOrdersTable(records []cargamaquina.ProductionOrderRecord) Tabular {
	t := Tabular{Header: table.Row{"OP", "Cliente", "Produto", "Criação", "Prazo", "Quantidade", "Peso", "Etapa"}}
	for _, r := range records {
		t.Rows = append(t.Rows, table.Row{
			r.Op,
			r.Customer,
			r.Product,
			localefmt.FormatOptionalDate(r.CreatedAt, ""),
			localefmt.FormatOptionalDate(r.DueAt, ""),
			r.Quantity,
			r.Weight,
			r.Stage,
		})
	}
	return t
}

func PendingMaterialsTable(records []cargamaquina.PendingMaterialRecord) Tabular {
	t := Tabular{Header: table.Row{"OP", "Código", "Material", "Pendente", "Unidade", "Situação", "Previsão MP"}}
	for _, r := range records {
		t.Rows = append(t.Rows, table.Row{
			r.Op,
			r.MaterialCode,
			r.Material,
			r.PendingQuantity,
			r.Unit,
			r.Status,
			localefmt.FormatOptionalDate(r.MaterialExpectedAt, StageUnknown),
		})
	}
	return t
}

func ConsolidatedTable(records []ConsolidatedRecord) Tabular {
	t := Tabular{Header: table.Row{"Cliente", "OP", "Produto", "Previsão", "Qtde. Pendente", "Valor Total", "Etapa", "Materiais Pendentes"}}
	for _, r := range records {
		t.Rows = append(t.Rows, table.Row{
			r.Customer,
			r.Op,
			r.Product,
			localefmt.FormatOptionalDate(r.ExpectedDelivery, ""),
			r.PendingQuantity,
			money(r.TotalValue),
			r.Stage,
			FormatMaterials(r.PendingMaterials),
		})
	}
	return t
}
