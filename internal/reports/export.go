package reports

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "RelatorioVendas"

type exportColumn struct {
	header string
	value  func(r ConsolidatedRecord) any
	style  int
}

const (
	styleNone = iota
	styleCurrency
	styleInteger
	styleDate
	styleWrap
)

var exportColumns = []exportColumn{
	{header: "Cliente", value: func(r ConsolidatedRecord) any { return r.Customer }},
	{header: "Negociação", value: func(r ConsolidatedRecord) any { return r.Negotiation }},
	{header: "Pedido do Cliente", value: func(r ConsolidatedRecord) any { return r.CustomerOrder }},
	{header: "Ordem de Produção (OP)", value: func(r ConsolidatedRecord) any { return r.Op }},
	{header: "Tipo de Serviço", value: func(r ConsolidatedRecord) any { return r.ServiceType }},
	{header: "Nº do Projeto", value: func(r ConsolidatedRecord) any { return r.ProjectNumber }},
	{header: "Código do Produto", value: func(r ConsolidatedRecord) any { return r.ProductCode }},
	{header: "Descrição do Produto", value: func(r ConsolidatedRecord) any { return r.Product }},
	{
		header: "Previsão de Entrega",
		style:  styleDate,
		value: func(r ConsolidatedRecord) any {
			if r.ExpectedDelivery == nil {
				return nil
			}
			return r.ExpectedDelivery.In(time.UTC)
		},
	},
	{header: "Qtde. Pendente", style: styleInteger, value: func(r ConsolidatedRecord) any { return r.PendingQuantity }},
	{header: "Valor Unitário (R$)", style: styleCurrency, value: func(r ConsolidatedRecord) any { return r.UnitPrice }},
	{
		header: "IPI (%)",
		value: func(r ConsolidatedRecord) any {
			if r.TaxPercent == nil {
				return nil
			}
			return *r.TaxPercent
		},
	},
	{header: "Valor Total (R$)", style: styleCurrency, value: func(r ConsolidatedRecord) any { return r.TotalValue }},
	{header: "Etapa Atual", value: func(r ConsolidatedRecord) any { return r.Stage }},
	{
		header: "Materiais Pendentes",
		style:  styleWrap,
		value:  func(r ConsolidatedRecord) any { return FormatMaterials(r.PendingMaterials) },
	},
}

func newExportStyles(f *excelize.File) (map[int]int, error) {
	currency := "R$ #,##0.00"
	integer := "0"
	date := "dd/mm/yyyy"
	definitions := map[int]*excelize.Style{
		styleCurrency: {CustomNumFmt: &currency},
		styleInteger:  {CustomNumFmt: &integer},
		styleDate:     {CustomNumFmt: &date, Alignment: &excelize.Alignment{Horizontal: "left"}},
		styleWrap:     {Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}},
	}
	styles := make(map[int]int, len(definitions))
	for kind, def := range definitions {
		id, err := f.NewStyle(def)
		if err != nil {
			return nil, err
		}
		styles[kind] = id
	}
	return styles, nil
}

// columnWidth mirrors the autofit of the spreadsheet the report replaced:
// longest value plus padding, capped at 60 or 50 for wrapped columns.
func columnWidth(longest int, wrapped bool) float64 {
	width := longest + 2
	if width <= 60 {
		return float64(width)
	}
	if wrapped {
		return 50
	}
	return 60
}

// ExportXLSX renders records as an xlsx workbook with a single sheet. An empty
// record list produces a workbook with only the header row.
func ExportXLSX(records []ConsolidatedRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", exportSheet)
	if err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := newExportStyles(f)
	if err != nil {
		return nil, fmt.Errorf("create styles: %w", err)
	}

	longest := make([]int, len(exportColumns))
	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		err = f.SetCellValue(exportSheet, cell, col.header)
		if err != nil {
			return nil, err
		}
		longest[i] = utf8.RuneCountInString(col.header)
	}

	for rowIdx, record := range records {
		for colIdx, col := range exportColumns {
			value := col.value(record)
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			err = f.SetCellValue(exportSheet, cell, value)
			if err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
			if style, ok := styles[col.style]; ok {
				err = f.SetCellStyle(exportSheet, cell, cell, style)
				if err != nil {
					return nil, fmt.Errorf("style %s: %w", cell, err)
				}
			}
			longest[colIdx] = max(longest[colIdx], utf8.RuneCountInString(fmt.Sprint(value)))
		}
	}

	for i, col := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := columnWidth(longest[i], col.style == styleWrap)
		if col.style == styleDate {
			width = 12
		}
		err = f.SetColWidth(exportSheet, name, name, width)
		if err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
