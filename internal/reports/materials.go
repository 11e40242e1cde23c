package reports

import (
	"fmt"
	"strconv"
	"strings"

	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/pkg/localefmt"
)

const materialSeparator = "; \n"

// FormatMaterials flattens a materials list into the display string used by
// the spreadsheet, one line per material.
func FormatMaterials(materials []cargamaquina.PendingMaterialRecord) string {
	lines := make([]string, len(materials))
	for i, m := range materials {
		lines[i] = fmt.Sprintf(
			"Cod.: %s | Qtde. Pendente: %s | STATUS: %s | PREV: %s",
			m.MaterialCode,
			strconv.FormatFloat(m.PendingQuantity, 'f', -1, 64),
			m.Status,
			localefmt.FormatOptionalDate(m.MaterialExpectedAt, StageUnknown),
		)
	}
	return strings.Join(lines, materialSeparator)
}
