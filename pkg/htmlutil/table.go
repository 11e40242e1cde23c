package htmlutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrTableNotFound is returned when the document has no table with the requested id.
var ErrTableNotFound = errors.New("table not found")

// Table is the text content of an html table.
type Table struct {
	// Header holds the cells of the first row.
	Header []string
	// Rows holds the trimmed `td` text of every row after the header, up to
	// the first blank row.
	Rows [][]string
}

// ExtractTable reads the table identified by tableId out of an html document.
//
// The first `tr` is treated as the header. A row whose text is entirely whitespace
// marks the end of the data, no row after it is returned even if the table continues.
func ExtractTable(r io.Reader, tableId string) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("parse html: %w", err)
	}
	return ExtractTableFromDocument(doc, tableId)
}

// ExtractTableFromDocument is ExtractTable on an already parsed document.
func ExtractTableFromDocument(doc *goquery.Document, tableId string) (Table, error) {
	table := doc.Find(fmt.Sprintf(`table[id="%s"]`, tableId)).First()
	if table.Length() == 0 {
		return Table{}, fmt.Errorf("%w: #%s", ErrTableNotFound, tableId)
	}

	var out Table
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i == 0 {
			out.Header = cellTexts(tr.Find("th, td"))
			return true
		}
		if strings.TrimSpace(tr.Text()) == "" {
			return false
		}
		out.Rows = append(out.Rows, cellTexts(tr.Find("td")))
		return true
	})

	return out, nil
}

// ExtractRows is ExtractTable without the header.
func ExtractRows(r io.Reader, tableId string) ([][]string, error) {
	table, err := ExtractTable(r, tableId)
	if err != nil {
		return nil, err
	}
	return table.Rows, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	for _, n := range cells.Nodes {
		texts = append(texts, GetTrimmedText(n))
	}
	return texts
}
