package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoDocument = errors.New("no document")

type ExtractionError struct {
	Page string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Page, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func checkDocument(page string, doc *goquery.Document) error {
	if doc == nil || doc.Selection == nil || doc.Length() == 0 {
		return &ExtractionError{Page: page, Err: ErrNoDocument}
	}
	return nil
}

// Text returns the trimmed text of the first element matching selector, or "".
func Text(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func Cards(sel *goquery.Selection) *goquery.Selection {
	return sel.Find(".feature-card")
}

// FirstTable returns the rows of the first table inside sel.
func FirstTable(sel *goquery.Selection) *goquery.Selection {
	return sel.Find("table").First().Find("tr")
}

// TableCells returns the trimmed td texts of row i of the first table.
func TableCells(sel *goquery.Selection, i int) []string {
	row := FirstTable(sel).Eq(i)
	cells := make([]string, 0, 4)
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(td.Text()))
	})
	return cells
}

// Texts returns the trimmed texts of every element matching selector.
func Texts(sel *goquery.Selection, selector string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
