// Package importer reads catalog spreadsheets.
package importer

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/whpcodes/catalog-service/internal/models"
)

// Column order of an import sheet; the first row is a header.
const (
	colName = iota
	colDescription
	colPrice
	colCategory
	colAffiliateLink
	colWebsite

	headerRowIndex = 1
	maxNameLength  = 200
)

// Header is the expected header row.
var Header = []string{"name", "description", "price", "category", "affiliate_link", "website"}

// Row is one parsed spreadsheet row.
type Row struct {
	Row           int
	Name          string
	Description   string
	Price         string
	Category      string
	AffiliateLink string
	Website       string
}

// ImportError is a validation failure for one row.
type ImportError struct {
	Row   int    `json:"row"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// Input converts r to a create payload. Blank cells become nil.
func (r Row) Input() models.WhopInput {
	return models.WhopInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   models.StringPtr(r.Description),
		Category:      models.StringPtr(r.Category),
		Price:         models.StringPtr(r.Price),
		AffiliateLink: models.StringPtr(r.AffiliateLink),
		Website:       models.StringPtr(r.Website),
	}
}

// ValidateRow returns an error message for row, or "".
func ValidateRow(row Row) string {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return "name is required"
	}
	if len(name) > maxNameLength {
		return fmt.Sprintf("name must be at most %d characters", maxNameLength)
	}
	if msg := validateURL("affiliate_link", row.AffiliateLink); msg != "" {
		return msg
	}
	return validateURL("website", row.Website)
}

func validateURL(field, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return field + " must be an http(s) URL"
	}
	return ""
}

// ParseWorkbook reads sheet from an xlsx stream. Valid rows and per-row
// errors are returned together; only an unreadable workbook is an error.
func ParseWorkbook(r io.Reader, sheet string) ([]Row, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return nil, nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var (
		parsed []Row
		errs   []ImportError
	)
	for i, cells := range rows {
		rowNum := i + 1
		if rowNum == headerRowIndex || blank(cells) {
			continue
		}
		row := Row{
			Row:           rowNum,
			Name:          cell(cells, colName),
			Description:   cell(cells, colDescription),
			Price:         cell(cells, colPrice),
			Category:      cell(cells, colCategory),
			AffiliateLink: cell(cells, colAffiliateLink),
			Website:       cell(cells, colWebsite),
		}
		if msg := ValidateRow(row); msg != "" {
			errs = append(errs, ImportError{Row: rowNum, Name: strings.TrimSpace(row.Name), Error: msg})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, errs, nil
}

// resolveSheet falls back to the only sheet of a single-sheet workbook.
func resolveSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	if name == "" || len(sheets) == 1 {
		return f.GetSheetName(0), nil
	}
	return "", fmt.Errorf("sheet %q not found", name)
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
