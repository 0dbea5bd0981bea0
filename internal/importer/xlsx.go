package importer

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// XLSXOptions configures the XLSX business reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
	NameCol    int    // column holding the business name (default 0)
	URLCol     int    // column holding the website URL (default 1)
}

// ReadBusinesses reads an XLSX file and returns one business per row.
// Rows with an empty name cell are skipped.
func ReadBusinesses(path string, opts XLSXOptions) ([]model.Business, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	if opts.URLCol == 0 && opts.NameCol == 0 {
		opts.URLCol = 1
	}

	var businesses []model.Business
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}

		name := cellString(row, opts.NameCol)
		if name == "" {
			continue
		}

		businesses = append(businesses, model.Business{
			Name: name,
			URL:  cellString(row, opts.URLCol),
		})
	}

	return businesses, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("importer: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("importer: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func cellString(row *xlsx.Row, col int) string {
	if col < 0 || col >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[col].String())
}
