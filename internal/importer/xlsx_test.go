package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	err := f.Save(path)
	require.NoError(t, err)
	return path
}

func TestReadBusinesses_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Name", "Website"},
			{"Acme Plumbing", "https://acmeplumbing.com"},
			{"Bluebird Cafe", "bluebirdcafe.com"},
		},
	})

	businesses, err := ReadBusinesses(path, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, businesses, 2)
	assert.Equal(t, "Acme Plumbing", businesses[0].Name)
	assert.Equal(t, "https://acmeplumbing.com", businesses[0].URL)
	assert.Equal(t, "Bluebird Cafe", businesses[1].Name)
	assert.Equal(t, "bluebirdcafe.com", businesses[1].URL)
}

func TestReadBusinesses_SkipsEmptyNames(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Acme Plumbing", "acmeplumbing.com"},
			{"", "orphan.com"},
			{"  ", ""},
			{"Bluebird Cafe", ""},
		},
	})

	businesses, err := ReadBusinesses(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, businesses, 2)
	assert.Equal(t, "Acme Plumbing", businesses[0].Name)
	assert.Equal(t, "Bluebird Cafe", businesses[1].Name)
	assert.Empty(t, businesses[1].URL)
}

func TestReadBusinesses_CustomColumns(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"id-1", "acme.com", "Acme Plumbing"},
		},
	})

	businesses, err := ReadBusinesses(path, XLSXOptions{NameCol: 2, URLCol: 1})
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Acme Plumbing", businesses[0].Name)
	assert.Equal(t, "acme.com", businesses[0].URL)
}

func TestReadBusinesses_SheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"First": {{"Wrong Co", "wrong.com"}},
		"Leads": {{"Right Co", "right.com"}},
	})

	businesses, err := ReadBusinesses(path, XLSXOptions{SheetName: "Leads"})
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Right Co", businesses[0].Name)
}

func TestReadBusinesses_SheetNameNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"a", "b"}},
	})

	_, err := ReadBusinesses(path, XLSXOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadBusinesses_SheetIndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"a", "b"}},
	})

	_, err := ReadBusinesses(path, XLSXOptions{SheetIndex: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadBusinesses_OpenMissingFile(t *testing.T) {
	_, err := ReadBusinesses(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
}
