package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "esgmap/internal/errors"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestMSCI_LoadSingleWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESG Ratings Timeseries 2019.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"ISSUERID", "ISSUER_NAME", "ISSUER_TICKER", "ISSUER_CUSIP", "ISSUER_ISIN", "AS_OF_DATE"},
		{"IID000000002128", "Apple Inc", "aapl", "037833100", "US0378331005", "20190630"},
		{"IID000000002129", "HSBC Holdings", "HSBA", "", "GB0005405286", ""},
		{"", "No Issuer", "", "", "", "20190630"},
	})

	records, err := NewMSCI(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	apple := records[0]
	assert.Equal(t, "IID000000002128", apple.ProviderEntityID)
	assert.Equal(t, 2019, apple.Year)
	assert.Equal(t, "AAPL", apple.Ticker)
	assert.Equal(t, "037833", apple.CUSIP6)
	assert.Equal(t, "037833", apple.ISINCUSIP6)

	// No date cell: the filename year fills in.
	hsbc := records[1]
	assert.Equal(t, 2019, hsbc.Year)
	assert.Equal(t, "", hsbc.ISINCUSIP6)
}

func TestMSCI_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "ESG Ratings Timeseries 2018.xlsx"), [][]interface{}{
		{"ISSUERID", "YEAR"},
		{"IID1", "2018"},
	})
	writeWorkbook(t, filepath.Join(dir, "ESG Ratings Timeseries 2019.xlsx"), [][]interface{}{
		{"ISSUERID", "YEAR"},
		{"IID2", "2019"},
	})
	// Not matching the delivery pattern; ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))

	records, err := NewMSCI(nil).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "IID1", records[0].ProviderEntityID)
	assert.Equal(t, 2018, records[0].Year)
	assert.Equal(t, "IID2", records[1].ProviderEntityID)
}

func TestMSCI_EmptyDirectoryIsFatal(t *testing.T) {
	_, err := NewMSCI(nil).Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestYearFromFilename(t *testing.T) {
	assert.Equal(t, 2019, yearFromFilename("ESG Ratings Timeseries 2019.xlsx"))
	assert.Equal(t, 0, yearFromFilename("ratings.xlsx"))
}
