package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golf_clubs.xlsx")
	clubs := sampleClubs()

	require.NoError(t, NewXLSXWriter(path).Write(context.Background(), clubs))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(clubs)+1)

	assert.Equal(t, Header, rows[0])
	for i, c := range clubs {
		row := rows[i+1]
		assert.Equal(t, c.Name, row[0])
		assert.Equal(t, c.URL, row[3])
		if c.Address != "" {
			assert.Equal(t, c.Address, row[4])
		}
	}

	latType, err := f.GetCellType(SheetName, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, latType, "latitude should be stored as a number")
}
