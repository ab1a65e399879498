package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_WritesSheetsInOrder(t *testing.T) {
	annual := 450.0
	data, err := Workbook([]Sheet{
		{
			Name:    "Inventory",
			Headers: []string{"Blood Group", "Available Units"},
			Rows:    [][]any{{"A+", 4}, {"O-", 0}},
		},
		{
			Name:    "Top Donors",
			Headers: []string{"Donor", "Annual Volume"},
			Rows:    [][]any{{"D00001", &annual}, {"D00002", (*float64)(nil)}},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory", "Top Donors"}, f.GetSheetList())

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Blood Group", "Available Units"}, {"A+", "4"}, {"O-", "0"}}, rows)

	rows, err = f.GetRows("Top Donors")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"D00001", "450"}, rows[1])
	assert.Equal(t, []string{"D00002"}, rows[2], "nil pointer becomes an empty cell")
}

func TestWorkbook_RequiresSheet(t *testing.T) {
	_, err := Workbook(nil)
	assert.Error(t, err)
}

func TestCellValue_Dates(t *testing.T) {
	d := pgtype.Date{Time: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Valid: true}
	assert.Equal(t, "2024-05-10", cellValue(d))
	assert.Nil(t, cellValue(pgtype.Date{}))
}
