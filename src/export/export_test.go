package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/comprasync/backend/src/monday"
	"github.com/xuri/excelize/v2"
)

func sampleBoardData() BoardData {
	board := monday.Board{ID: "8700483524", Name: "Compras CMH", State: "active"}
	columns := []monday.Column{
		{ID: "text_mksg6z6g", Title: "Moneda", Type: "text"},
		{ID: "numeric_mknkb26y", Title: "Importe", Type: "numbers"},
	}
	items := []monday.Item{
		{
			ID: "1", Name: "F-100", State: "active",
			CreatedAt: "2024-08-03", UpdatedAt: "2024-08-04",
			ColumnValues: []monday.ColumnValue{
				{ID: "text_mksg6z6g", Type: "text", Text: "MXN", Value: `"MXN"`},
				{ID: "numeric_mknkb26y", Type: "numbers", Text: "15000.75", Value: `"15000.75"`},
			},
		},
		{
			ID: "2", Name: "F-101", State: "active",
			CreatedAt: "2024-08-05", UpdatedAt: "2024-08-05",
			ColumnValues: []monday.ColumnValue{
				{ID: "text_mksg6z6g", Type: "text", Text: "USD", Value: `"USD"`},
				{ID: "unknown_col", Type: "text", Text: "x", Value: `"x"`},
			},
		},
	}
	return BuildBoardData(board, columns, items)
}

func TestBuildBoardData(t *testing.T) {
	data := sampleBoardData()

	assert.Equal(t, "Compras CMH", data.BoardInfo.Name)
	assert.Equal(t, map[string]string{
		"text_mksg6z6g":    "Moneda",
		"numeric_mknkb26y": "Importe",
	}, data.ColumnMapping)

	require.Len(t, data.Items, 2)
	assert.Equal(t, "MXN", data.Items[0].ColumnData["Moneda"].Text)
	assert.Equal(t, "15000.75", data.Items[0].ColumnData["Importe"].Text)

	// Cells without a column definition keep a synthetic title.
	assert.Equal(t, "x", data.Items[1].ColumnData["Columna_unknown_col"].Text)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBoardData()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"ID", "Nombre", "Estado", "Creado", "Actualizado",
		"Columna_unknown_col", "Importe", "Moneda"}, records[0])
	assert.Equal(t, []string{"1", "F-100", "active", "2024-08-03", "2024-08-04",
		"", "15000.75", "MXN"}, records[1])
	assert.Equal(t, "USD", records[2][7])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleBoardData()))

	var decoded struct {
		BoardInfo struct {
			Name string `json:"name"`
		} `json:"board_info"`
		ColumnMapping map[string]string `json:"column_mapping"`
		Items         []struct {
			Name       string `json:"name"`
			ColumnData map[string]struct {
				Text     string `json:"text"`
				RawValue string `json:"raw_value"`
			} `json:"column_data"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "Compras CMH", decoded.BoardInfo.Name)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, `"MXN"`, decoded.Items[0].ColumnData["Moneda"].RawValue)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.xlsx")
	require.NoError(t, WriteXLSX(path, sampleBoardData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	got, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", got)

	got, err = f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "F-100", got)
}
