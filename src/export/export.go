package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/username/comprasync/backend/src/monday"
	"github.com/xuri/excelize/v2"
)

// BoardData is a board snapshot with cell values keyed by column title
// instead of column id, ready for export.
type BoardData struct {
	BoardInfo     monday.Board      `json:"board_info"`
	Columns       []monday.Column   `json:"columns"`
	ColumnMapping map[string]string `json:"column_mapping"`
	Items         []ItemData        `json:"items"`
}

// ItemData is one board row with its cells resolved to column titles.
type ItemData struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	State      string              `json:"state"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
	ColumnData map[string]CellData `json:"column_data"`
}

// CellData is a single resolved cell.
type CellData struct {
	ColumnID string `json:"column_id"`
	Type     string `json:"type"`
	Text     string `json:"text"`
	RawValue string `json:"raw_value"`
}

// BuildBoardData joins a board's column definitions with its items. Cells
// whose column id has no definition keep a synthetic "Columna_<id>" title.
func BuildBoardData(board monday.Board, columns []monday.Column, items []monday.Item) BoardData {
	mapping := make(map[string]string, len(columns))
	for _, col := range columns {
		mapping[col.ID] = col.Title
	}

	data := BoardData{
		BoardInfo:     board,
		Columns:       columns,
		ColumnMapping: mapping,
		Items:         make([]ItemData, 0, len(items)),
	}

	for _, item := range items {
		formatted := ItemData{
			ID:         item.ID,
			Name:       item.Name,
			State:      item.State,
			CreatedAt:  item.CreatedAt,
			UpdatedAt:  item.UpdatedAt,
			ColumnData: make(map[string]CellData, len(item.ColumnValues)),
		}
		for _, cv := range item.ColumnValues {
			title, ok := mapping[cv.ID]
			if !ok {
				title = fmt.Sprintf("Columna_%s", cv.ID)
			}
			formatted.ColumnData[title] = CellData{
				ColumnID: cv.ID,
				Type:     cv.Type,
				Text:     cv.Text,
				RawValue: cv.Value,
			}
		}
		data.Items = append(data.Items, formatted)
	}
	return data
}

// baseHeaders are the fixed leading export columns; the board's own columns
// follow in sorted order.
var baseHeaders = []string{"ID", "Nombre", "Estado", "Creado", "Actualizado"}

// columnTitles returns the sorted union of column titles across all items.
func (d BoardData) columnTitles() []string {
	seen := make(map[string]bool)
	for _, item := range d.Items {
		for title := range item.ColumnData {
			seen[title] = true
		}
	}
	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

func (d BoardData) rows() ([]string, [][]string) {
	titles := d.columnTitles()
	headers := append(append([]string{}, baseHeaders...), titles...)

	rows := make([][]string, 0, len(d.Items))
	for _, item := range d.Items {
		row := []string{item.ID, item.Name, item.State, item.CreatedAt, item.UpdatedAt}
		for _, title := range titles {
			row = append(row, item.ColumnData[title].Text)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// WriteCSV writes the board snapshot as CSV.
func WriteCSV(w io.Writer, data BoardData) error {
	headers, rows := data.rows()

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full board snapshot, raw cell values included.
func WriteJSON(w io.Writer, data BoardData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteXLSX writes the board snapshot as a single-sheet workbook.
func WriteXLSX(path string, data BoardData) error {
	headers, rows := data.rows()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
