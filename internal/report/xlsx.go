package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
)

const sheetName = "DR Filings"

// columnWidths matches Columns positionally.
var columnWidths = []float64{30, 12, 20, 30, 25, 15, 18, 18, 22, 18, 20, 15, 50, 40}

// stageFills are the row-band colors per stage: amber for initial
// filings, blue once effective, green once trading.
var stageFills = map[model.Stage]string{
	model.StageInitialFiling:   "FFF9C4",
	model.StageFilingEffective: "BBDEFB",
	model.StageTradingStarted:  "C8E6C9",
}

// WriteXLSX renders the table as a single-sheet workbook: styled frozen
// header row, fixed column widths, and stage-colored row bands.
func WriteXLSX(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return eris.Wrap(err, "xlsx: rename sheet")
	}

	if err := writeHeader(f); err != nil {
		return err
	}

	rowStyles, err := rowStyleIDs(f)
	if err != nil {
		return err
	}

	for i, row := range t.Rows {
		rowNum := i + 2
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetName, start, &row.Cells); err != nil {
			return eris.Wrapf(err, "xlsx: write row %d", rowNum)
		}
		if styleID, ok := rowStyles[row.Stage]; ok {
			end, _ := excelize.CoordinatesToCellName(len(Columns), rowNum)
			if err := f.SetCellStyle(sheetName, start, end, styleID); err != nil {
				return eris.Wrapf(err, "xlsx: style row %d", rowNum)
			}
		}
	}

	for i, width := range columnWidths {
		col, colErr := excelize.ColumnNumberToName(i + 1)
		if colErr != nil {
			return eris.Wrap(colErr, "xlsx: column name")
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return eris.Wrap(err, "xlsx: column width")
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return eris.Wrap(err, "xlsx: freeze header")
	}

	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	header := append([]string(nil), Columns...)
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return eris.Wrap(err, "xlsx: write header")
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1A3A5C"}},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return eris.Wrap(err, "xlsx: header style")
	}
	end, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", end, styleID); err != nil {
		return eris.Wrap(err, "xlsx: apply header style")
	}
	if err := f.SetRowHeight(sheetName, 1, 36); err != nil {
		return eris.Wrap(err, "xlsx: header height")
	}
	return nil
}

func rowStyleIDs(f *excelize.File) (map[model.Stage]int, error) {
	ids := make(map[model.Stage]int, len(stageFills))
	for stage, color := range stageFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, eris.Wrap(err, "xlsx: stage style")
		}
		ids[stage] = id
	}
	return ids, nil
}
