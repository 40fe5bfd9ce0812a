package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel renders data as a single-sheet workbook and returns the file
// contents. Numeric cells stay numeric so totals can be recomputed in Excel.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheetTitle(data.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	ncols := len(data.Columns)
	if ncols == 0 {
		return nil, fmt.Errorf("export %q has no columns", data.Title)
	}
	lastCol, err := excelize.ColumnNumberToName(ncols)
	if err != nil {
		return nil, fmt.Errorf("column name: %w", err)
	}

	for i, c := range data.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, c.Width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	numFmt := "#,##0.00"
	numberStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	headerLine := func(row int, text string, style int) error {
		start, end := fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row)
		if ncols > 1 {
			if err := f.MergeCell(sheetName, start, end); err != nil {
				return fmt.Errorf("merge row %d: %w", row, err)
			}
		}
		f.SetCellValue(sheetName, start, sanitizeExcelCell(text))
		return f.SetCellStyle(sheetName, start, end, style)
	}

	if err := headerLine(1, data.Title, titleStyle); err != nil {
		return nil, err
	}
	if data.Subtitle != "" {
		if err := headerLine(2, data.Subtitle, subtitleStyle); err != nil {
			return nil, err
		}
	}
	if data.CreatedDate != "" {
		if err := headerLine(3, "Date: "+data.CreatedDate, subtitleStyle); err != nil {
			return nil, err
		}
	}

	// ── Row 5: Column Headers ───────────────────────────────────────────

	for i, c := range data.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheetName, cell, c.Header)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		for i := 0; i < ncols; i++ {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			var v any = ""
			if i < len(r) {
				v = r[i]
			}
			switch val := v.(type) {
			case string:
				f.SetCellValue(sheetName, cell, sanitizeExcelCell(val))
				f.SetCellStyle(sheetName, cell, cell, cellStyle)
			case float64:
				f.SetCellValue(sheetName, cell, val)
				style := cellStyle
				if data.Columns[i].Money {
					style = numberStyle
				}
				f.SetCellStyle(sheetName, cell, cell, style)
			default:
				f.SetCellValue(sheetName, cell, val)
				f.SetCellStyle(sheetName, cell, cell, cellStyle)
			}
		}
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	labelCol, valueCol := "A", "B"
	if ncols >= 2 {
		labelCol, _ = excelize.ColumnNumberToName(ncols - 1)
		valueCol = lastCol
	}
	for _, s := range data.Summary {
		label := fmt.Sprintf("%s%d", labelCol, row)
		value := fmt.Sprintf("%s%d", valueCol, row)
		f.SetCellValue(sheetName, label, s.Label+":")
		f.SetCellStyle(sheetName, label, label, summaryLabelStyle)
		f.SetCellValue(sheetName, value, s.Value)
		f.SetCellStyle(sheetName, value, value, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetTitle trims a title into a valid sheet name: at most 31 characters,
// none of : \ / ? * [ ].
func sheetTitle(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
