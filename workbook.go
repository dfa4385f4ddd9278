package factgrid

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet WriteWorkbook writes to.
const SheetName = "Report"

// WriteWorkbook writes a report to w as an xlsx workbook.
func WriteWorkbook(r *Report, w io.Writer, opts ...Option) error {
	return NewEngine(opts...).WriteWorkbook(r, w)
}

// WriteWorkbook writes a report to w as an xlsx workbook with one sheet:
// the title and rounding disclosure on top, a header row of column captions,
// one line per row and the footnotes below.
func (e *Engine) WriteWorkbook(r *Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	right, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	sw := sheetWriter{f: f, sheet: SheetName}
	line := 1
	sw.set(1, line, r.Title)
	sw.style(1, line, 1, bold)
	line++
	if r.RoundingDisclosure != "" {
		sw.set(1, line, r.RoundingDisclosure)
		line++
	}

	for j, c := range r.Columns {
		sw.set(j+2, line, c.Caption(e.opts.labelSeparator))
	}
	sw.style(1, line, len(r.Columns)+1, bold)
	line++

	for _, row := range r.Rows {
		sw.set(1, line, row.Caption(e.opts.labelSeparator)+footnoteMarks(row.Footnotes))
		if row.IsAbstractGroupTitle {
			sw.style(1, line, 1, bold)
		}
		for j, c := range row.Cells {
			if !c.HasData() {
				continue
			}
			sw.set(j+2, line, c.DisplayText()+footnoteMarks(c.Footnotes))
		}
		if len(row.Cells) > 0 {
			sw.styleRange(2, line, len(row.Cells)+1, line, right)
		}
		line++
	}

	if len(r.Footnotes) > 0 {
		line++
		for _, fn := range r.Footnotes {
			sw.set(1, line, fmt.Sprintf("[%d] %s", fn.ID, fn.Text))
			line++
		}
	}
	if sw.err != nil {
		return sw.err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func footnoteMarks(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, " [%d]", id)
	}
	return b.String()
}

// sheetWriter keeps the first error of a run of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (sw *sheetWriter) set(col, row int, value string) {
	if sw.err != nil || value == "" {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetCellValue(sw.sheet, cell, value); err != nil {
		sw.err = fmt.Errorf("set %s: %w", cell, err)
	}
}

func (sw *sheetWriter) style(col, row, lastCol, styleID int) {
	sw.styleRange(col, row, lastCol, row, styleID)
}

func (sw *sheetWriter) styleRange(col, row, lastCol, lastRow, styleID int) {
	if sw.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		sw.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(lastCol, lastRow)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetCellStyle(sw.sheet, from, to, styleID); err != nil {
		sw.err = fmt.Errorf("style %s:%s: %w", from, to, err)
	}
}
