package factgrid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	base := statementForRounding(t)
	base.Footnotes = []Footnote{{ID: 1, Text: "Restated"}}
	base.Rows[0].Cells[0].Footnotes = []int{1}

	engine := NewEngine()
	out, err := engine.Render(base, []AxisIterator{ElementIterator()}, []AxisIterator{PeriodIterator()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, engine.WriteWorkbook(out, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	get := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Operations", get("A1"))
	assert.Equal(t, "in thousands, except share and per-share amounts", get("A2"))
	assert.Equal(t, "12 Months Ended Dec. 31, 2024", get("B3"))
	assert.Equal(t, "12 Months Ended Dec. 31, 2023", get("C3"))
	assert.Equal(t, "Revenues", get("A4"))
	assert.Equal(t, "1,250 [1]", get("B4"))
	assert.Equal(t, "(12)", get("C5"))
	assert.Equal(t, "[1] Restated", get("A9"))
}

func TestWriteWorkbook_GroupTitlesAreBold(t *testing.T) {
	engine := NewEngine(WithDefaultMember("Geography", "AllRegions", "All regions"))
	out, err := engine.Render(geographyBase(t),
		[]AxisIterator{AxisOf("Geography").WithStyle(StyleGrouped), ElementIterator()},
		[]AxisIterator{PeriodIterator().WithFilter(fy24.Key())})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(out, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Europe", title)

	styleID, err := f.GetCellStyle(SheetName, "A3")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
