package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"backoffice/records"
)

type line struct {
	Name   string
	Qty    int
	Price  decimal.Decimal
	Placed records.Date
}

func lineFields() []records.Field[line] {
	return []records.Field[line]{
		records.TextField("name", "Name", func(l line) string { return l.Name }),
		records.IntField("qty", "Qty", func(l line) int { return l.Qty }),
		records.DecimalField("price", "Price", func(l line) decimal.Decimal { return l.Price }),
		records.DateField("placed", "Placed", func(l line) records.Date { return l.Placed }),
	}
}

func sampleLines() []line {
	return []line{
		{Name: "Pipe | 6in", Qty: 2, Price: decimal.RequireFromString("10.50"), Placed: records.NewDate(2024, 1, 2)},
		{Name: "<script>alert(1)</script>", Qty: 1, Price: decimal.NewFromInt(3)},
	}
}

func TestWorkbook(t *testing.T) {
	buf, err := Workbook("PO Items: Q1/2024", lineFields(), sampleLines())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "PO Items  Q1 2024", sheets[0])

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Qty", "Price", "Placed"}, rows[0])
	assert.Equal(t, "Pipe | 6in", rows[1][0])
	assert.Equal(t, "2024-01-02", rows[1][3])

	qty, err := f.GetCellValue(sheets[0], "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", qty)

	price, err := f.GetCellValue(sheets[0], "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10.5", price)

	cellType, err := f.GetCellType(sheets[0], "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType, "numbers must stay numeric")
}

func TestWorkbook_EmptyListingKeepsHeader(t *testing.T) {
	buf, err := Workbook("", lineFields(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Export"}, f.GetSheetList())
	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Export", sheetName("  "))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), maxSheetName)
	assert.Equal(t, "a b", sheetName("a*b"))
}

func TestPrintHTML(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	out, err := PrintHTML("Purchase <Items>", lineFields(), sampleLines(), at)
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Purchase &lt;Items&gt;</title>")
	assert.Contains(t, doc, "<table>")
	assert.Contains(t, doc, "<th>Name</th>")
	assert.Contains(t, doc, "<td>Pipe | 6in</td>")
	assert.Contains(t, doc, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "<td>10.50</td>")
	assert.Contains(t, doc, "2024-05-01 08:30 UTC")
	assert.Contains(t, doc, "2 record(s)")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\|b`, escapeMarkdown("a|b"))
	assert.Equal(t, `line one line two`, escapeMarkdown("line one\nline two"))
	assert.Equal(t, `\*bold\*`, escapeMarkdown("*bold*"))
}
