package xlsx_test

import (
	"bytes"
	"fmt"

	"github.com/witanlabs/xlsxwriter/xlsx"
)

func ExampleDocument_WriteSheet() {
	doc := xlsx.NewDocument(xlsx.Options{Author: "Finance"})
	defer doc.Close()

	sheet, err := doc.WriteSheet([][]xlsx.Value{
		xlsx.Row("region", "units", "total"),
		xlsx.Row("north", 12, "=B2*4.5"),
		xlsx.Row("south", "7", 31.5),
	}, "Sales", nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(sheet.Name(), sheet.RowCount(), doc.SharedStrings().DistinctCount())
	// Output: Sales 3 5
}

func ExampleSheet_WriteRow() {
	doc := xlsx.NewDocument(xlsx.DefaultOptions())
	defer doc.Close()

	sheet, _ := doc.CreateSheet("")
	sheet.WriteRow(xlsx.Text("id"), xlsx.Int(7), xlsx.Empty())
	sheet.SetColumnWidths([]float64{18})

	parts, _ := doc.Render()
	for _, p := range parts {
		fmt.Println(p.Name)
	}
	// Output:
	// docProps/app.xml
	// docProps/core.xml
	// _rels/.rels
	// xl/worksheets/sheet1.xml
	// xl/sharedStrings.xml
	// xl/workbook.xml
	// xl/styles.xml
	// [Content_Types].xml
	// xl/_rels/workbook.xml.rels
}
