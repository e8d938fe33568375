/*
Package xlsx writes spreadsheet documents in the OOXML xlsx package format.

A Document owns its sheets and a document-wide shared string table. Rows are
pushed into a Sheet, which infers a cell type for every value and appends the
cell XML to an in-memory buffer. Render turns the document into the set of
XML parts an xlsx package needs; WriteTo, WriteToFile and WriteToStdOut
assemble those parts into a ZIP archive.

Cell types are inferred from the Value variant:
  - Empty values and empty text become a placeholder cell with no content.
  - Text starting with "=" is written as a formula. The cell carries t="s"
    for compatibility with the readers this format was first produced for.
  - Booleans, integers and floats are numeric cells.
  - Text holding a plain positive integer that fits in 32 bits, without a
    leading zero or sign, is a numeric cell.
  - All other text goes through the shared string table.

A Document is not safe for concurrent use. Temporary files created by
WriteToStdOut are removed by Close:

	doc := xlsx.NewDocument(xlsx.DefaultOptions())
	defer doc.Close()
	sheet, _ := doc.CreateSheet("Report")
	sheet.WriteRow(xlsx.Text("name"), xlsx.Text("total"))
	sheet.WriteRow(xlsx.Text("north"), xlsx.Int(42))
	if err := doc.WriteToFile("report.xlsx"); err != nil {
		// handle error
	}
*/
package xlsx // import "github.com/witanlabs/xlsxwriter/xlsx"
