package xlsx

import (
	"bytes"
	"strconv"

	"github.com/witanlabs/xlsxwriter/internal"
)

// Sheet accumulates the rows of one worksheet. Rows are append-only.
type Sheet struct {
	doc      *Document // owner; a Sheet never outlives it
	name     string
	partName string
	index    int

	rows    int
	columns []string // style id per column, fixed by the first row
	fixed   bool
	maxCols int
	widths  []float64
	data    bytes.Buffer
}

func newSheet(doc *Document, name string, index int) *Sheet {
	return &Sheet{
		doc:      doc,
		name:     name,
		partName: "sheet" + strconv.Itoa(index+1) + ".xml",
		index:    index,
	}
}

// Name is the display name shown on the sheet tab.
func (s *Sheet) Name() string { return s.name }

// PartName is the worksheet file name inside xl/worksheets/, e.g. "sheet1.xml".
func (s *Sheet) PartName() string { return s.partName }

// RowCount is the number of WriteRow calls so far.
func (s *Sheet) RowCount() int { return s.rows }

// ColumnCount is the width of the widest row written so far.
func (s *Sheet) ColumnCount() int { return s.maxCols }

// SetColumnWidths sets the width of the first len(widths) columns.
func (s *Sheet) SetColumnWidths(widths []float64) {
	s.widths = append([]float64(nil), widths...)
}

// HasColumnWidths reports whether SetColumnWidths was given any widths.
func (s *Sheet) HasColumnWidths() bool { return len(s.widths) > 0 }

// WriteRowAny writes a row of Go scalars, converted with ValueOf.
func (s *Sheet) WriteRowAny(values ...any) {
	s.WriteRow(Row(values...)...)
}

// WriteRow appends one row. Rows may differ in length; cells past the
// first row's width get the document default style.
func (s *Sheet) WriteRow(values ...Value) {
	if !s.fixed {
		s.columns = make([]string, len(values))
		for i := range s.columns {
			s.columns[i] = s.doc.defaultStyle
		}
		s.fixed = true
	}

	s.data.WriteString(`<row r="`)
	s.data.WriteString(strconv.Itoa(s.rows + 1))
	s.data.WriteString(`">`)
	for col, v := range values {
		s.writeCell(col, v)
	}
	s.data.WriteString("</row>")

	if len(values) > s.maxCols {
		s.maxCols = len(values)
	}
	s.rows++
}

func (s *Sheet) styleFor(col int) string {
	if col < len(s.columns) {
		return s.columns[col]
	}
	return s.doc.defaultStyle
}

func (s *Sheet) writeCell(col int, v Value) {
	buf := &s.data
	buf.WriteString(`<c r="`)
	buf.WriteString(internal.CellLabel(s.rows, col))
	buf.WriteString(`" s="`)
	buf.WriteString(s.styleFor(col))
	buf.WriteByte('"')

	switch v.kind {
	case KindText:
		switch {
		case v.s == "":
			buf.WriteString("/>")
		case v.s[0] == '=':
			// Formulas keep t="s"; some older readers expect it.
			buf.WriteString(` t="s"><f>`)
			buf.WriteString(EscapeXML(v.s))
			buf.WriteString("</f></c>")
		case isPlainInteger(v.s):
			writeNumber(buf, v.s)
		default:
			idx := s.doc.InternSharedString(v.s)
			buf.WriteString(` t="s"><v>`)
			buf.WriteString(strconv.Itoa(idx))
			buf.WriteString("</v></c>")
		}
	case KindBool, KindInt, KindFloat:
		lit, ok := v.numberLiteral()
		if !ok {
			buf.WriteString("/>")
			return
		}
		writeNumber(buf, lit)
	default:
		buf.WriteString("/>")
	}
}

func writeNumber(buf *bytes.Buffer, lit string) {
	buf.WriteString(` t="n"><v>`)
	buf.WriteString(lit)
	buf.WriteString("</v></c>")
}

// BuildXML renders the complete worksheet part. The dimension reflects the
// rows written so far, so call it after the last WriteRow.
func (s *Sheet) BuildXML() ([]byte, error) {
	data := worksheetData{
		Dimension: internal.FormatRange(s.rows, s.maxCols),
		Selected:  s.index == 0,
		Data:      s.data.String(),
	}
	for i, w := range s.widths {
		data.Cols = append(data.Cols, worksheetCol{
			Index: i + 1,
			Width: strconv.FormatFloat(w, 'f', -1, 64),
		})
	}
	p, err := executePart(partWorksheets+s.partName, "worksheet.xml.tmpl", data)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}
