package xlsx

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"
)

//go:embed parts/*.tmpl
var partsFS embed.FS

var partTemplates = template.Must(template.New("parts").Funcs(template.FuncMap{
	"xml":      EscapeXML,
	"preserve": needsSpacePreserve,
}).ParseFS(partsFS, "parts/*.tmpl"))

// Package part names.
const (
	partApp           = "docProps/app.xml"
	partCore          = "docProps/core.xml"
	partRootRels      = "_rels/.rels"
	partWorksheets    = "xl/worksheets/"
	partSharedStrings = "xl/sharedStrings.xml"
	partWorkbook      = "xl/workbook.xml"
	partStyles        = "xl/styles.xml"
	partContentTypes  = "[Content_Types].xml"
	partWorkbookRels  = "xl/_rels/workbook.xml.rels"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

// Content types.
const (
	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctCore          = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp           = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// appName is written to docProps/app.xml.
const appName = "xlsxwriter"

// Part is one named file of the package.
type Part struct {
	Name string
	Data []byte
}

type relationship struct {
	ID     string
	Type   string
	Target string
}

type contentOverride struct {
	Name        string
	ContentType string
}

type workbookSheet struct {
	Name    string
	SheetID int
	RelID   string
}

type sharedStringsData struct {
	Count       int
	UniqueCount int
	Values      []string
}

type coreData struct {
	Author  string
	Created string
}

type appData struct {
	Application string
}

type worksheetCol struct {
	Index int
	Width string
}

type worksheetData struct {
	Dimension string
	Selected  bool
	Cols      []worksheetCol
	Data      string
}

func relID(n int) string {
	return "rId" + strconv.Itoa(n)
}

// sheetRelID is the workbook relationship id of the sheet at index i; rId1
// belongs to the styles part.
func sheetRelID(i int) string {
	return relID(i + 2)
}

func executePart(name, tmpl string, data any) (Part, error) {
	var buf bytes.Buffer
	if err := partTemplates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return Part{}, &PackagingError{Part: name, Err: fmt.Errorf("rendering template %s: %w", tmpl, err)}
	}
	return Part{Name: name, Data: buf.Bytes()}, nil
}

func rootRelationships() []relationship {
	return []relationship{
		{ID: relID(1), Type: relOfficeDocument, Target: partWorkbook},
		{ID: relID(2), Type: relCoreProperties, Target: partCore},
		{ID: relID(3), Type: relExtProperties, Target: partApp},
	}
}

func workbookRelationships(sheets []*Sheet, withSharedStrings bool) []relationship {
	rels := make([]relationship, 0, len(sheets)+2)
	rels = append(rels, relationship{ID: relID(1), Type: relStyles, Target: "styles.xml"})
	for i, s := range sheets {
		rels = append(rels, relationship{ID: sheetRelID(i), Type: relWorksheet, Target: "worksheets/" + s.PartName()})
	}
	if withSharedStrings {
		rels = append(rels, relationship{ID: relID(len(sheets) + 2), Type: relSharedStrings, Target: "sharedStrings.xml"})
	}
	return rels
}

func contentOverrides(sheets []*Sheet, withSharedStrings bool) []contentOverride {
	out := make([]contentOverride, 0, len(sheets)+6)
	out = append(out, contentOverride{Name: partWorkbook, ContentType: ctWorkbook})
	for _, s := range sheets {
		out = append(out, contentOverride{Name: partWorksheets + s.PartName(), ContentType: ctWorksheet})
	}
	if withSharedStrings {
		out = append(out, contentOverride{Name: partSharedStrings, ContentType: ctSharedStrings})
	}
	return append(out,
		contentOverride{Name: partStyles, ContentType: ctStyles},
		contentOverride{Name: partCore, ContentType: ctCore},
		contentOverride{Name: partApp, ContentType: ctApp},
	)
}

func workbookSheets(sheets []*Sheet) []workbookSheet {
	out := make([]workbookSheet, len(sheets))
	for i, s := range sheets {
		out[i] = workbookSheet{Name: s.Name(), SheetID: i + 1, RelID: sheetRelID(i)}
	}
	return out
}
