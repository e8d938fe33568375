package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/witanlabs/xlsxwriter/internal"
)

// zipSignature opens every ZIP local file header, and so every xlsx file.
var zipSignature = []byte{0x50, 0x4b, 0x03, 0x04} // PK\x03\x04

// hasZipSignature reports whether the file starts with a ZIP local file header.
func hasZipSignature(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(buf, zipSignature), nil
}

// defaultWorkbookName is used when the output name cannot be derived from an input.
const defaultWorkbookName = "workbook"

// resolveOutputPath returns where build writes its archive. An empty output
// derives a name from the first input; "-" means stdout. A .xls name is
// corrected to .xlsx since the content is always OOXML, and a name with no
// extension gets .xlsx appended.
func resolveOutputPath(output, firstInput string) string {
	if output == "-" {
		return output
	}
	if output == "" {
		base := defaultWorkbookName
		if firstInput != "" && firstInput != "-" {
			name := filepath.Base(firstInput)
			name = strings.TrimSuffix(name, filepath.Ext(name))
			if clean := internal.SanitizeFilename(name); clean != "" {
				base = clean
			}
		}
		return base + ".xlsx"
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".xlsx":
		return output
	case ".xls":
		fixed := output + "x"
		fmt.Fprintf(os.Stderr, "note: %s would hold OOXML content, writing %s instead\n", filepath.Base(output), filepath.Base(fixed))
		return fixed
	case "":
		return output + ".xlsx"
	}
	return output
}

// verifyOOXML checks that a written file starts with the ZIP signature.
func verifyOOXML(filePath string) error {
	ok, err := hasZipSignature(filePath)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", filepath.Base(filePath), err)
	}
	if !ok {
		return fmt.Errorf("verifying %s: not an OOXML (ZIP) archive", filepath.Base(filePath))
	}
	return nil
}
