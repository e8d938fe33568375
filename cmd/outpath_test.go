package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasZipSignature(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"ZIP local file header", []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, true},
		{"OLE2 compound document", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, false},
		{"ZIP end of central directory only", []byte{0x50, 0x4b, 0x05, 0x06}, false},
		{"too short", []byte{0x50, 0x4b}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := filepath.Join(t.TempDir(), "test.bin")
			if err := os.WriteFile(f, tt.header, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := hasZipSignature(f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("hasZipSignature = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		firstInput string
		want       string
	}{
		{"stdout", "-", "data.csv", "-"},
		{"explicit xlsx", "out/report.xlsx", "data.csv", "out/report.xlsx"},
		{"upper case extension kept", "REPORT.XLSX", "data.csv", "REPORT.XLSX"},
		{"xls corrected", "budget.xls", "data.csv", "budget.xlsx"},
		{"no extension", "report", "data.csv", "report.xlsx"},
		{"other extension kept", "report.bin", "data.csv", "report.bin"},
		{"derived from input", "", "in/sales 2024.csv", "sales 2024.xlsx"},
		{"derived name sanitized", "", "a*b?c.json", "abc.xlsx"},
		{"stdin input", "", "-", "workbook.xlsx"},
		{"nothing left after sanitizing", "", "???.csv", "workbook.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveOutputPath(tt.output, tt.firstInput); got != tt.want {
				t.Errorf("resolveOutputPath(%q, %q) = %q, want %q", tt.output, tt.firstInput, got, tt.want)
			}
		})
	}
}

func TestVerifyOOXML(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.xlsx")
	if err := os.WriteFile(good, []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyOOXML(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyOOXML(bad); err == nil {
		t.Error("expected error for OLE2 content")
	}

	if err := verifyOOXML(filepath.Join(dir, "missing.xlsx")); err == nil {
		t.Error("expected error for a missing file")
	}
}
