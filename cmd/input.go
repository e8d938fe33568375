package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/witanlabs/xlsxwriter/xlsx"
)

// Input formats accepted by build.
const (
	formatCSV  = "csv"
	formatTSV  = "tsv"
	formatJSON = "json"
	formatYAML = "yaml"
)

// detectInputFormat maps a file extension to an input format. Stdin and
// unknown extensions fall back to CSV.
func detectInputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return formatTSV
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatCSV
}

// decodeReader wraps r so it yields UTF-8. A UTF-8 byte order mark is dropped.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q (valid: utf-8, latin1, windows-1252)", encoding)
}

// readOptions controls how an input is turned into rows.
type readOptions struct {
	format   string // empty means detect from the path
	encoding string
	infer    bool
}

// readInputFile opens path ("-" for stdin) and reads its rows.
func readInputFile(path string, opts readOptions) ([][]xlsx.Value, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if opts.format == "" {
		opts.format = detectInputFormat(path)
	}
	rows, err := readRows(r, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", displayName(path), err)
	}
	return rows, nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}

// readRows parses r according to opts.
func readRows(r io.Reader, opts readOptions) ([][]xlsx.Value, error) {
	r, err := decodeReader(r, opts.encoding)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case formatCSV:
		return readDelimited(r, ',', opts.infer)
	case formatTSV:
		return readDelimited(r, '\t', opts.infer)
	case formatJSON:
		return readJSON(r)
	case formatYAML:
		return readYAML(r)
	}
	return nil, fmt.Errorf("unsupported input format %q (valid: csv, tsv, json, yaml)", opts.format)
}

func readDelimited(r io.Reader, comma rune, infer bool) ([][]xlsx.Value, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	if comma == '\t' {
		cr.LazyQuotes = true
	}

	var rows [][]xlsx.Value
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make([]xlsx.Value, len(record))
		for i, field := range record {
			if infer {
				row[i] = parseField(field)
			} else {
				row[i] = xlsx.Text(field)
			}
		}
		rows = append(rows, row)
	}
}

// parseField interprets a delimited field.
// Number → bool → string. Numbers with a leading zero stay text.
func parseField(s string) xlsx.Value {
	if s == "" {
		return xlsx.Empty()
	}
	if hasLeadingZero(s) {
		return xlsx.Text(s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return xlsx.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && isDecimal(s) {
		return xlsx.Float(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return xlsx.Bool(true)
	case "false":
		return xlsx.Bool(false)
	}
	return xlsx.Text(s)
}

// isDecimal rejects the hex, underscore and Inf/NaN spellings ParseFloat accepts.
func isDecimal(s string) bool {
	return !strings.ContainsFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && !strings.ContainsRune("+-.eE", r)
	})
}

// hasLeadingZero reports whether s looks like "007" or "-01", an identifier
// that would lose its zeros as a number.
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

func readJSON(r io.Reader) ([][]xlsx.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return tableRows(v)
}

func readYAML(r io.Reader) ([][]xlsx.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return tableRows(v)
}

// tableRows accepts either a list of lists, one row each, or a list of
// objects. Objects produce a header row of their keys in sorted order and one
// row of values per object. Nested values become empty cells.
func tableRows(v any) ([][]xlsx.Value, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of rows or objects, got %T", v)
	}
	if len(list) == 0 {
		return nil, nil
	}
	if _, isObject := list[0].(map[string]any); isObject {
		return objectRows(list)
	}

	rows := make([][]xlsx.Value, 0, len(list))
	for i, item := range list {
		cells, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d: expected a list, got %T", i+1, item)
		}
		rows = append(rows, xlsx.Row(cells...))
	}
	return rows, nil
}

func objectRows(list []any) ([][]xlsx.Value, error) {
	seen := make(map[string]bool)
	var keys []string
	objects := make([]map[string]any, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d: expected an object, got %T", i+1, item)
		}
		objects[i] = obj
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	rows := make([][]xlsx.Value, 0, len(objects)+1)
	header := make([]xlsx.Value, len(keys))
	for i, k := range keys {
		header[i] = xlsx.Text(k)
	}
	rows = append(rows, header)
	for _, obj := range objects {
		row := make([]xlsx.Value, len(keys))
		for i, k := range keys {
			row[i] = xlsx.ValueOf(obj[k])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
