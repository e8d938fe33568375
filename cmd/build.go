package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/witanlabs/xlsxwriter/config"
	"github.com/witanlabs/xlsxwriter/xlsx"
)

var (
	buildOutput     string
	buildSheetNames []string
	buildWidths     []float64
	buildEncoding   string
	buildFormat     string
	buildInfer      bool
	buildJSON       bool
)

var buildCmd = &cobra.Command{
	Use:   "build [input ...] [flags]",
	Short: "Build an xlsx workbook from CSV, TSV, JSON or YAML",
	Long: `Build one workbook with one sheet per input file.

Inputs:
  .csv        comma separated (also the fallback for unknown extensions)
  .tsv .tab   tab separated
  .json       a list of rows ([[...], ...]) or a list of objects
  .yaml .yml  same shapes as JSON
  -           CSV read from stdin (override with --format)

Lists of objects get a header row of their keys in sorted order.

Cell types follow the writer's rules: numbers and booleans are numeric
cells, text starting with "=" is a formula, plain positive integers in text
become numbers, and everything else is a shared string. Delimited fields are
text unless --infer is set, which parses numbers and true/false.

Sheet names default to the input file name without its extension. With no
--output the workbook is named after the first input; "-o -" streams the
archive to stdout. A .xls output name is corrected to .xlsx.

Examples:
  xlsxwriter build sales.csv
  xlsxwriter build sales.csv costs.tsv -o report.xlsx --sheet Sales --sheet Costs
  xlsxwriter build data.json --widths 24,12,12 --author "Finance"
  cat legacy.csv | xlsxwriter build - --encoding windows-1252 -o - > out.xlsx`,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd.Flags())
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&buildOutput, "output", "o", "", `Output path ("-" for stdout)`)
	fs.StringArrayVar(&buildSheetNames, "sheet", nil, "Sheet name for the input at the same position (repeatable)")
	fs.Float64SliceVar(&buildWidths, "widths", nil, "Column widths applied to every sheet, e.g. 24,12")
	fs.StringVar(&buildEncoding, "encoding", "utf-8", "Input encoding: utf-8, latin1, windows-1252")
	fs.StringVar(&buildFormat, "format", "", "Input format for every input: csv, tsv, json, yaml (default: from extension)")
	fs.BoolVar(&buildInfer, "infer", false, "Parse numbers and booleans in CSV/TSV fields")
	fs.BoolVar(&buildJSON, "json", false, "Print a JSON summary instead of a human-readable one")
}

// sheetSummary describes one written sheet.
type sheetSummary struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// buildSummary describes a finished build.
type buildSummary struct {
	Output        string         `json:"output"`
	Author        string         `json:"author"`
	Sheets        []sheetSummary `json:"sheets"`
	SharedStrings int            `json:"shared_strings"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if len(buildSheetNames) > len(inputs) {
		return fmt.Errorf("got %d --sheet names for %d inputs", len(buildSheetNames), len(inputs))
	}
	stdinCount := 0
	for _, in := range inputs {
		if in == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return fmt.Errorf("stdin (-) can only be used once")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc := xlsx.NewDocument(xlsx.Options{
		Author: resolveAuthor(cfg),
		Logger: newLogger(),
	})
	defer doc.Close()

	opts := readOptions{format: buildFormat, encoding: buildEncoding, infer: buildInfer}
	for i, in := range inputs {
		rows, err := readInputFile(in, opts)
		if err != nil {
			return err
		}
		name := sheetNameFor(i, in, cfg)
		if _, err := doc.CreateSheet(name); err != nil {
			return fmt.Errorf("input %s: %w (use --sheet to rename)", displayName(in), err)
		}
		sheet, err := doc.WriteSheet(rows, name, nil)
		if err != nil {
			return err
		}
		applyWidths(sheet, buildWidths, cfg.ColumnWidth)
	}

	out := resolveOutputPath(buildOutput, inputs[0])
	if out == "-" {
		if err := doc.WriteToStdOut(); err != nil {
			return err
		}
	} else {
		if err := doc.WriteToFile(out); err != nil {
			return err
		}
		if err := verifyOOXML(out); err != nil {
			return err
		}
	}

	summary := summarize(doc, out)
	if buildJSON {
		if out == "-" {
			return printJSON(os.Stderr, summary)
		}
		return jsonPrint(summary)
	}
	printBuildSummary(summary)
	return nil
}

// sheetNameFor picks the sheet name for the i-th input.
func sheetNameFor(i int, input string, cfg config.Config) string {
	if i < len(buildSheetNames) && buildSheetNames[i] != "" {
		return buildSheetNames[i]
	}
	if input == "-" {
		return cfg.DefaultSheetName
	}
	name := filepath.Base(input)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// applyWidths sets explicit widths, or a configured width on every used column.
func applyWidths(sheet *xlsx.Sheet, widths []float64, configured float64) {
	if len(widths) > 0 {
		sheet.SetColumnWidths(widths)
		return
	}
	if configured <= 0 {
		return
	}
	all := make([]float64, sheet.ColumnCount())
	for i := range all {
		all[i] = configured
	}
	sheet.SetColumnWidths(all)
}

func summarize(doc *xlsx.Document, out string) buildSummary {
	s := buildSummary{
		Output:        out,
		Author:        doc.Author(),
		SharedStrings: doc.SharedStrings().DistinctCount(),
	}
	for _, sheet := range doc.Sheets() {
		s.Sheets = append(s.Sheets, sheetSummary{
			Name:    sheet.Name(),
			Rows:    sheet.RowCount(),
			Columns: sheet.ColumnCount(),
		})
	}
	return s
}

func printBuildSummary(s buildSummary) {
	dest := s.Output
	if dest == "-" {
		dest = "stdout"
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", dest)
	for _, sh := range s.Sheets {
		fmt.Fprintf(os.Stderr, "  %s: %d rows, %d columns\n", sh.Name, sh.Rows, sh.Columns)
	}
}
