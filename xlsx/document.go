package xlsx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	// DefaultAuthor is written to docProps/core.xml when no author is set.
	DefaultAuthor = "Doc Author"
	// DefaultSheetName is used when a sheet is created without a name.
	DefaultSheetName = "Sheet1"
	// DefaultStyleID is the cellXfs index every cell uses.
	DefaultStyleID = "0"
)

// coreTimeLayout is the W3CDTF form used in docProps/core.xml.
const coreTimeLayout = "2006-01-02T15:04:05Z"

// Options configures a Document.
type Options struct {
	// Author is written as creator and last modifier. Empty means DefaultAuthor.
	Author string
	// DefaultStyle is the style id given to every cell. Empty means DefaultStyleID.
	DefaultStyle string
	// TempDir is where WriteToStdOut stages the archive. Empty means os.TempDir().
	TempDir string
	// Stdout receives WriteToStdOut output. Nil means os.Stdout.
	Stdout io.Writer
	// Logger receives debug and cleanup messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the zero Options value.
func DefaultOptions() Options {
	return Options{
		Author:       DefaultAuthor,
		DefaultStyle: DefaultStyleID,
	}
}

// Document is an xlsx workbook under construction.
type Document struct {
	author       string
	defaultStyle string
	tempDir      string
	stdout       io.Writer
	logger       *slog.Logger
	now          func() time.Time

	sheets    []*Sheet
	byName    map[string]*Sheet
	strings   *SharedStringPool
	tempFiles []string
}

// NewDocument creates an empty document. Call Close when done with it.
func NewDocument(opts Options) *Document {
	d := &Document{
		author:       opts.Author,
		defaultStyle: opts.DefaultStyle,
		tempDir:      opts.TempDir,
		stdout:       opts.Stdout,
		logger:       opts.Logger,
		now:          time.Now,
		byName:       make(map[string]*Sheet),
		strings:      NewSharedStringPool(),
	}
	if d.author == "" {
		d.author = DefaultAuthor
	}
	if d.defaultStyle == "" {
		d.defaultStyle = DefaultStyleID
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// SetAuthor sets the creator written to docProps/core.xml.
func (d *Document) SetAuthor(author string) {
	d.author = author
}

// Author returns the document author.
func (d *Document) Author() string {
	return d.author
}

// CreateSheet registers a new, empty sheet. An empty name means
// DefaultSheetName. Names must be unique within the document.
func (d *Document) CreateSheet(name string) (*Sheet, error) {
	if name == "" {
		name = DefaultSheetName
	}
	if _, ok := d.byName[name]; ok {
		return nil, fmt.Errorf("creating sheet %q: %w", name, ErrDuplicateSheet)
	}
	s := newSheet(d, name, len(d.sheets))
	d.sheets = append(d.sheets, s)
	d.byName[name] = s
	return s, nil
}

// Sheet looks up a sheet by name.
func (d *Document) Sheet(name string) (*Sheet, bool) {
	s, ok := d.byName[name]
	return s, ok
}

// Sheets returns the sheets in creation order.
func (d *Document) Sheets() []*Sheet {
	out := make([]*Sheet, len(d.sheets))
	copy(out, d.sheets)
	return out
}

// WriteSheet writes every row of data to the sheet called name, creating it
// if needed. An empty name means DefaultSheetName. Empty data still yields
// one row holding a single empty cell.
//
// headerTypes is accepted for compatibility and currently ignored.
func (d *Document) WriteSheet(data [][]Value, name string, headerTypes map[string]string) (*Sheet, error) {
	if name == "" {
		name = DefaultSheetName
	}
	s, ok := d.byName[name]
	if !ok {
		var err error
		if s, err = d.CreateSheet(name); err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		data = [][]Value{{Empty()}}
	}
	for _, row := range data {
		s.WriteRow(row...)
	}
	return s, nil
}

// InternSharedString adds s to the document's shared string table and
// returns its index.
func (d *Document) InternSharedString(s string) int {
	return d.strings.Intern(s)
}

// SharedStrings exposes the document's shared string table.
func (d *Document) SharedStrings() *SharedStringPool {
	return d.strings
}

// Render produces every part of the package in archive order. The shared
// strings part, and every reference to it, is present only when at least
// one text cell was written.
func (d *Document) Render() ([]Part, error) {
	withStrings := d.strings.DistinctCount() > 0
	parts := make([]Part, 0, len(d.sheets)+8)

	add := func(name, tmpl string, data any) error {
		p, err := executePart(name, tmpl, data)
		if err != nil {
			return err
		}
		parts = append(parts, p)
		return nil
	}

	if err := add(partApp, "app.xml.tmpl", appData{Application: appName}); err != nil {
		return nil, err
	}
	core := coreData{Author: d.author, Created: d.now().UTC().Format(coreTimeLayout)}
	if err := add(partCore, "core.xml.tmpl", core); err != nil {
		return nil, err
	}
	if err := add(partRootRels, "rels.xml.tmpl", rootRelationships()); err != nil {
		return nil, err
	}
	for _, s := range d.sheets {
		xml, err := s.BuildXML()
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{Name: partWorksheets + s.PartName(), Data: xml})
	}
	if withStrings {
		sst := sharedStringsData{
			Count:       d.strings.ReferenceCount(),
			UniqueCount: d.strings.DistinctCount(),
			Values:      d.strings.values,
		}
		if err := add(partSharedStrings, "sharedStrings.xml.tmpl", sst); err != nil {
			return nil, err
		}
	}
	if err := add(partWorkbook, "workbook.xml.tmpl", workbookSheets(d.sheets)); err != nil {
		return nil, err
	}
	if err := add(partStyles, "styles.xml.tmpl", nil); err != nil {
		return nil, err
	}
	if err := add(partContentTypes, "content_types.xml.tmpl", contentOverrides(d.sheets, withStrings)); err != nil {
		return nil, err
	}
	if err := add(partWorkbookRels, "rels.xml.tmpl", workbookRelationships(d.sheets, withStrings)); err != nil {
		return nil, err
	}

	d.logger.Debug("rendered xlsx parts",
		slog.Int("parts", len(parts)),
		slog.Int("sheets", len(d.sheets)),
		slog.Int("shared_strings", d.strings.DistinctCount()))
	return parts, nil
}

// countingWriter records the bytes written and the first sink error.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}

// sinkError reports a failed sink write as an *IOError. It returns nil when
// the sink never failed.
func (c *countingWriter) sinkError() error {
	if c.err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(c.err, &ioErr) {
		return c.err
	}
	return &IOError{Op: "write", Err: c.err}
}

// WriteTo renders the document and writes it to w as a ZIP archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	parts, err := d.Render()
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	modified := d.now()
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			if serr := cw.sinkError(); serr != nil {
				return cw.n, serr
			}
			return cw.n, &PackagingError{Part: p.Name, Err: err}
		}
		if _, err := f.Write(p.Data); err != nil {
			if serr := cw.sinkError(); serr != nil {
				return cw.n, serr
			}
			return cw.n, &PackagingError{Part: p.Name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		if serr := cw.sinkError(); serr != nil {
			return cw.n, serr
		}
		return cw.n, &PackagingError{Err: err}
	}
	return cw.n, nil
}

// WriteToFile writes the archive to path. An existing file is replaced if it
// is writable; otherwise an *IOError is returned.
func (d *Document) WriteToFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return &IOError{Op: "file is not writable", Path: path, Err: err}
		}
		f.Close()
		if err := os.Remove(path); err != nil {
			return &IOError{Op: "remove", Path: path, Err: err}
		}
	}

	bw, err := OpenBufferedWriter(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, false)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(bw); err != nil {
		bw.Close()
		os.Remove(path)
		return err
	}
	if err := bw.Close(); err != nil {
		os.Remove(path)
		return err
	}
	d.logger.Debug("wrote xlsx", slog.String("path", path))
	return nil
}

// WriteToStdOut stages the archive in a temporary file and copies it to the
// configured stdout. The temporary file is removed by Close.
func (d *Document) WriteToStdOut() error {
	path, err := d.tempFile()
	if err != nil {
		return err
	}
	if err := d.WriteToFile(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	if _, err := io.Copy(d.stdout, f); err != nil {
		return &IOError{Op: "copy to stdout", Path: path, Err: err}
	}
	return nil
}

func (d *Document) tempFile() (string, error) {
	f, err := os.CreateTemp(d.tempDir, "xlsx_writer_*.xlsx")
	if err != nil {
		return "", &IOError{Op: "create temp file", Path: d.tempDir, Err: err}
	}
	name := f.Name()
	d.tempFiles = append(d.tempFiles, name)
	f.Close()
	return name, nil
}

// Close removes every temporary file the document created. Removal failures
// are logged, not returned. Close may be called more than once.
func (d *Document) Close() error {
	for _, name := range d.tempFiles {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.logger.Warn("could not remove temporary file",
				slog.String("path", name),
				slog.Any("error", err))
		}
	}
	d.tempFiles = nil
	return nil
}
