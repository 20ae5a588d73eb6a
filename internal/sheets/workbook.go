// Package sheets reads spreadsheet sheets as raw text grids.
//
// Sheets arrive as CSV: either files in a directory or CSV exports fetched
// over HTTP. Nothing here interprets the cells.
package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sheetcal/internal/config"
	"sheetcal/internal/model"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the
// requested title.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is a named collection of sheets.
type Workbook interface {
	Titles(ctx context.Context) ([]string, error)
	Values(ctx context.Context, title string) (model.RawGrid, error)
}

// Open builds the workbook described by cfg.
func Open(cfg config.SourceConfig) (Workbook, error) {
	switch {
	case cfg.Dir != "":
		return NewDirWorkbook(cfg.Dir), nil
	case len(cfg.Sheets) > 0:
		return NewHTTPWorkbook(cfg.Sheets, cfg.CacheDir), nil
	default:
		return nil, errors.New("sheets: source has neither dir nor sheets")
	}
}

// DirWorkbook serves one <title>.csv file per sheet from a directory.
type DirWorkbook struct {
	dir string
}

func NewDirWorkbook(dir string) *DirWorkbook {
	return &DirWorkbook{dir: dir}
}

// Dir returns the directory backing the workbook.
func (w *DirWorkbook) Dir() string { return w.dir }

func (w *DirWorkbook) Titles(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("sheets: list %s: %w", w.dir, err)
	}
	var titles []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		titles = append(titles, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(titles)
	return titles, nil
}

func (w *DirWorkbook) Values(_ context.Context, title string) (model.RawGrid, error) {
	f, err := os.Open(filepath.Join(w.dir, title+".csv"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, title)
		}
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV reads a CSV body into a grid. Rows may have different lengths.
func ParseCSV(r io.Reader) (model.RawGrid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out model.RawGrid
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sheets: parse csv: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Records reads a grid the way a spreadsheet "get all records" call does:
// the first row names the columns and each later row becomes a map from
// column label to cell text. Short rows are padded with empty cells.
// Columns with an empty label are dropped.
func Records(rows model.RawGrid) model.Table {
	if len(rows) == 0 {
		return model.Table{}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := model.Table{Rows: make([]map[string]string, 0, len(rows)-1)}
	for _, h := range header {
		if h != "" {
			t.Columns = append(t.Columns, h)
		}
	}

	for _, raw := range rows[1:] {
		rec := make(map[string]string, len(t.Columns))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(raw) {
				rec[h] = raw[i]
			} else {
				rec[h] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}
