//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package xlsx loads transactions from Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

// Name is the registered source name.
const Name = "xlsx"

// headerSearchRows bounds how far down a sheet the header row may start.
const headerSearchRows = 10

func init() {
	sources.Register(&Source{})
}

// Source reads the first worksheet that carries the required columns.
type Source struct{}

// Name returns the source name.
func (s *Source) Name() string {
	return Name
}

// Description returns a human-readable description.
func (s *Source) Description() string {
	return "Excel workbook (.xlsx); first sheet with the required header"
}

// Identity returns the file's path and modification time.
func (s *Source) Identity(ctx context.Context, opts sources.Options) (dataset.Key, error) {
	return dataset.FileKey(Name, opts.Path)
}

// Load reads the data sheet. Order dates may be text or Excel serial dates.
func (s *Source) Load(ctx context.Context, opts sources.Options) (*dataset.Table, error) {
	name := filepath.Base(opts.Path)

	f, err := excelize.OpenFile(opts.Path)
	if err != nil {
		return nil, dataset.WrapError(name, err)
	}
	defer f.Close()

	use1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		use1904 = *props.Date1904
	}

	sheet, rows, headerRow, ok := findDataSheet(f)
	if !ok {
		return nil, missingHeader(f, name)
	}

	cols, err := dataset.ResolveColumns(name, rows[headerRow])
	if err != nil {
		return nil, err
	}

	b := dataset.NewBuilder(name, opts.Parse)
	for i := headerRow + 1; i < len(rows); i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if blank(rows[i]) {
			continue
		}
		rec := cols.Record(rows[i])
		rec.OrderDate = serialDate(rec.OrderDate, opts.Parse.Layouts, use1904)
		// Excel rows are 1-based.
		if err := b.Add(i+1, rec); err != nil {
			return nil, err
		}
	}

	table := b.Table()
	logging.Debug().
		Str("source", name).
		Str("sheet", sheet).
		Int("header_row", headerRow+1).
		Int("rows", table.Len()).
		Msg("Read workbook dataset")
	return table, nil
}

// findDataSheet returns the first sheet whose leading rows contain a full
// header, with the header's row index.
func findDataSheet(f *excelize.File) (string, [][]string, int, bool) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		for i := 0; i < len(rows) && i < headerSearchRows; i++ {
			if dataset.HasAll(rows[i]) {
				return sheet, rows, i, true
			}
		}
	}
	return "", nil, 0, false
}

// missingHeader reports which column the first sheet's first row lacks.
func missingHeader(f *excelize.File, name string) error {
	var header []string
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		if rows, err := f.GetRows(sheets[0]); err == nil && len(rows) > 0 {
			header = rows[0]
		}
	}
	if _, err := dataset.ResolveColumns(name, header); err != nil {
		return err
	}
	return &dataset.LoadError{
		Source: name,
		Reason: dataset.ReasonMissingColumn,
		Err:    fmt.Errorf("no sheet has the columns %s", strings.Join(dataset.RequiredColumns, ", ")),
	}
}

// serialDate rewrites an Excel serial date as ISO text. Values that already
// parse as dates, or are not numbers, are returned unchanged.
func serialDate(value string, layouts []string, use1904 bool) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}
	if _, err := dataset.ParseDate(v, layouts); err == nil {
		return value
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, use1904)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
