//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by the XLSX writer.
const SheetName = "Orders"

// Writer writes generated lines to a file.
type Writer interface {
	WriteHeader(header []string) error
	WriteLine(l Line) error

	// Close flushes and finishes the file.
	Close() error

	// Abort discards a partially written file.
	Abort()
}

// NewWriter returns a writer for path, chosen by its extension.
func NewWriter(path string) (Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return newCSVWriter(path)
	case ".xlsx":
		return newXLSXWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

type csvWriter struct {
	path string
	f    *os.File
	w    *csv.Writer
}

func newCSVWriter(path string) (*csvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &csvWriter{path: path, f: f, w: csv.NewWriter(f)}, nil
}

func (c *csvWriter) WriteHeader(header []string) error {
	return c.w.Write(header)
}

func (c *csvWriter) WriteLine(l Line) error {
	return c.w.Write(l.Record())
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return c.f.Close()
}

func (c *csvWriter) Abort() {
	c.f.Close()
	os.Remove(c.path)
}

type xlsxWriter struct {
	path string
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func newXLSXWriter(path string) (*xlsxWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}
	return &xlsxWriter{path: path, file: f, sw: sw}, nil
}

func (x *xlsxWriter) next(values []interface{}) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	return x.sw.SetRow(cell, values)
}

func (x *xlsxWriter) WriteHeader(header []string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	return x.next(values)
}

// WriteLine writes numbers as numeric cells and dates as ISO text.
func (x *xlsxWriter) WriteLine(l Line) error {
	return x.next([]interface{}{
		l.RowID,
		l.OrderID,
		l.OrderDate.Format("2006-01-02"),
		l.ShipDate.Format("2006-01-02"),
		l.ShipMode,
		l.CustomerID,
		l.Customer,
		l.Segment,
		"United States",
		l.City,
		l.State,
		l.Region,
		l.Category,
		l.SubCategory,
		l.Sales,
		l.Quantity,
		l.Discount,
		l.Profit,
	})
}

func (x *xlsxWriter) Close() error {
	defer x.file.Close()
	if err := x.sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", x.path, err)
	}
	return nil
}

func (x *xlsxWriter) Abort() {
	x.file.Close()
}
