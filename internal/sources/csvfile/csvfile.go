//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package csvfile loads transactions from delimited text files.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/sources"
)

// Name is the registered source name.
const Name = "csv"

func init() {
	sources.Register(&Source{})
}

// Source reads a CSV file with a header row.
type Source struct{}

// Name returns the source name.
func (s *Source) Name() string {
	return Name
}

// Description returns a human-readable description.
func (s *Source) Description() string {
	return "CSV file with a header row (UTF-8 or Latin-1)"
}

// Identity returns the file's path and modification time.
func (s *Source) Identity(ctx context.Context, opts sources.Options) (dataset.Key, error) {
	return dataset.FileKey(Name, opts.Path)
}

// Load reads the whole file. Every column is read as text and parsed by the
// shared row builder, so the date rule and bad row policy match the other
// sources.
func (s *Source) Load(ctx context.Context, opts sources.Options) (*dataset.Table, error) {
	name := filepath.Base(opts.Path)

	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, dataset.WrapError(name, err)
	}
	defer f.Close()

	r, err := decoder(f, opts.Encoding)
	if err != nil {
		return nil, &dataset.LoadError{Source: name, Reason: dataset.ReasonUnreadable, Err: err}
	}

	return Read(ctx, name, r, opts.Parse)
}

// Read parses CSV text from r. It is exported for callers that already hold
// the data in memory.
func Read(ctx context.Context, name string, r io.Reader, opts dataset.ParseOptions) (*dataset.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &dataset.LoadError{Source: name, Reason: dataset.ReasonUnreadable, Err: err}
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		if header, ok := headerOnly(data); ok {
			if _, err := dataset.ResolveColumns(name, header); err != nil {
				return nil, err
			}
			return dataset.NewTable(name, nil, 0), nil
		}
		return nil, &dataset.LoadError{Source: name, Reason: dataset.ReasonUnreadable, Err: df.Err}
	}

	records := df.Records()
	if len(records) == 0 {
		return nil, &dataset.LoadError{Source: name, Reason: dataset.ReasonUnreadable, Err: fmt.Errorf("no header row")}
	}

	cols, err := dataset.ResolveColumns(name, records[0])
	if err != nil {
		return nil, err
	}

	b := dataset.NewBuilder(name, opts)
	for i, row := range records[1:] {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Line 1 is the header.
		if err := b.Add(i+2, cols.Record(row)); err != nil {
			return nil, err
		}
	}

	table := b.Table()
	logging.Debug().
		Str("source", name).
		Int("rows", table.Len()).
		Int("columns", df.Ncol()).
		Msg("Read CSV dataset")
	return table, nil
}

// headerOnly reports whether data holds a header row and nothing else. The
// dataframe reader rejects such files as empty.
func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 {
		return nil, false
	}
	return records[0], true
}

// decoder wraps r to produce UTF-8 text.
func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
