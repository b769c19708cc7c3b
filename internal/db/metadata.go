//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/pkg/version"
)

const metadataTable = "salesdash_metadata"

// Metadata keys are prefixed with the sales table name.
const (
	keySource     = "source"
	keyRows       = "rows"
	keyVersion    = "version"
	keyImportedAt = "imported_at"
)

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS salesdash_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// ImportInfo describes the last import into a sales table.
type ImportInfo struct {
	Table      string
	Source     string
	Rows       int64
	Version    string
	ImportedAt time.Time
}

func metadataKey(table, key string) string {
	return table + "." + key
}

// SaveImportMetadata records an import into table.
func SaveImportMetadata(ctx context.Context, db DB, table, source string, rows int64) (ImportInfo, error) {
	// Create table if it doesn't exist
	if _, err := db.Exec(ctx, createMetadataTableSQL); err != nil {
		return ImportInfo{}, fmt.Errorf("failed to create metadata table: %w", err)
	}

	info := ImportInfo{
		Table:      table,
		Source:     source,
		Rows:       rows,
		Version:    version.Short(),
		ImportedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	metadata := map[string]string{
		keySource:     info.Source,
		keyRows:       strconv.FormatInt(info.Rows, 10),
		keyVersion:    info.Version,
		keyImportedAt: info.ImportedAt.Format(time.RFC3339Nano),
	}

	for key, value := range metadata {
		_, err := db.Exec(ctx, `
            INSERT INTO salesdash_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, metadataKey(table, key), value)
		if err != nil {
			return ImportInfo{}, fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("table", table).
		Str("source", source).
		Int64("rows", rows).
		Msg("Saved import metadata")

	return info, nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, db DB, key string) (string, error) {
	var value string
	err := db.QueryRow(ctx, `
        SELECT value FROM salesdash_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetImportInfo returns the recorded import for table. The boolean is false
// when the table was never imported by this tool.
func GetImportInfo(ctx context.Context, db DB, table string) (ImportInfo, bool, error) {
	exists, err := MetadataExists(ctx, db)
	if err != nil || !exists {
		return ImportInfo{}, false, err
	}

	all, err := GetAllMetadata(ctx, db)
	if err != nil {
		return ImportInfo{}, false, err
	}
	importedAt, ok := all[metadataKey(table, keyImportedAt)]
	if !ok {
		return ImportInfo{}, false, nil
	}

	info := ImportInfo{Table: table}
	if info.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
		return ImportInfo{}, false, fmt.Errorf("invalid %s: %w", metadataKey(table, keyImportedAt), err)
	}
	info.Source = all[metadataKey(table, keySource)]
	info.Version = all[metadataKey(table, keyVersion)]
	if v := all[metadataKey(table, keyRows)]; v != "" {
		info.Rows, _ = strconv.ParseInt(v, 10, 64)
	}
	return info, true, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, db DB) (map[string]string, error) {
	rows, err := db.Query(ctx, `SELECT key, value FROM salesdash_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, db DB) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
