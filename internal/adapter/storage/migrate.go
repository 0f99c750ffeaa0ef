package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Migrate applies the schema and records its version. Safe to run repeatedly.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var versionStr string
	err = tx.QueryRow(ctx, "SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&versionStr)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, "INSERT INTO metadata (key, value) VALUES ('schema_version', $1)", strconv.Itoa(schemaVersion)); err != nil {
			return fmt.Errorf("insert schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	default:
		version, err := strconv.Atoi(versionStr)
		if err != nil {
			return fmt.Errorf("parse schema version: %w", err)
		}
		if version > schemaVersion {
			return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
		}
		if version < schemaVersion {
			if _, err := tx.Exec(ctx, "UPDATE metadata SET value = $1 WHERE key = 'schema_version'", strconv.Itoa(schemaVersion)); err != nil {
				return fmt.Errorf("update schema version: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}
