package cache

import (
	"database/sql"
)

// Schema version tracking. Bump it whenever the stored issue encoding
// changes; older databases are then emptied instead of decoded.
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Debug("Cache schema initialized", "version", currentSchemaVersion)
		return nil
	})
}

// runMigrations brings an existing database to the current version. Cached
// results are disposable, so any version mismatch recreates the tables.
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Cache schema is up to date", "version", version)
		return nil
	}

	db.logger.Info("Resetting cache schema",
		"from_version", version,
		"to_version", currentSchemaVersion,
	)
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DROP TABLE IF EXISTS results"); err != nil {
			return err
		}
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createResultsTable(tx); err != nil {
			return err
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion sets the schema version
func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("DELETE FROM schema_version")
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// createSchemaVersionTable creates the schema_version tracking table
func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

// createResultsTable creates the results table. issues holds the
// zstd-compressed JSON encoding of the file's issues.
func createResultsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			path TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			issues BLOB NOT NULL,
			issue_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	return err
}
