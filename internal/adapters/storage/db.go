package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS actividades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		area TEXT NOT NULL,
		nombre TEXT NOT NULL,
		fecha TEXT NOT NULL,
		region TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS personas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rut TEXT NOT NULL UNIQUE,
		nombre TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		actualizado_en TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS participaciones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		persona_id INTEGER NOT NULL,
		actividad_id INTEGER NOT NULL,
		registrado_en TEXT NOT NULL,
		FOREIGN KEY (persona_id) REFERENCES personas(id),
		FOREIGN KEY (actividad_id) REFERENCES actividades(id),
		UNIQUE (persona_id, actividad_id)
	);

	CREATE INDEX IF NOT EXISTS idx_participaciones_actividad ON participaciones(actividad_id);
	CREATE INDEX IF NOT EXISTS idx_participaciones_persona ON participaciones(persona_id);
	CREATE INDEX IF NOT EXISTS idx_actividades_fecha ON actividades(fecha);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
