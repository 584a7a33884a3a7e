package storage

import (
	"database/sql"
	"fmt"
)

// migrations holds one DDL script per schema version. Version N is applied
// when the database's user_version is below N; scripts must stay append-only.
var migrations = []string{
	// v1: initial schema. Offerings keep their nested train/package/add-on
	// catalogs as JSON document columns; registrations store the resolved
	// selections, not the catalogs.
	`
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS offering (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		display_date TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT '',
		eligibility TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ticket_price_text TEXT NOT NULL DEFAULT '',
		advance_payment_percentage REAL NOT NULL DEFAULT 0,
		trains_json TEXT NOT NULL DEFAULT '[]',
		packages_json TEXT NOT NULL DEFAULT '[]',
		addons_json TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS registration (
		id TEXT PRIMARY KEY,
		offering_id TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		members_json TEXT NOT NULL DEFAULT '[]',
		same_room_preference INTEGER NOT NULL DEFAULT 0,
		wants_train_booking INTEGER NOT NULL DEFAULT 0,
		accommodation_notes TEXT NOT NULL DEFAULT '',
		train_json TEXT,
		package_json TEXT,
		addons_json TEXT NOT NULL DEFAULT '[]',
		total_amount REAL NOT NULL DEFAULT 0,
		is_advance_payment INTEGER NOT NULL DEFAULT 0,
		advanced_payment_amount REAL NOT NULL DEFAULT 0,
		payment_screenshot_path TEXT NOT NULL DEFAULT '',
		member_document_paths_json TEXT NOT NULL DEFAULT '[]',
		suggestions TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (offering_id) REFERENCES offering(id)
	);

	CREATE INDEX IF NOT EXISTS idx_registration_offering ON registration(offering_id);
	CREATE INDEX IF NOT EXISTS idx_registration_status ON registration(status);
	`,
}

// LatestSchemaVersion returns the schema version this build expects.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid connection with foreign keys enabled
// POST: user_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", version, len(migrations))
	}

	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("applying migration %d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("recording schema version %d: %w", v+1, err)
		}
	}
	return nil
}
