package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS barcodes (
    id       INTEGER PRIMARY KEY,
    message  TEXT NOT NULL,
    format   TEXT NOT NULL CHECK (format IN ('PKBarcodeFormatPDF417', 'PKBarcodeFormatQR', 'PKBarcodeFormatAztec', 'PKBarcodeFormatText')),
    encoding TEXT NOT NULL DEFAULT 'iso-8859-1',
    alt_text TEXT
);

CREATE TABLE IF NOT EXISTS passes (
    id                   INTEGER PRIMARY KEY,
    pass_type_identifier TEXT NOT NULL,
    serial_number        TEXT NOT NULL,
    organization_name    TEXT NOT NULL,
    team_identifier      TEXT NOT NULL,
    description          TEXT NOT NULL DEFAULT '',
    auth_token           TEXT,
    relevant_date        DATETIME,
    barcode_id           INTEGER UNIQUE REFERENCES barcodes(id),
    background_color     TEXT NOT NULL DEFAULT '',
    foreground_color     TEXT,
    label_color          TEXT,
    logo                 TEXT,
    icon                 TEXT,
    thumbnail            TEXT,
    background           TEXT,
    strip                TEXT,
    suppress_strip_shine INTEGER,
    logo_text            TEXT,
    type                 TEXT NOT NULL CHECK (type IN ('boardingPass', 'coupon', 'eventTicket', 'storeCard', 'generic')),
    transit_type         TEXT CHECK (transit_type IN ('PKTransitTypeAir', 'PKTransitTypeTrain', 'PKTransitTypeBus', 'PKTransitTypeBoat', 'PKTransitTypeGeneric')),
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (pass_type_identifier, serial_number)
);

CREATE TABLE IF NOT EXISTS fields (
    id             INTEGER PRIMARY KEY,
    key            TEXT NOT NULL,
    label          TEXT NOT NULL DEFAULT '',
    value          TEXT NOT NULL DEFAULT '',
    text_alignment TEXT,
    change_message TEXT,
    date_style     TEXT,
    time_style     TEXT,
    is_relative    INTEGER,
    currency_code  TEXT,
    number_style   TEXT
);

CREATE TABLE IF NOT EXISTS pass_fields (
    pass_id     INTEGER NOT NULL REFERENCES passes(id) ON DELETE CASCADE,
    field_id    INTEGER NOT NULL REFERENCES fields(id),
    field_group TEXT NOT NULL CHECK (field_group IN ('header', 'primary', 'secondary', 'auxiliary', 'back')),
    position    INTEGER NOT NULL,
    PRIMARY KEY (pass_id, field_group, field_id)
);

CREATE TABLE IF NOT EXISTS locations (
    id            INTEGER PRIMARY KEY,
    longitude     REAL NOT NULL,
    latitude      REAL NOT NULL,
    altitude      REAL,
    relevant_text TEXT
);

CREATE TABLE IF NOT EXISTS pass_locations (
    pass_id     INTEGER NOT NULL REFERENCES passes(id) ON DELETE CASCADE,
    location_id INTEGER NOT NULL REFERENCES locations(id),
    position    INTEGER NOT NULL,
    PRIMARY KEY (pass_id, location_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
