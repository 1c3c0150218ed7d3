package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/passbook/internal/model"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertLocation(ctx context.Context, e execer, l *model.Location) (int64, error) {
	result, err := e.ExecContext(ctx,
		`INSERT INTO locations (longitude, latitude, altitude, relevant_text) VALUES (?, ?, ?, ?)`,
		l.Longitude, l.Latitude, l.Altitude, l.RelevantText,
	)
	if err != nil {
		return 0, fmt.Errorf("creating location: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting location id: %w", err)
	}
	return id, nil
}

// CreateLocation creates a location that passes can then reference.
func CreateLocation(ctx context.Context, db *sql.DB, l *model.Location) (*model.Location, error) {
	id, err := insertLocation(ctx, db, l)
	if err != nil {
		return nil, err
	}
	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	l := &model.Location{}
	err := db.QueryRowContext(ctx,
		`SELECT id, longitude, latitude, altitude, relevant_text FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Altitude, &l.RelevantText)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return l, nil
}

// ListLocations returns all locations ordered by ID.
func ListLocations(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, longitude, latitude, altitude, relevant_text FROM locations ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Altitude, &l.RelevantText); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// passLocations returns the locations a pass references, in position order.
func passLocations(ctx context.Context, db *sql.DB, passID int64) ([]*model.Location, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.longitude, l.latitude, l.altitude, l.relevant_text
		 FROM pass_locations pl
		 JOIN locations l ON l.id = pl.location_id
		 WHERE pl.pass_id = ?
		 ORDER BY pl.position`, passID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting pass locations: %w", err)
	}
	defer rows.Close()

	locations := []*model.Location{}
	for rows.Next() {
		l := &model.Location{}
		if err := rows.Scan(&l.ID, &l.Longitude, &l.Latitude, &l.Altitude, &l.RelevantText); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
