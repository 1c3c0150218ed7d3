package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/passbook/internal/model"
)

const passColumns = `id, pass_type_identifier, serial_number, organization_name, team_identifier,
	description, auth_token, relevant_date, barcode_id, background_color, foreground_color,
	label_color, logo, icon, thumbnail, background, strip, suppress_strip_shine, logo_text,
	type, transit_type, created_at, updated_at`

// imageColumns maps an image kind to the column holding its asset path.
var imageColumns = map[model.ImageKind]string{
	model.ImageLogo:       "logo",
	model.ImageIcon:       "icon",
	model.ImageThumbnail:  "thumbnail",
	model.ImageBackground: "background",
	model.ImageStrip:      "strip",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPass(s scanner) (*model.Pass, *int64, error) {
	p := &model.Pass{}
	var barcodeID *int64
	err := s.Scan(&p.ID, &p.PassTypeIdentifier, &p.SerialNumber, &p.OrganizationName, &p.TeamIdentifier,
		&p.Description, &p.AuthToken, &p.RelevantDate, &barcodeID, &p.BackgroundColor, &p.ForegroundColor,
		&p.LabelColor, &p.Logo, &p.Icon, &p.Thumbnail, &p.Background, &p.Strip, &p.SuppressStripShine, &p.LogoText,
		&p.Type, &p.TransitType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}
	return p, barcodeID, nil
}

// CreatePass stores a pass together with its barcode, its fields and its
// location links in one transaction. Fields and locations with a non-zero ID
// are linked as they are; the others are created first.
func CreatePass(ctx context.Context, db *sql.DB, p *model.Pass) (*model.Pass, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var barcodeID *int64
	if p.Barcode != nil {
		id, err := insertBarcode(ctx, tx, p.Barcode)
		if err != nil {
			return nil, err
		}
		barcodeID = &id
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO passes (pass_type_identifier, serial_number, organization_name, team_identifier,
		     description, auth_token, relevant_date, barcode_id, background_color, foreground_color,
		     label_color, logo, icon, thumbnail, background, strip, suppress_strip_shine, logo_text,
		     type, transit_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PassTypeIdentifier, p.SerialNumber, p.OrganizationName, p.TeamIdentifier,
		p.Description, p.AuthToken, p.RelevantDate, barcodeID, p.BackgroundColor, p.ForegroundColor,
		p.LabelColor, p.Logo, p.Icon, p.Thumbnail, p.Background, p.Strip, p.SuppressStripShine, p.LogoText,
		p.Type, p.TransitType,
	)
	if err != nil {
		return nil, fmt.Errorf("creating pass: %w", err)
	}

	passID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting pass id: %w", err)
	}

	for _, g := range model.FieldGroups {
		for i, f := range p.Fields(g) {
			fieldID := f.ID
			if fieldID == 0 {
				if fieldID, err = insertField(ctx, tx, f); err != nil {
					return nil, err
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO pass_fields (pass_id, field_id, field_group, position) VALUES (?, ?, ?, ?)`,
				passID, fieldID, g, i,
			)
			if err != nil {
				return nil, fmt.Errorf("linking %s field %q: %w", g, f.Key, err)
			}
		}
	}

	for i, l := range p.Locations {
		locationID := l.ID
		if locationID == 0 {
			if locationID, err = insertLocation(ctx, tx, l); err != nil {
				return nil, err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pass_locations (pass_id, location_id, position) VALUES (?, ?, ?)`,
			passID, locationID, i,
		)
		if err != nil {
			return nil, fmt.Errorf("linking location %d: %w", locationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing pass: %w", err)
	}

	return GetPass(ctx, db, passID)
}

// GetPass returns a pass by ID with its barcode, field groups and locations
// resolved. Field groups and locations keep the order they were stored in.
func GetPass(ctx context.Context, db *sql.DB, id int64) (*model.Pass, error) {
	p, barcodeID, err := scanPass(db.QueryRowContext(ctx,
		`SELECT `+passColumns+` FROM passes WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pass: %w", err)
	}

	if err := resolvePass(ctx, db, p, barcodeID); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPassBySerial returns a fully resolved pass by its identity.
func GetPassBySerial(ctx context.Context, db *sql.DB, passTypeIdentifier, serialNumber string) (*model.Pass, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM passes WHERE pass_type_identifier = ? AND serial_number = ?`,
		passTypeIdentifier, serialNumber,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pass by serial: %w", err)
	}
	return GetPass(ctx, db, id)
}

func resolvePass(ctx context.Context, db *sql.DB, p *model.Pass, barcodeID *int64) error {
	if barcodeID != nil {
		b, err := GetBarcode(ctx, db, *barcodeID)
		if err != nil {
			return err
		}
		p.Barcode = b
	}

	groups, err := passFields(ctx, db, p.ID)
	if err != nil {
		return err
	}
	p.HeaderFields = groups[model.FieldGroupHeader]
	p.PrimaryFields = groups[model.FieldGroupPrimary]
	p.SecondaryFields = groups[model.FieldGroupSecondary]
	p.AuxiliaryFields = groups[model.FieldGroupAuxiliary]
	p.BackFields = groups[model.FieldGroupBack]

	p.Locations, err = passLocations(ctx, db, p.ID)
	return err
}

// ListPasses returns all passes without their relations, ordered by ID.
func ListPasses(ctx context.Context, db *sql.DB) ([]model.Pass, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+passColumns+` FROM passes ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing passes: %w", err)
	}
	defer rows.Close()

	var passes []model.Pass
	for rows.Next() {
		p, _, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pass: %w", err)
		}
		passes = append(passes, *p)
	}
	return passes, rows.Err()
}

// UpdatePass updates a pass's scalar metadata. Identity, type, barcode and
// relations are left unchanged.
func UpdatePass(ctx context.Context, db *sql.DB, id int64, p *model.Pass) error {
	_, err := db.ExecContext(ctx,
		`UPDATE passes SET organization_name = ?, team_identifier = ?, description = ?,
		     relevant_date = ?, background_color = ?, foreground_color = ?, label_color = ?,
		     suppress_strip_shine = ?, logo_text = ?, transit_type = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.OrganizationName, p.TeamIdentifier, p.Description,
		p.RelevantDate, p.BackgroundColor, p.ForegroundColor, p.LabelColor,
		p.SuppressStripShine, p.LogoText, p.TransitType, id,
	)
	if err != nil {
		return fmt.Errorf("updating pass: %w", err)
	}
	return nil
}

// DeletePass removes a pass and the barcode it owns. Fields and locations
// are independent and stay.
func DeletePass(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var barcodeID *int64
	err = tx.QueryRowContext(ctx, `SELECT barcode_id FROM passes WHERE id = ?`, id).Scan(&barcodeID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("getting pass barcode: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM passes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting pass: %w", err)
	}
	if barcodeID != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM barcodes WHERE id = ?`, *barcodeID); err != nil {
			return fmt.Errorf("deleting barcode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pass deletion: %w", err)
	}
	return nil
}

// SetPassImage stores the asset path of one of a pass's images.
func SetPassImage(ctx context.Context, db *sql.DB, id int64, kind model.ImageKind, path string) error {
	column, ok := imageColumns[kind]
	if !ok {
		return &model.InvalidEnumValueError{Attribute: "image", Value: string(kind)}
	}
	_, err := db.ExecContext(ctx,
		`UPDATE passes SET `+column+` = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		path, id,
	)
	if err != nil {
		return fmt.Errorf("setting pass image: %w", err)
	}
	return nil
}

// SetPassAuthToken replaces a pass's authentication token.
func SetPassAuthToken(ctx context.Context, db *sql.DB, id int64, token string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE passes SET auth_token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		token, id,
	)
	if err != nil {
		return fmt.Errorf("setting pass auth token: %w", err)
	}
	return nil
}

// SetPassBarcode attaches a new barcode to a pass, replacing the old one.
func SetPassBarcode(ctx context.Context, db *sql.DB, id int64, b *model.Barcode) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID *int64
	err = tx.QueryRowContext(ctx, `SELECT barcode_id FROM passes WHERE id = ?`, id).Scan(&oldID)
	if err != nil {
		return fmt.Errorf("getting pass barcode: %w", err)
	}

	newID, err := insertBarcode(ctx, tx, b)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE passes SET barcode_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, newID, id,
	); err != nil {
		return fmt.Errorf("setting pass barcode: %w", err)
	}
	if oldID != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM barcodes WHERE id = ?`, *oldID); err != nil {
			return fmt.Errorf("deleting old barcode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pass barcode: %w", err)
	}
	return nil
}
