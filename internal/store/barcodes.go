package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/passbook/internal/model"
)

func insertBarcode(ctx context.Context, tx execer, b *model.Barcode) (int64, error) {
	encoding := b.Encoding
	if encoding == "" {
		encoding = model.DefaultBarcodeEncoding
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO barcodes (message, format, encoding, alt_text) VALUES (?, ?, ?, ?)`,
		b.Message, b.Format, encoding, b.AltText,
	)
	if err != nil {
		return 0, fmt.Errorf("creating barcode: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting barcode id: %w", err)
	}
	return id, nil
}

// GetBarcode returns a barcode by ID.
func GetBarcode(ctx context.Context, db *sql.DB, id int64) (*model.Barcode, error) {
	b := &model.Barcode{}
	err := db.QueryRowContext(ctx,
		`SELECT id, message, format, encoding, alt_text FROM barcodes WHERE id = ?`, id,
	).Scan(&b.ID, &b.Message, &b.Format, &b.Encoding, &b.AltText)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting barcode: %w", err)
	}
	return b, nil
}
