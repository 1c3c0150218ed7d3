package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/passbook/internal/model"
)

func insertField(ctx context.Context, tx execer, f *model.Field) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO fields (key, label, value, text_alignment, change_message, date_style,
		     time_style, is_relative, currency_code, number_style)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Key, f.Label, f.Value, f.TextAlignment, f.ChangeMessage, f.DateStyle,
		f.TimeStyle, f.IsRelative, f.CurrencyCode, f.NumberStyle,
	)
	if err != nil {
		return 0, fmt.Errorf("creating field %q: %w", f.Key, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting field id: %w", err)
	}
	return id, nil
}

// passFields returns a pass's fields keyed by group, each group in position
// order. Every group is present, empty groups as empty slices.
func passFields(ctx context.Context, db *sql.DB, passID int64) (map[model.FieldGroup][]*model.Field, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT pf.field_group, f.id, f.key, f.label, f.value, f.text_alignment, f.change_message,
		        f.date_style, f.time_style, f.is_relative, f.currency_code, f.number_style
		 FROM pass_fields pf
		 JOIN fields f ON f.id = pf.field_id
		 WHERE pf.pass_id = ?
		 ORDER BY pf.field_group, pf.position`, passID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting pass fields: %w", err)
	}
	defer rows.Close()

	groups := make(map[model.FieldGroup][]*model.Field, len(model.FieldGroups))
	for _, g := range model.FieldGroups {
		groups[g] = []*model.Field{}
	}
	for rows.Next() {
		var g model.FieldGroup
		f := &model.Field{}
		if err := rows.Scan(&g, &f.ID, &f.Key, &f.Label, &f.Value, &f.TextAlignment, &f.ChangeMessage,
			&f.DateStyle, &f.TimeStyle, &f.IsRelative, &f.CurrencyCode, &f.NumberStyle); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		groups[g] = append(groups[g], f)
	}
	return groups, rows.Err()
}
