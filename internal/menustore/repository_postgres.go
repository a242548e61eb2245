package menustore

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

// PostgresRepository keeps the document in a single-row table, for setups
// where several registers share one database instead of a data directory.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context) (menu.Snapshot, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM menu_documents WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return menu.Normalize(nil), nil
	}
	if err != nil {
		return menu.Snapshot{}, errors.Wrap(err, "menustore: query menu document")
	}

	var payload any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return menu.Snapshot{}, errors.Wrap(err, "menustore: parse menu document")
	}
	return menu.Normalize(payload), nil
}

func (r *PostgresRepository) Store(ctx context.Context, snap menu.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "menustore: encode menu")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO menu_documents (id, doc, updated_at)
		VALUES (1, $1, CURRENT_TIMESTAMP)
		ON CONFLICT (id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = CURRENT_TIMESTAMP
	`, raw)
	return errors.Wrap(err, "menustore: store menu document")
}
