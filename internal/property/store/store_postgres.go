package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

// PostgresStore keeps the property index in one table named after the
// configured collection.
type PostgresStore struct {
	db    *sql.DB
	table string
	name  string
}

// NewPostgres constructs a PostgreSQL-backed index over collection.
func NewPostgres(db *sql.DB, collection string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		table: pq.QuoteIdentifier(collection),
		name:  collection,
	}
}

// EnsureSchema creates the collection table and its lookup indexes.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			property_id TEXT NOT NULL,
			creator     TEXT NOT NULL,
			owner       TEXT NOT NULL,
			tx_hash     TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (creator)`,
			pq.QuoteIdentifier(s.name+"_creator_idx"), s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (property_id)`,
			pq.QuoteIdentifier(s.name+"_property_id_idx"), s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC)`,
			pq.QuoteIdentifier(s.name+"_created_at_idx"), s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", s.name, err)
		}
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec *models.Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("property record is required")
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, property_id, creator, owner, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, s.table)
	_, err := s.db.ExecContext(ctx, query,
		id,
		rec.Identifier.String(),
		rec.Creator.String(),
		rec.Owner.String(),
		rec.TxHash,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert property record: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListByCreatedDesc(ctx context.Context) ([]*models.Record, error) {
	return s.list(ctx, `ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListByCreator(ctx context.Context, creator domain.Address) ([]*models.Record, error) {
	return s.list(ctx, `WHERE creator = $1 ORDER BY created_at`, creator.String())
}

func (s *PostgresStore) FindByIdentifier(ctx context.Context, id domain.PropertyID) ([]*models.Record, error) {
	return s.list(ctx, `WHERE property_id = $1 ORDER BY created_at`, id.String())
}

func (s *PostgresStore) Update(ctx context.Context, recordID string, patch models.Patch) error {
	var owner, txHash sql.NullString
	if patch.Owner != nil {
		owner = sql.NullString{String: patch.Owner.String(), Valid: true}
	}
	if patch.TxHash != nil {
		txHash = sql.NullString{String: *patch.TxHash, Valid: true}
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET owner = COALESCE($2, owner), tx_hash = COALESCE($3, tx_hash)
		WHERE id = $1`, s.table)
	res, err := s.db.ExecContext(ctx, query, recordID, owner, txHash)
	if err != nil {
		return fmt.Errorf("update property record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update property record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) list(ctx context.Context, clause string, args ...any) ([]*models.Record, error) {
	query := fmt.Sprintf(`
		SELECT id::text, property_id, creator, owner, tx_hash, created_at
		FROM %s %s`, s.table, clause)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query property records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		var (
			rec                        models.Record
			identifier, creator, owner string
		)
		if err := rows.Scan(&rec.ID, &identifier, &creator, &owner, &rec.TxHash, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property record: %w", err)
		}
		rec.Identifier = domain.PropertyID(identifier)
		rec.Creator = domain.Address(creator)
		rec.Owner = domain.Address(owner)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property records: %w", err)
	}
	return out, nil
}
