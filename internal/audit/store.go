package audit

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tair/sweet-shop/kafka"
)

// Movement is one recorded stock change, written by the auditor as it
// consumes stock events.
type Movement struct {
	ID        int64     `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	SweetID   string    `db:"sweet_id" json:"sweet_id"`
	SweetName string    `db:"sweet_name" json:"sweet_name"`
	Operation string    `db:"operation" json:"operation"`
	Amount    int       `db:"amount" json:"amount"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store persists stock movements.
type Store struct {
	db *sqlx.DB
}

// NewStore creates an audit store on an existing connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the stock_movements table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stock_movements (
			id BIGSERIAL PRIMARY KEY,
			event_id TEXT NOT NULL UNIQUE,
			sweet_id TEXT NOT NULL,
			sweet_name TEXT NOT NULL,
			operation TEXT NOT NULL,
			amount INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_stock_movements_sweet_id ON stock_movements (sweet_id)`)
	return err
}

// Record inserts a movement row for a consumed stock event. Replayed
// events are ignored via the event_id unique constraint.
func (s *Store) Record(ctx context.Context, event kafka.StockChangedEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_movements (event_id, sweet_id, sweet_name, operation, amount, quantity, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING`,
		event.EventID, event.SweetID, event.SweetName, event.Operation,
		event.Amount, event.Quantity, event.UserID, event.Timestamp,
	)
	return err
}

// Recent returns the latest movements, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 50
	}

	movements := []Movement{}
	err := s.db.SelectContext(ctx, &movements, `
		SELECT id, event_id, sweet_id, sweet_name, operation, amount, quantity, user_id, created_at
		FROM stock_movements
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// BySweet returns movements for one sweet, newest first.
func (s *Store) BySweet(ctx context.Context, sweetID string, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 50
	}

	movements := []Movement{}
	err := s.db.SelectContext(ctx, &movements, `
		SELECT id, event_id, sweet_id, sweet_name, operation, amount, quantity, user_id, created_at
		FROM stock_movements
		WHERE sweet_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, sweetID, limit)
	if err != nil {
		return nil, err
	}
	return movements, nil
}
