package notify

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository persists failed notification attempts so operators can observe
// them without notification outages ever touching the transactional path.
type Repository interface {
	SaveDeadLetter(ctx context.Context, kind, recipient, subject, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveDeadLetter(ctx context.Context, kind, recipient, subject, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_deadletter (kind, recipient, subject, reason)
		VALUES ($1, $2, $3, $4)
	`, kind, recipient, subject, reason)
	if err != nil {
		return fmt.Errorf("failed to save notification dead letter: %w", err)
	}
	return nil
}
