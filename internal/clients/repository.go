package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound means no client exists for the given lookup
var ErrNotFound = errors.New("client not found")

// Repository defines the interface for client data access
type Repository interface {
	List(ctx context.Context) ([]*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Client, error) {
	query := `
		SELECT id, name, email, phone, website, logo_url, project_brief, source_request_id, created_at
		FROM clients
		ORDER BY created_at DESC
	`

	var result []*Client
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Client, error) {
	query := `
		SELECT id, name, email, phone, website, logo_url, project_brief, source_request_id, created_at
		FROM clients
		WHERE email = $1
	`

	var client Client
	if err := r.db.GetContext(ctx, &client, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}
