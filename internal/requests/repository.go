package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/b0ase/portal-backend/internal/notifications"
)

// Repository defines the interface for client request data access
type Repository interface {
	Create(ctx context.Context, req *ClientRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClientRequest, error)
	List(ctx context.Context) ([]*ClientRequest, error)

	// Approve and Reject perform a guarded pending-to-terminal transition.
	// The status write, the outbox enqueue and (for Approve) the client
	// promotion happen in one transaction. They return ErrNotFound if the
	// row does not exist and ErrAlreadyReviewed if it is no longer pending.
	Approve(ctx context.Context, id uuid.UUID, reviewedBy string, reviewNotes *string, email *notifications.EmailMessage) (*ClientRequest, error)
	Reject(ctx context.Context, id uuid.UUID, reviewedBy string, reviewNotes *string, rejectionReason string, email *notifications.EmailMessage) (*ClientRequest, error)

	// EnqueueEmail inserts an outbox row outside any transition (resend)
	EnqueueEmail(ctx context.Context, email *notifications.EmailMessage) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, name, email, phone, website, project_brief, project_types,
	requested_budget, how_heard, socials, github_links, inspiration_links, logo_url,
	status, reviewed_by, reviewed_at, review_notes, rejection_reason, created_at`

func (r *PostgresRepository) Create(ctx context.Context, req *ClientRequest) error {
	query := `
		INSERT INTO client_requests (
			id, name, email, phone, website, project_brief, project_types,
			requested_budget, how_heard, socials, github_links, inspiration_links,
			logo_url, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.Name, req.Email, req.Phone, req.Website, req.ProjectBrief,
		req.ProjectTypes, req.RequestedBudget, req.HowHeard, req.Socials,
		req.GithubLinks, req.InspirationLinks, req.LogoURL, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*ClientRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM client_requests WHERE id = $1`

	var req ClientRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client request: %w", err)
	}

	return &req, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*ClientRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM client_requests ORDER BY created_at DESC`

	var result []*ClientRequest
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("failed to list client requests: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Approve(ctx context.Context, id uuid.UUID, reviewedBy string, reviewNotes *string, email *notifications.EmailMessage) (*ClientRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := r.transition(ctx, tx, id, StatusApproved, reviewedBy, reviewNotes, nil)
	if err != nil {
		return nil, err
	}

	if err := insertEmailTx(ctx, tx, email); err != nil {
		return nil, err
	}

	if err := promoteClientTx(ctx, tx, req); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	return req, nil
}

func (r *PostgresRepository) Reject(ctx context.Context, id uuid.UUID, reviewedBy string, reviewNotes *string, rejectionReason string, email *notifications.EmailMessage) (*ClientRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := r.transition(ctx, tx, id, StatusRejected, reviewedBy, reviewNotes, &rejectionReason)
	if err != nil {
		return nil, err
	}

	if err := insertEmailTx(ctx, tx, email); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}

	return req, nil
}

func (r *PostgresRepository) EnqueueEmail(ctx context.Context, email *notifications.EmailMessage) error {
	query := `
		INSERT INTO email_messages (id, request_id, kind, recipient, subject, body, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		email.ID, email.RequestID, email.Kind, email.Recipient,
		email.Subject, email.Body, email.Status, email.Attempts, email.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	return nil
}

// transition performs the compare-and-swap status update. The WHERE clause
// on status arbitrates concurrent reviews: the loser sees zero rows.
func (r *PostgresRepository) transition(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, toStatus, reviewedBy string, reviewNotes, rejectionReason *string) (*ClientRequest, error) {
	query := `
		UPDATE client_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, review_notes = $5, rejection_reason = $6
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns

	var req ClientRequest
	err := tx.GetContext(ctx, &req, query, id, toStatus, reviewedBy, time.Now(), reviewNotes, rejectionReason)
	if err == nil {
		return &req, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update client request: %w", err)
	}

	// Zero rows: distinguish missing from already-reviewed
	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM client_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check client request status: %w", err)
	}

	return nil, ErrAlreadyReviewed
}

func insertEmailTx(ctx context.Context, tx *sqlx.Tx, email *notifications.EmailMessage) error {
	query := `
		INSERT INTO email_messages (id, request_id, kind, recipient, subject, body, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.ExecContext(ctx, query,
		email.ID, email.RequestID, email.Kind, email.Recipient,
		email.Subject, email.Body, email.Status, email.Attempts, email.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	return nil
}

// promoteClientTx inserts the approved request into the clients table unless
// a client with that email already exists
func promoteClientTx(ctx context.Context, tx *sqlx.Tx, req *ClientRequest) error {
	query := `
		INSERT INTO clients (id, name, email, phone, website, logo_url, project_brief, source_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO NOTHING
	`

	_, err := tx.ExecContext(ctx, query,
		uuid.New(), req.Name, req.Email, req.Phone, req.Website,
		req.LogoURL, req.ProjectBrief, req.ID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to promote client: %w", err)
	}

	return nil
}
