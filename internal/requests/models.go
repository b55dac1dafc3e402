package requests

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Request status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ClientRequest represents a prospective client's project submission and its
// review lifecycle
type ClientRequest struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Email            string         `db:"email" json:"email"`
	Phone            *string        `db:"phone" json:"phone,omitempty"`
	Website          *string        `db:"website" json:"website,omitempty"`
	ProjectBrief     string         `db:"project_brief" json:"project_brief"`
	ProjectTypes     pq.StringArray `db:"project_types" json:"project_types,omitempty"`
	RequestedBudget  *float64       `db:"requested_budget" json:"requested_budget,omitempty"`
	HowHeard         *string        `db:"how_heard" json:"how_heard,omitempty"`
	Socials          *string        `db:"socials" json:"socials,omitempty"`
	GithubLinks      *string        `db:"github_links" json:"github_links,omitempty"`
	InspirationLinks *string        `db:"inspiration_links" json:"inspiration_links,omitempty"`
	LogoURL          *string        `db:"logo_url" json:"logo_url,omitempty"`
	Status           string         `db:"status" json:"status"`
	ReviewedBy       *string        `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes      *string        `db:"review_notes" json:"review_notes,omitempty"`
	RejectionReason  *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// IsPending checks if the request is still awaiting review
func (r *ClientRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsApproved checks if the request has been approved
func (r *ClientRequest) IsApproved() bool {
	return r.Status == StatusApproved
}

// CreateRequestInput is the intake form payload
type CreateRequestInput struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Website          string   `json:"website"`
	ProjectBrief     string   `json:"project_brief"`
	ProjectTypes     []string `json:"project_types"`
	RequestedBudget  *float64 `json:"requested_budget"`
	HowHeard         string   `json:"how_heard"`
	Socials          string   `json:"socials"`
	GithubLinks      string   `json:"github_links"`
	InspirationLinks string   `json:"inspiration_links"`
	LogoURL          string   `json:"logo_url"`
}

// ApproveInput is the approval transition payload
type ApproveInput struct {
	ReviewNotes string `json:"review_notes"`
}

// RejectInput is the rejection transition payload
type RejectInput struct {
	ReviewNotes     string `json:"review_notes"`
	RejectionReason string `json:"rejection_reason"`
}

// ResendResponse is the resend-approval-email response body
type ResendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
