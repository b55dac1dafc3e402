package clients

import (
	"time"

	"github.com/google/uuid"
)

// Client is an approved client promoted from a client request
type Client struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Website         *string    `db:"website" json:"website,omitempty"`
	LogoURL         *string    `db:"logo_url" json:"logo_url,omitempty"`
	ProjectBrief    *string    `db:"project_brief" json:"project_brief,omitempty"`
	SourceRequestID *uuid.UUID `db:"source_request_id" json:"source_request_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
