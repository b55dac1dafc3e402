package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Email kinds
const (
	KindApproval  = "approval"
	KindRejection = "rejection"
)

// Outbox entry status
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// EmailMessage is a transactional outbox entry. Rows are inserted in the
// same database transaction as the status write they notify about, and
// drained by the notification worker.
type EmailMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID uuid.UUID  `gorm:"type:uuid;index" json:"request_id"`
	Kind      string     `gorm:"not null" json:"kind"`
	Recipient string     `gorm:"not null" json:"recipient"`
	Subject   string     `gorm:"not null" json:"subject"`
	Body      string     `gorm:"not null" json:"body"`
	Status    string     `gorm:"not null;default:pending;index" json:"status"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError *string    `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// TableName overrides the gorm default
func (EmailMessage) TableName() string {
	return "email_messages"
}

// AutoMigrate creates the outbox table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&EmailMessage{})
}
