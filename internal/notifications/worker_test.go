package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg *EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg.Recipient)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func enqueue(t *testing.T, db *gorm.DB, recipient string) *EmailMessage {
	msg := &EmailMessage{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		Kind:      KindApproval,
		Recipient: recipient,
		Subject:   "subject",
		Body:      "body",
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

func testWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  time.Second,
		BatchSize:     10,
		MaxConcurrent: 1,
		MaxAttempts:   2,
	}
}

func TestWorkerSendsPendingEmails(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}
	worker := NewWorker(db, sender, zap.NewNop(), testWorkerConfig())

	enqueue(t, db, "a@x.com")
	enqueue(t, db, "b@x.com")

	worker.ProcessPending(context.Background())

	assert.Equal(t, 2, sender.count())

	var sent []EmailMessage
	require.NoError(t, db.Where("status = ?", StatusSent).Find(&sent).Error)
	assert.Len(t, sent, 2)
	for _, msg := range sent {
		assert.Equal(t, 1, msg.Attempts)
		assert.NotNil(t, msg.SentAt)
	}
}

func TestWorkerRetriesThenMarksFailed(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{err: errors.New("ses unavailable")}
	worker := NewWorker(db, sender, zap.NewNop(), testWorkerConfig())

	msg := enqueue(t, db, "a@x.com")

	// First attempt leaves the message pending with the error recorded
	worker.ProcessPending(context.Background())

	var after EmailMessage
	require.NoError(t, db.First(&after, "id = ?", msg.ID).Error)
	assert.Equal(t, StatusPending, after.Status)
	assert.Equal(t, 1, after.Attempts)
	require.NotNil(t, after.LastError)
	assert.Contains(t, *after.LastError, "ses unavailable")

	// Second attempt exhausts MaxAttempts
	worker.ProcessPending(context.Background())

	require.NoError(t, db.First(&after, "id = ?", msg.ID).Error)
	assert.Equal(t, StatusFailed, after.Status)
	assert.Equal(t, 2, after.Attempts)

	// Failed messages are not picked up again
	worker.ProcessPending(context.Background())

	require.NoError(t, db.First(&after, "id = ?", msg.ID).Error)
	assert.Equal(t, 2, after.Attempts)
}

func TestWorkerLogsFailedStatusUpdate(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}

	core, logs := observer.New(zap.ErrorLevel)
	worker := NewWorker(db, sender, zap.New(core), testWorkerConfig())

	msg := enqueue(t, db, "a@x.com")

	// Dropping the table makes the post-send status update fail
	require.NoError(t, db.Migrator().DropTable(&EmailMessage{}))

	worker.deliver(context.Background(), msg)

	assert.Equal(t, 1, sender.count())
	require.Equal(t, 1, logs.FilterMessage("Failed to mark email as sent").Len())
}

func TestWorkerSkipsSentEmails(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}
	worker := NewWorker(db, sender, zap.NewNop(), testWorkerConfig())

	enqueue(t, db, "a@x.com")

	worker.ProcessPending(context.Background())
	worker.ProcessPending(context.Background())

	assert.Equal(t, 1, sender.count())
}
