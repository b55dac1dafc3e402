package notifications

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Worker drains the email outbox
type Worker struct {
	db     *gorm.DB
	sender Sender
	logger *zap.Logger
	config WorkerConfig
	done   chan struct{}
}

// WorkerConfig configuration for the outbox worker
type WorkerConfig struct {
	PollInterval  time.Duration
	BatchSize     int
	MaxConcurrent int
	MaxAttempts   int
}

// DefaultWorkerConfig returns default configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  30 * time.Second,
		BatchSize:     10,
		MaxConcurrent: 5,
		MaxAttempts:   3,
	}
}

// NewWorker creates a new outbox worker
func NewWorker(db *gorm.DB, sender Sender, logger *zap.Logger, config WorkerConfig) *Worker {
	return &Worker{
		db:     db,
		sender: sender,
		logger: logger,
		config: config,
		done:   make(chan struct{}),
	}
}

// Start starts the worker loop
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("max_concurrent", w.config.MaxConcurrent))

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process any pending messages immediately
	w.ProcessPending(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Notification worker shutting down")
			return nil
		case <-w.done:
			w.logger.Info("Notification worker stopped")
			return nil
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	close(w.done)
}

// ProcessPending sends one batch of pending outbox messages
func (w *Worker) ProcessPending(ctx context.Context) {
	var messages []*EmailMessage
	err := w.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(w.config.BatchSize).
		Find(&messages).Error
	if err != nil {
		w.logger.Error("Failed to load pending emails", zap.Error(err))
		return
	}

	if len(messages) == 0 {
		return
	}

	w.logger.Info("Processing pending emails", zap.Int("count", len(messages)))

	sem := make(chan struct{}, w.config.MaxConcurrent)

	for _, msg := range messages {
		sem <- struct{}{} // Acquire semaphore

		go func(m *EmailMessage) {
			defer func() { <-sem }() // Release semaphore

			w.deliver(ctx, m)
		}(msg)
	}

	// Wait for all goroutines to finish
	for i := 0; i < w.config.MaxConcurrent; i++ {
		sem <- struct{}{}
	}
}

// deliver attempts one send and records the outcome
func (w *Worker) deliver(ctx context.Context, msg *EmailMessage) {
	attempts := msg.Attempts + 1

	if err := w.sender.Send(ctx, msg); err != nil {
		w.logger.Error("Email delivery failed",
			zap.String("id", msg.ID.String()),
			zap.String("recipient", msg.Recipient),
			zap.Int("attempts", attempts),
			zap.Error(err))

		status := StatusPending
		if attempts >= w.config.MaxAttempts {
			status = StatusFailed
		}

		errText := err.Error()
		updateErr := w.db.WithContext(ctx).Model(msg).Updates(map[string]interface{}{
			"attempts":   attempts,
			"status":     status,
			"last_error": errText,
		}).Error
		if updateErr != nil {
			w.logger.Error("Failed to record delivery failure",
				zap.String("id", msg.ID.String()),
				zap.Error(updateErr))
		}
		return
	}

	now := time.Now()
	// If this update fails the message stays pending and is delivered again
	// on the next poll. Duplicates are acceptable; silent loss is not.
	updateErr := w.db.WithContext(ctx).Model(msg).Updates(map[string]interface{}{
		"attempts": attempts,
		"status":   StatusSent,
		"sent_at":  now,
	}).Error
	if updateErr != nil {
		w.logger.Error("Failed to mark email as sent",
			zap.String("id", msg.ID.String()),
			zap.String("recipient", msg.Recipient),
			zap.Error(updateErr))
		return
	}

	w.logger.Info("Email sent",
		zap.String("id", msg.ID.String()),
		zap.String("kind", msg.Kind),
		zap.String("recipient", msg.Recipient))
}
