package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/b0ase/portal-backend/internal/notifications"
	"github.com/b0ase/portal-backend/pkg/workflows"
)

// Service provides client request business logic
type Service struct {
	repo   Repository
	sm     *workflows.StateMachine
	logger *zap.Logger
}

// NewService creates a new client request service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		sm:     workflows.NewStateMachine(),
		logger: logger,
	}
}

// CreateRequest validates and stores a new intake submission
func (s *Service) CreateRequest(ctx context.Context, input *CreateRequestInput) (*ClientRequest, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	brief := strings.TrimSpace(input.ProjectBrief)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if brief == "" {
		return nil, fmt.Errorf("%w: project_brief is required", ErrValidation)
	}

	req := &ClientRequest{
		ID:               uuid.New(),
		Name:             name,
		Email:            email,
		Phone:            optional(input.Phone),
		Website:          optional(input.Website),
		ProjectBrief:     brief,
		ProjectTypes:     input.ProjectTypes,
		RequestedBudget:  input.RequestedBudget,
		HowHeard:         optional(input.HowHeard),
		Socials:          optional(input.Socials),
		GithubLinks:      optional(input.GithubLinks),
		InspirationLinks: optional(input.InspirationLinks),
		LogoURL:          optional(input.LogoURL),
		Status:           StatusPending,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Client request created",
		zap.String("id", req.ID.String()),
		zap.String("email", req.Email))

	return req, nil
}

// ListRequests returns all requests, newest first
func (s *Service) ListRequests(ctx context.Context) ([]*ClientRequest, error) {
	return s.repo.List(ctx)
}

// GetRequest returns one request by id
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*ClientRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve transitions a pending request to approved, enqueues the approval
// email and promotes the requester to a client
func (s *Service) Approve(ctx context.Context, id uuid.UUID, reviewedBy string, input *ApproveInput) (*ClientRequest, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.sm.CanTransition(current.Status, StatusApproved) {
		return nil, ErrAlreadyReviewed
	}

	email, err := notifications.BuildApproval(current.ID, current.Name, current.Email)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.Approve(ctx, id, reviewedBy, optional(input.ReviewNotes), email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client request approved",
		zap.String("id", id.String()),
		zap.String("reviewed_by", reviewedBy))

	return req, nil
}

// Reject transitions a pending request to rejected. The rejection reason is
// mandatory and is included in the notification email.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reviewedBy string, input *RejectInput) (*ClientRequest, error) {
	reason := strings.TrimSpace(input.RejectionReason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection_reason is required", ErrValidation)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.sm.CanTransition(current.Status, StatusRejected) {
		return nil, ErrAlreadyReviewed
	}

	email, err := notifications.BuildRejection(current.ID, current.Name, current.Email, reason)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.Reject(ctx, id, reviewedBy, optional(input.ReviewNotes), reason, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client request rejected",
		zap.String("id", id.String()),
		zap.String("reviewed_by", reviewedBy))

	return req, nil
}

// ResendApprovalEmail enqueues another approval email for an already-approved
// request. Stored request fields are never touched.
func (s *Service) ResendApprovalEmail(ctx context.Context, id uuid.UUID) (string, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !req.IsApproved() {
		return "", ErrNotApproved
	}

	email, err := notifications.BuildApproval(req.ID, req.Name, req.Email)
	if err != nil {
		return "", err
	}

	if err := s.repo.EnqueueEmail(ctx, email); err != nil {
		return "", err
	}

	s.logger.Info("Approval email re-enqueued",
		zap.String("id", id.String()),
		zap.String("recipient", req.Email))

	return fmt.Sprintf("Approval email resent to %s", req.Email), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
