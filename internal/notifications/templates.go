package notifications

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/google/uuid"
)

const (
	approvalSubject  = "Your project request has been approved!"
	rejectionSubject = "An update on your project request"
)

var approvalTmpl = template.Must(template.New("approval").Parse(
	`Hi {{.Name}},

Congratulations! Your project request has been approved. You can now access your client dashboard at B0ASE.COM.

We'll be in touch soon with next steps.

Best,
The B0ASE Team
`))

var rejectionTmpl = template.Must(template.New("rejection").Parse(
	`Hi {{.Name}},

Thank you for your interest in working with B0ASE. After reviewing your project request, we're unable to take it on at this time.

Reason: {{.Reason}}

You're welcome to submit a revised request in the future.

Best,
The B0ASE Team
`))

// BuildApproval composes a pending approval email for a client request
func BuildApproval(requestID uuid.UUID, name, email string) (*EmailMessage, error) {
	var body bytes.Buffer
	if err := approvalTmpl.Execute(&body, struct{ Name string }{Name: name}); err != nil {
		return nil, fmt.Errorf("failed to render approval email: %w", err)
	}

	return &EmailMessage{
		ID:        uuid.New(),
		RequestID: requestID,
		Kind:      KindApproval,
		Recipient: email,
		Subject:   approvalSubject,
		Body:      body.String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// BuildRejection composes a pending rejection email carrying the reason
func BuildRejection(requestID uuid.UUID, name, email, reason string) (*EmailMessage, error) {
	var body bytes.Buffer
	err := rejectionTmpl.Execute(&body, struct {
		Name   string
		Reason string
	}{Name: name, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("failed to render rejection email: %w", err)
	}

	return &EmailMessage{
		ID:        uuid.New(),
		RequestID: requestID,
		Kind:      KindRejection,
		Recipient: email,
		Subject:   rejectionSubject,
		Body:      body.String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}
