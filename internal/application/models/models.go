// Package models holds the application submission types.
package models

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ecohubs/internal/application/schema"
	"ecohubs/internal/pipeline"
)

// Submission is one validated application on its way through the sinks.
type Submission struct {
	ID          uuid.UUID
	Answers     schema.Answers
	SubmittedAt time.Time
	RequestID   string
}

func (s *Submission) Email() string    { return s.Answers.String("email") }
func (s *Submission) FullName() string { return s.Answers.String("fullName") }

// SubmitResult is returned to the applicant.
type SubmitResult struct {
	Success      bool            `json:"success"`
	SubmissionID string          `json:"submission_id"`
	Sinks        pipeline.Report `json:"sinks"`
}

// Record is one entry of the submission log.
type Record struct {
	SubmissionID string          `json:"submission_id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	Report       pipeline.Report `json:"report"`
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields schema.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("application invalid: %d field(s)", len(e.Fields))
}

// RejectedError is a submission failure relayed to the applicant with its
// own status and message.
type RejectedError struct {
	Status  int
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission rejected (%d): %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("submission rejected (%d): %s", e.Status, e.Message)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// Messages shown to applicants.
const (
	MsgTooManyApplications = "Too many applications submitted. Please try again later."
	MsgUpstreamFailed      = "Failed to submit application. Please try again."
	MsgUpstreamUnreachable = "Unable to submit application. Please try again later."
	MsgChallengeRequired   = "Please complete the verification challenge."
	MsgChallengeFailed     = "Bot verification failed. Please try again."
)

// Rejected builds a RejectedError.
func Rejected(status int, message string, err error) *RejectedError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &RejectedError{Status: status, Message: message, Err: err}
}
