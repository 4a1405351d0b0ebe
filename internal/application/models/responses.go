package models

import "ecohubs/internal/application/schema"

// FailureResponse is the body for a rejected submission.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ValidationResponse is the body for a 400 with field detail.
type ValidationResponse struct {
	Success bool               `json:"success"`
	Errors  schema.FieldErrors `json:"errors"`
}

// QuestionsResponse describes the form for rendering.
type QuestionsResponse struct {
	Pages  int            `json:"pages"`
	Fields []schema.Field `json:"fields"`
}

// SubmissionsResponse lists recent submission log records.
type SubmissionsResponse struct {
	Submissions []Record `json:"submissions"`
}
