package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and integration clients
// return these (optionally wrapped) so services can translate them into
// domain errors:
//   - ErrNotFound: record, post or proposal does not exist upstream
//   - ErrConflict: record already exists
//   - ErrUnavailable: dependency temporarily unreachable
//   - ErrNotConfigured: integration credentials are absent, feature disabled
//   - ErrInvalidState: a call violates a precondition of the store
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("unavailable")
	ErrNotConfigured = errors.New("not configured")
	ErrInvalidState  = errors.New("invalid state")
)
