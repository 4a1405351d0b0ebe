package models

import (
	"strings"
	"time"

	dErrors "ecohubs/pkg/domain-errors"
)

// Identity is the verified admin attached to a request.
type Identity struct {
	Address   string
	IsOwner   bool
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Subject is what a session token is issued for.
type Subject struct {
	Address string
	IsOwner bool
}

// VerifyRequest is the wallet sign-in payload.
type VerifyRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

func (r *VerifyRequest) Validate() error {
	r.Address = strings.TrimSpace(r.Address)
	r.Signature = strings.TrimSpace(r.Signature)
	if r.Address == "" || r.Signature == "" || r.Message == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Missing required fields: address, signature, message")
	}
	return nil
}

// VerifyResult is returned on a successful sign-in.
type VerifyResult struct {
	Address   string
	Token     string
	ExpiresAt time.Time
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Address string `json:"address"`
}

// Challenge is the message a wallet is asked to sign.
type Challenge struct {
	Message  string    `json:"message"`
	Nonce    string    `json:"nonce"`
	IssuedAt time.Time `json:"issued_at"`
	Enabled  bool      `json:"enabled"`
}
