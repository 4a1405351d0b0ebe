// Package turnstile verifies Cloudflare Turnstile bot-check tokens.
package turnstile

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ecohubs/internal/integrations"
)

const (
	integrationName  = "turnstile"
	DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

	// FormField is the form field the widget posts its token in.
	FormField = "cf-turnstile-response"
)

type Result struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier checks tokens against siteverify. A Verifier without a secret
// is disabled and Enabled reports false.
type Verifier struct {
	http      integrations.Doer
	secret    string
	verifyURL string
}

func New(secret string, doer integrations.Doer) *Verifier {
	return &Verifier{http: doer, secret: secret, verifyURL: DefaultVerifyURL}
}

// WithURL points the verifier at another siteverify endpoint.
func (v *Verifier) WithURL(u string) *Verifier {
	v.verifyURL = u
	return v
}

func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// Verify submits token. Transport failures are reported as an unsuccessful
// result with the "network-error" code together with the error.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (Result, error) {
	form := url.Values{"secret": {v.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	var res Result
	err := integrations.DoJSON(ctx, v.http, integrationName, integrations.Request{
		Method:  http.MethodPost,
		URL:     v.verifyURL,
		Header:  http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		RawBody: strings.NewReader(form.Encode()),
	}, &res)
	if err != nil {
		return Result{ErrorCodes: []string{"network-error"}}, err
	}
	return res, nil
}
