// Package email sends transactional mail over SMTP. Bodies are written in
// Markdown and delivered as a plain-text part with an HTML alternative.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ecohubs/internal/integrations"
)

const integrationName = "smtp"

// DefaultTimeout bounds connect and every SMTP command.
const DefaultTimeout = 10 * time.Second

type Config struct {
	Host     string
	Port     int
	Secure   bool
	User     string
	Password string
	From     string
	FromName string
}

// Message is one outgoing mail. Markdown is sent verbatim as text/plain and
// rendered for the text/html alternative.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	Markdown string
}

// Transport delivers composed messages. *mail.Client satisfies it.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Mailer struct {
	transport Transport
	from      string
	fromName  string
	markdown  goldmark.Markdown
}

// NewClient builds the go-mail SMTP client for cfg. SMTP auth is enabled
// only when both user and password are set; STARTTLS is opportunistic unless
// Secure requests implicit TLS.
func NewClient(cfg Config) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(DefaultTimeout),
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.User != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return client, nil
}

func New(transport Transport, from, fromName string) *Mailer {
	return &Mailer{
		transport: transport,
		from:      from,
		fromName:  fromName,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Send composes and delivers msg. Failures are returned as
// *integrations.Error.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	composed, err := m.compose(msg)
	if err != nil {
		return err
	}
	if err := m.transport.DialAndSendWithContext(ctx, composed); err != nil {
		return classify(err)
	}
	return nil
}

func (m *Mailer) compose(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, integrations.NewError(integrations.CategoryValidation, integrationName, "no recipients", nil)
	}
	out := mail.NewMsg()
	if err := out.FromFormat(m.fromName, m.from); err != nil {
		return nil, integrations.NewError(integrations.CategoryValidation, integrationName, "invalid sender address", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, integrations.NewError(integrations.CategoryValidation, integrationName, "invalid recipient address", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, integrations.NewError(integrations.CategoryValidation, integrationName, "invalid reply-to address", err)
		}
	}
	out.Subject(msg.Subject)

	html, err := m.Render(msg.Markdown)
	if err != nil {
		return nil, integrations.NewError(integrations.CategoryInternal, integrationName, "render body", err)
	}
	out.SetBodyString(mail.TypeTextPlain, msg.Markdown)
	out.AddAlternativeString(mail.TypeTextHTML, html)
	return out, nil
}

// Render converts a Markdown body to an HTML document. Raw HTML in the
// source is not passed through.
func (m *Mailer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"></head><body style="font-family:sans-serif;line-height:1.6;color:#1f2937">`)
	if err := m.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	buf.WriteString(`</body></html>`)
	return buf.String(), nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return integrations.NewError(integrations.CategoryTimeout, integrationName, "smtp timed out", err)
	}
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && !sendErr.IsTemp() {
		return integrations.NewError(integrations.CategoryValidation, integrationName, "message rejected", err)
	}
	return integrations.TransportError(integrationName, err)
}
