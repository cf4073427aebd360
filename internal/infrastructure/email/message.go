package email

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
)

var (
	ErrNoRecipient               = errors.New("email has no recipient")
	ErrNoTemplate                = errors.New("email template is required")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
)

// Message is a transport-ready email. It is plain data so it can be queued
// and delivered later by a Sender.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	FromName  string    `json:"from_name,omitempty"`
	To        []string  `json:"to"`
	CC        []string  `json:"cc,omitempty"`
	BCC       []string  `json:"bcc,omitempty"`
	ReplyTo   string    `json:"reply_to,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	HTML      string    `json:"html,omitempty"`
	Template  string    `json:"template,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

// Recipients returns every envelope recipient.
func (m *Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.CC)+len(m.BCC))
	out = append(out, m.To...)
	out = append(out, m.CC...)
	return append(out, m.BCC...)
}

// Option customizes a message built by MakeEmail.
type Option func(*Message)

func WithCC(addrs ...string) Option {
	return func(m *Message) { m.CC = append(m.CC, cleanAddrs(addrs)...) }
}

func WithBCC(addrs ...string) Option {
	return func(m *Message) { m.BCC = append(m.BCC, cleanAddrs(addrs)...) }
}

func WithFrom(addr, name string) Option {
	return func(m *Message) {
		m.From = strings.TrimSpace(addr)
		m.FromName = strings.TrimSpace(name)
	}
}

func WithReplyTo(addr string) Option {
	return func(m *Message) { m.ReplyTo = strings.TrimSpace(addr) }
}

// WithSubjectPrefix prepends "[prefix] " to the subject.
func WithSubjectPrefix(prefix string) Option {
	return func(m *Message) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			m.Subject = "[" + prefix + "] " + m.Subject
		}
	}
}

// MakeEmail builds a message addressed to to from a rendered template.
func MakeEmail(to string, tpl *template.Module, opts ...Option) (*Message, error) {
	recipients := cleanAddrs([]string{to})
	if len(recipients) == 0 {
		return nil, ErrNoRecipient
	}
	if tpl == nil {
		return nil, ErrNoTemplate
	}

	m := &Message{
		ID:        uuid.NewString(),
		To:        recipients,
		Subject:   tpl.Subject,
		Body:      tpl.Body,
		HTML:      tpl.HTML,
		Template:  tpl.Path,
		CreatedAt: time.Now().UTC(),
	}
	if tpl.Locale.String() != "und" {
		m.Locale = tpl.Locale.String()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MessageIDHeader returns the RFC 5322 Message-ID for m.
func (m *Message) MessageIDHeader(domain string) string {
	if domain == "" {
		domain = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", m.ID, domain)
}

func cleanAddrs(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
