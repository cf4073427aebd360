package email

import (
	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
	"github.com/orris-inc/rbnotify/internal/shared/config"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/services/markdown"
)

// Composer applies site-wide email settings on top of MakeEmail.
type Composer struct {
	cfg      config.EmailConfig
	markdown markdown.MarkdownService
	logger   logger.Interface
}

// NewComposer creates a Composer. markdownService may be nil when no HTML
// alternative is wanted.
func NewComposer(cfg config.EmailConfig, markdownService markdown.MarkdownService, logger logger.Interface) *Composer {
	return &Composer{cfg: cfg, markdown: markdownService, logger: logger}
}

// Compose builds the message for to from tpl.
func (c *Composer) Compose(to string, tpl *template.Module, opts ...Option) (*Message, error) {
	base := []Option{
		WithFrom(c.cfg.FromAddress, c.cfg.FromName),
		WithSubjectPrefix(c.cfg.SubjectPrefix),
	}
	if c.cfg.ReplyTo != "" {
		base = append(base, WithReplyTo(c.cfg.ReplyTo))
	}

	m, err := MakeEmail(to, tpl, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if m.HTML == "" && c.cfg.HTMLAlternative && c.markdown != nil {
		html, err := c.markdown.ToHTMLSanitized(m.Body)
		if err != nil {
			c.logger.Warnw("failed to render html alternative", "template", m.Template, "error", err)
		} else {
			m.HTML = html
		}
	}
	return m, nil
}
