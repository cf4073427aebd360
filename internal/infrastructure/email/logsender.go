package email

import (
	"context"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/utils"
)

// LogSender writes messages to the log instead of sending them. It stands
// in when no SMTP host is configured.
type LogSender struct {
	logger logger.Interface
}

func NewLogSender(logger logger.Interface) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.logger.Infow("email not sent, smtp not configured",
		"message_id", msg.ID,
		"to", utils.MaskEmails(msg.To),
		"subject", msg.Subject,
		"template", msg.Template,
	)
	s.logger.Debugw("email body", "message_id", msg.ID, "body", msg.Body)
	return nil
}

// NewSender picks the SMTP sender when configured, else a LogSender.
func NewSender(smtpConfigured bool, smtp *SMTPSender, logger logger.Interface) Sender {
	if smtpConfigured && smtp != nil {
		return smtp
	}
	logger.Warnw("smtp host is empty, emails will only be logged")
	return NewLogSender(logger)
}
