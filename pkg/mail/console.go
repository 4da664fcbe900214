package mail

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer records deliveries in the log instead of sending them.
// Bodies are not logged since they may carry credentials or reset links.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsole constructs a ConsoleMailer.
func NewConsole(logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

// Send implements Mailer.
func (c *ConsoleMailer) Send(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	c.logger.Info("mail delivered to console",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("text_bytes", len(msg.Text)),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
