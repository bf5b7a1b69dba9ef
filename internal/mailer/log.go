package mailer

import "go.uber.org/zap"

// LogMailer records messages instead of delivering them. It stands in for
// the SMTP mailer when no relay is configured, so local environments work
// without one.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(msg Message) error {
	m.log.Info("email delivery skipped, no smtp relay configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
