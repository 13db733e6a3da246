package notify

import (
	"context"
	"log/slog"

	"loglens/internal/export"
)

// LogNotifier is the development fallback when no SMTP relay is configured:
// deliveries are recorded in the log instead of sent, so the async export
// path stays exercisable without a mail server.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, recipient, subject, _ string, att export.Attachment) error {
	n.logger.InfoContext(ctx, "smtp relay not configured, logging delivery instead",
		"recipient", recipient,
		"subject", subject,
		"filename", att.Filename,
		"bytes", len(att.Bytes),
	)
	return nil
}
