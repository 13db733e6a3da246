// Package notify implements the outbound notification channel over SMTP.
// The channel contract is best-effort: callers own retry decisions, this
// package only builds and hands off the message.
package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"loglens/internal/export"
)

// SMTPConfig carries the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends messages with a single attachment through an SMTP
// relay. It implements export.Notifier.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier builds a notifier. Returns an error when the relay is not
// configured so the caller can decide whether export delivery is available.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("smtp host, port, and from address are required")
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}, nil
}

// Send builds a MIME multipart message with the attachment and submits it.
// The context only gates the call; net/smtp handles the dial timeout.
func (n *SMTPNotifier) Send(ctx context.Context, recipient, subject, body string, att export.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipient == "" {
		return fmt.Errorf("recipient address is required")
	}

	msg, err := buildMessage(n.cfg.From, recipient, subject, body, att)
	if err != nil {
		return fmt.Errorf("build notification message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, auth, n.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string, att export.Attachment) ([]byte, error) {
	var sb strings.Builder
	mw := multipart.NewWriter(&sb)

	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%q\r\n\r\n",
		from, to, subject, mw.Boundary(),
	)

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", att.MIMEType)
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	attPart, err := mw.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(att.Bytes)
	if _, err := attPart.Write([]byte(encoded)); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return []byte(headers + sb.String()), nil
}
