// Package mail sends multipart emails over SMTP with go-mail.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Attachment is a file attached to a message
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// InlineImage is an image referenced from the HTML body as cid:<ContentID>
type InlineImage struct {
	ContentID   string
	Filename    string
	Content     []byte
	ContentType string
}

// Message is a transport independent email
type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
	Inline      []InlineImage
}

// Validate checks the fields every transport needs
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if m.TextBody == "" && m.HTMLBody == "" {
		return errors.New("message body is empty")
	}
	return nil
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Result mirrors what the email tasks report back
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Deliver sends msg and folds the outcome into a Result
func Deliver(ctx context.Context, sender Sender, msg *Message, logger *zap.Logger) Result {
	to := strings.Join(msg.To, ",")
	if err := sender.Send(ctx, msg); err != nil {
		logger.Error("Failed to send email", zap.String("to", to), zap.Error(err))
		return Result{Success: false, Message: fmt.Sprintf("Failed to send email: %s", err)}
	}
	logger.Info("Email sent successfully", zap.String("to", to))
	return Result{Success: true, Message: "Email sent successfully"}
}

// LogSender records messages instead of sending them. It is used when no
// SMTP host is configured, and by tests.
type LogSender struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []*Message
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender
func (s *LogSender) Send(_ context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.logger.Info("Email captured",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

// Sent returns the captured messages
func (s *LogSender) Sent() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Message(nil), s.sent...)
}

var (
	_ Sender = (*LogSender)(nil)
	_ Sender = (*SMTPSender)(nil)
)
