package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPSender sends through an SMTP relay
type SMTPSender struct {
	client  *gomail.Client
	from    string
	replyTo []string
	logger  *zap.Logger
}

// NewSMTPSender creates a sender from the mail configuration
func NewSMTPSender(cfg *config.MailConfig, logger *zap.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail host is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("mail default_from is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	} else {
		opts = append(opts, gomail.WithTimeout(30*time.Second))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPSender{
		client:  client,
		from:    cfg.DefaultFrom,
		replyTo: cfg.ReplyTo,
		logger:  logger,
	}, nil
}

func tlsPolicy(policy string) gomail.TLSPolicy {
	switch strings.ToLower(policy) {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}

// Send implements Sender
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}

// build converts msg into a go-mail message, applying the configured
// sender and reply-to defaults
func (s *SMTPSender) build(msg *Message) (*gomail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	m := gomail.NewMsg()
	from := msg.From
	if from == "" {
		from = s.from
	}
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("invalid cc address: %w", err)
		}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, fmt.Errorf("invalid bcc address: %w", err)
		}
	}
	replyTo := msg.ReplyTo
	if len(replyTo) == 0 {
		replyTo = s.replyTo
	}
	if len(replyTo) > 0 {
		m.SetGenHeader(gomail.HeaderReplyTo, strings.Join(replyTo, ", "))
	}

	m.Subject(msg.Subject)
	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	}

	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Content),
			gomail.WithFileContentType(gomail.ContentType(ct))); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.Filename, err)
		}
	}
	for _, img := range msg.Inline {
		if err := m.EmbedReader(img.Filename, bytes.NewReader(img.Content),
			gomail.WithFileContentType(gomail.ContentType(img.ContentType)),
			gomail.WithFileContentID(img.ContentID)); err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", img.Filename, err)
		}
	}
	return m, nil
}
