package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/mail"
	"github.com/kkambbaki/backend/internal/infrastructure/printing"
	"github.com/kkambbaki/backend/internal/infrastructure/telemetry"
)

// Demo email defaults
const (
	DefaultDemoTitle   = "제목 없음"
	DefaultDemoContent = "내용 없음"
)

const logoContentID = "logo"

var errNoReportSource = errors.New("site_url or pdf_file_path must be provided")

var reportEmailTemplate = template.Must(template.New("report_email").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<title>[{{.SiteName}}] 집중력 분석 레포트</title>
</head>
<body style="margin:0;padding:0;font-family:'Apple SD Gothic Neo','Malgun Gothic',sans-serif;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:0 auto;">
  <tr>
    <td style="background-color:#FFE3A7;padding:24px;text-align:center;">
      {{if .HasLogo}}<img src="cid:logo" alt="{{.SiteName}}" style="height:48px;">{{else}}<strong>{{.SiteName}}</strong>{{end}}
    </td>
  </tr>
  <tr>
    <td style="background-color:#FFF4DF;padding:32px 24px;line-height:1.6;color:#333333;">
      <p>안녕하세요,</p>
      <p>집중력 분석 레포트가 도착했습니다.</p>
      <p>첨부된 PDF 파일을 확인해 주세요.</p>
      <p>감사합니다.</p>
    </td>
  </tr>
  <tr>
    <td style="padding:16px;text-align:center;color:#999999;font-size:12px;">@깜빡이팀</td>
  </tr>
</table>
</body>
</html>
`))

// PDFSource renders the report page and reads stored PDFs
type PDFSource interface {
	Generate(ctx context.Context, url string) (*printing.GeneratedPDF, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

// Mailer composes and sends the report emails
type Mailer struct {
	sender   mail.Sender
	pdfs     PDFSource
	from     string
	replyTo  []string
	logoPath string
	metrics  *telemetry.AppMetrics
	logger   *zap.Logger
}

// MailerConfig holds the addresses and assets of outgoing mail
type MailerConfig struct {
	From     string
	ReplyTo  []string
	LogoPath string
}

// NewMailer creates a report mailer. metrics may be nil.
func NewMailer(sender mail.Sender, pdfs PDFSource, cfg MailerConfig, metrics *telemetry.AppMetrics, logger *zap.Logger) *Mailer {
	return &Mailer{
		sender:   sender,
		pdfs:     pdfs,
		from:     cfg.From,
		replyTo:  cfg.ReplyTo,
		logoPath: cfg.LogoPath,
		metrics:  metrics,
		logger:   logger,
	}
}

// ReportSubject is the subject line of the report email
func ReportSubject(siteName string) string {
	return fmt.Sprintf("[%s] 집중력 분석 레포트가 도착했습니다", siteName)
}

// SendReport mails the report PDF, rendering it from SiteURL first when no
// stored file is given. A delivery failure is returned as an error so the
// task is retried; the result still carries the failure message.
func (m *Mailer) SendReport(ctx context.Context, p SendReportEmailPayload) (*TaskResult, error) {
	p.applyDefaults()

	pdfPath := p.PDFFilePath
	if pdfPath == "" {
		if p.SiteURL == "" {
			return &TaskResult{Message: errNoReportSource.Error()}, errNoReportSource
		}
		generated, err := m.pdfs.Generate(ctx, p.SiteURL)
		if err != nil {
			return &TaskResult{Message: err.Error()}, err
		}
		pdfPath = generated.Path
	}

	msg, err := m.reportMessage(ctx, p, pdfPath)
	if err != nil {
		return &TaskResult{Message: err.Error()}, err
	}

	res := mail.Deliver(ctx, m.sender, msg, m.logger)
	m.metrics.EmailSent(ctx, res.Success)
	out := &TaskResult{Success: res.Success, Message: res.Message, PDFFilePath: pdfPath}
	if !res.Success {
		return out, errors.New(res.Message)
	}
	return out, nil
}

func (m *Mailer) reportMessage(ctx context.Context, p SendReportEmailPayload, pdfPath string) (*mail.Message, error) {
	msg := &mail.Message{
		From:    m.from,
		To:      []string{p.ToEmail},
		ReplyTo: m.replyTo,
		Subject: ReportSubject(p.SiteName),
	}

	logo, err := os.ReadFile(m.logoPath)
	if err != nil {
		m.logger.Warn("Report email logo not found", zap.String("path", m.logoPath), zap.Error(err))
	} else {
		msg.Inline = append(msg.Inline, mail.InlineImage{
			ContentID:   logoContentID,
			Filename:    filepath.Base(m.logoPath),
			Content:     logo,
			ContentType: "image/png",
		})
	}

	var body bytes.Buffer
	if err := reportEmailTemplate.Execute(&body, struct {
		SiteName string
		HasLogo  bool
	}{p.SiteName, logo != nil}); err != nil {
		return nil, fmt.Errorf("render report email: %w", err)
	}
	msg.HTMLBody = body.String()

	data, err := m.readPDF(ctx, pdfPath)
	if err != nil {
		m.logger.Error("Failed to attach report PDF",
			zap.String("pdf_file_path", pdfPath),
			zap.Error(err),
		)
	} else {
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    p.PDFFilename,
			Content:     data,
			ContentType: "application/pdf",
		})
	}
	return msg, nil
}

func (m *Mailer) readPDF(ctx context.Context, p string) ([]byte, error) {
	rc, err := m.pdfs.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SendDemo sends a plain text email with the given title and content
func (m *Mailer) SendDemo(ctx context.Context, to, title, content string) mail.Result {
	if title == "" {
		title = DefaultDemoTitle
	}
	if content == "" {
		content = DefaultDemoContent
	}
	res := mail.Deliver(ctx, m.sender, &mail.Message{
		From:     m.from,
		To:       []string{to},
		ReplyTo:  m.replyTo,
		Subject:  title,
		TextBody: content,
	}, m.logger)
	m.metrics.EmailSent(ctx, res.Success)
	return res
}
