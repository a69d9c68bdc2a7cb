package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/mail"
	"github.com/kkambbaki/backend/internal/infrastructure/printing"
)

func writeLogo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG"), 0o600))
	return p
}

func TestMailer_SendReport(t *testing.T) {
	ctx := context.Background()
	pdfBytes := []byte("%PDF-1.4 report")

	t.Run("renders the page when no pdf is given", func(t *testing.T) {
		sender := mail.NewLogSender(zap.NewNop())
		pdfs := new(MockPDFSource)
		m := NewMailer(sender, pdfs, MailerConfig{From: "noreply@kkambbaki.test", LogoPath: writeLogo(t)}, nil, zap.NewNop())

		pdfs.On("Generate", ctx, "https://kkambbaki.test/report?BOT_TOKEN=x").
			Return(&printing.GeneratedPDF{Path: "pdfs/2025/05/01/a.pdf", ExpiresAt: time.Now()}, nil)
		pdfs.On("Open", ctx, "pdfs/2025/05/01/a.pdf").Return(pdfBytes, nil)

		res, err := m.SendReport(ctx, SendReportEmailPayload{ToEmail: "mom@example.com", SiteURL: "https://kkambbaki.test/report?BOT_TOKEN=x"})
		require.NoError(t, err)
		assert.Equal(t, &TaskResult{Success: true, Message: "Email sent successfully", PDFFilePath: "pdfs/2025/05/01/a.pdf"}, res)

		sent := sender.Sent()
		require.Len(t, sent, 1)
		msg := sent[0]
		assert.Equal(t, "[깜빡이] 집중력 분석 레포트가 도착했습니다", msg.Subject)
		assert.Equal(t, []string{"mom@example.com"}, msg.To)
		assert.Equal(t, "noreply@kkambbaki.test", msg.From)
		assert.Empty(t, msg.TextBody)
		assert.Contains(t, msg.HTMLBody, "cid:logo")
		assert.Contains(t, msg.HTMLBody, "#FFE3A7")
		assert.Contains(t, msg.HTMLBody, "#FFF4DF")
		assert.Contains(t, msg.HTMLBody, "@깜빡이팀")
		require.Len(t, msg.Inline, 1)
		assert.Equal(t, "logo", msg.Inline[0].ContentID)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "report.pdf", msg.Attachments[0].Filename)
		assert.Equal(t, pdfBytes, msg.Attachments[0].Content)
		assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	})

	t.Run("existing pdf and custom names", func(t *testing.T) {
		sender := mail.NewLogSender(zap.NewNop())
		pdfs := new(MockPDFSource)
		m := NewMailer(sender, pdfs, MailerConfig{LogoPath: writeLogo(t)}, nil, zap.NewNop())
		pdfs.On("Open", ctx, "pdfs/old.pdf").Return(pdfBytes, nil)

		_, err := m.SendReport(ctx, SendReportEmailPayload{
			ToEmail:     "mom@example.com",
			PDFFilePath: "pdfs/old.pdf",
			PDFFilename: "민준_리포트.pdf",
			SiteName:    "데모",
		})
		require.NoError(t, err)
		msg := sender.Sent()[0]
		assert.Equal(t, "[데모] 집중력 분석 레포트가 도착했습니다", msg.Subject)
		assert.Equal(t, "민준_리포트.pdf", msg.Attachments[0].Filename)
		pdfs.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("missing logo and unreadable pdf still send", func(t *testing.T) {
		sender := mail.NewLogSender(zap.NewNop())
		pdfs := new(MockPDFSource)
		m := NewMailer(sender, pdfs, MailerConfig{LogoPath: filepath.Join(t.TempDir(), "missing.png")}, nil, zap.NewNop())
		pdfs.On("Open", ctx, "pdfs/gone.pdf").Return(nil, errors.New("object not found"))

		res, err := m.SendReport(ctx, SendReportEmailPayload{ToEmail: "mom@example.com", PDFFilePath: "pdfs/gone.pdf"})
		require.NoError(t, err)
		assert.True(t, res.Success)
		msg := sender.Sent()[0]
		assert.Empty(t, msg.Inline)
		assert.Empty(t, msg.Attachments)
		assert.NotContains(t, msg.HTMLBody, "cid:logo")
	})

	t.Run("no source", func(t *testing.T) {
		m := NewMailer(mail.NewLogSender(zap.NewNop()), new(MockPDFSource), MailerConfig{}, nil, zap.NewNop())
		_, err := m.SendReport(ctx, SendReportEmailPayload{ToEmail: "mom@example.com"})
		assert.Error(t, err)
	})

	t.Run("render failure", func(t *testing.T) {
		pdfs := new(MockPDFSource)
		m := NewMailer(mail.NewLogSender(zap.NewNop()), pdfs, MailerConfig{}, nil, zap.NewNop())
		pdfs.On("Generate", ctx, "https://x").Return(nil, errors.New("Failed to generate PDF from https://x: timeout"))

		res, err := m.SendReport(ctx, SendReportEmailPayload{ToEmail: "mom@example.com", SiteURL: "https://x"})
		assert.Error(t, err)
		assert.False(t, res.Success)
	})

	t.Run("delivery failure is an error", func(t *testing.T) {
		pdfs := new(MockPDFSource)
		m := NewMailer(failingSender{err: errors.New("connection refused")}, pdfs, MailerConfig{}, nil, zap.NewNop())
		pdfs.On("Open", ctx, "pdfs/a.pdf").Return(pdfBytes, nil)

		res, err := m.SendReport(ctx, SendReportEmailPayload{ToEmail: "mom@example.com", PDFFilePath: "pdfs/a.pdf"})
		assert.EqualError(t, err, "Failed to send email: connection refused")
		assert.False(t, res.Success)
		assert.Equal(t, "pdfs/a.pdf", res.PDFFilePath)
	})
}

func TestMailer_SendDemo(t *testing.T) {
	sender := mail.NewLogSender(zap.NewNop())
	m := NewMailer(sender, nil, MailerConfig{From: "noreply@kkambbaki.test"}, nil, zap.NewNop())

	res := m.SendDemo(context.Background(), "dev@example.com", "", "")
	assert.Equal(t, mail.Result{Success: true, Message: "Email sent successfully"}, res)
	msg := sender.Sent()[0]
	assert.Equal(t, "제목 없음", msg.Subject)
	assert.Equal(t, "내용 없음", msg.TextBody)

	m.SendDemo(context.Background(), "dev@example.com", "테스트 제목", "테스트 내용입니다.")
	msg = sender.Sent()[1]
	assert.Equal(t, "테스트 제목", msg.Subject)
	assert.Equal(t, "테스트 내용입니다.", msg.TextBody)
}
