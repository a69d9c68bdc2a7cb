package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/infrastructure/logger"
	"github.com/kkambbaki/backend/internal/infrastructure/scheduler"
)

// BotTokenConsumer deletes a bot token once it has served its purpose
type BotTokenConsumer interface {
	Consume(ctx context.Context, id int64) error
}

// ExpiredPDFCleaner removes stored PDFs past their expiry
type ExpiredPDFCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// Tasks holds the background handlers of the report module
type Tasks struct {
	generator  *Generator
	mailer     *Mailer
	reportRepo report.ReportRepository
	botTokens  BotTokenConsumer
	pdfs       ExpiredPDFCleaner
	logger     *zap.Logger
}

// NewTasks creates the report task handlers
func NewTasks(
	generator *Generator,
	mailer *Mailer,
	reportRepo report.ReportRepository,
	botTokens BotTokenConsumer,
	pdfs ExpiredPDFCleaner,
	logger *zap.Logger,
) *Tasks {
	return &Tasks{
		generator:  generator,
		mailer:     mailer,
		reportRepo: reportRepo,
		botTokens:  botTokens,
		pdfs:       pdfs,
		logger:     logger,
	}
}

// Definitions returns the queue registrations of the report tasks
func (t *Tasks) Definitions() []scheduler.Definition {
	return []scheduler.Definition{
		{Name: TaskGenerateReport, Handle: t.handleGenerate, OnExhausted: t.generateExhausted},
		{Name: TaskSendReportEmail, Handle: t.handleSendEmail, OnExhausted: t.sendEmailExhausted},
		{Name: TaskSendReportEmailWithExistingPDF, Handle: t.handleSendEmail, OnExhausted: t.sendEmailExhausted},
	}
}

// RegisterCron schedules the expired PDF cleanup
func (t *Tasks) RegisterCron(runner *scheduler.CronRunner, schedule string) error {
	_, err := runner.Add(schedule, JobCleanupExpiredPDFs, t.CleanupExpiredPDFs)
	return err
}

// GenerateReport rebuilds the report of the pair and returns the task result
func (t *Tasks) GenerateReport(ctx context.Context, p GenerateReportPayload) (*TaskResult, error) {
	rep, err := t.generator.UpdateOrCreateReport(ctx, p.UserID, p.ChildID)
	if err != nil {
		return &TaskResult{Message: err.Error()}, err
	}
	return &TaskResult{Success: true, Message: "Report generated successfully", ReportID: rep.ID}, nil
}

func (t *Tasks) handleGenerate(ctx context.Context, task *scheduler.Task) error {
	var p GenerateReportPayload
	if err := task.Decode(&p); err != nil {
		return err
	}
	ctx, log := logger.WithTask(ctx, t.logger, task.Name, task.ID, task.Attempt)
	res, err := t.GenerateReport(ctx, p)
	if err != nil {
		return err
	}
	log.Info(res.Message, zap.Int64("report_id", res.ReportID))
	return nil
}

// generateExhausted marks the report failed so the next status check
// reports the error instead of waiting forever.
func (t *Tasks) generateExhausted(ctx context.Context, task *scheduler.Task, cause error) {
	log := t.logger.With(zap.String("task", task.Name), zap.String("task_id", task.ID))
	log.Error(fmt.Sprintf("Failed to generate report after %d retries: %s", task.MaxRetries, cause))

	var p GenerateReportPayload
	if err := task.Decode(&p); err != nil {
		log.Error("Cannot mark report failed", zap.Error(err))
		return
	}
	rep, err := t.reportRepo.FindByUserAndChild(ctx, p.UserID, p.ChildID)
	if err != nil {
		log.Error("Cannot mark report failed", zap.Int64("user_id", p.UserID), zap.Int64("child_id", p.ChildID), zap.Error(err))
		return
	}
	rep.SetStatus(report.StatusError)
	if err := t.reportRepo.Update(ctx, rep); err != nil {
		log.Error("Cannot mark report failed", zap.Int64("report_id", rep.ID), zap.Error(err))
	}
}

// SendReportEmail mails the report and consumes the bot token on success
func (t *Tasks) SendReportEmail(ctx context.Context, p SendReportEmailPayload) (*TaskResult, error) {
	res, err := t.mailer.SendReport(ctx, p)
	if err != nil {
		return res, err
	}
	if p.BotTokenID != nil {
		if err := t.botTokens.Consume(ctx, *p.BotTokenID); err != nil {
			t.logger.Warn("Failed to consume bot token", zap.Int64("bot_token_id", *p.BotTokenID), zap.Error(err))
		}
	}
	return res, nil
}

func (t *Tasks) handleSendEmail(ctx context.Context, task *scheduler.Task) error {
	var p SendReportEmailPayload
	if err := task.Decode(&p); err != nil {
		return err
	}
	ctx, log := logger.WithTask(ctx, t.logger, task.Name, task.ID, task.Attempt)
	res, err := t.SendReportEmail(ctx, p)
	if err != nil {
		return err
	}
	log.Info(res.Message, zap.String("to", p.ToEmail), zap.String("pdf_file_path", res.PDFFilePath))
	return nil
}

func (t *Tasks) sendEmailExhausted(_ context.Context, task *scheduler.Task, cause error) {
	t.logger.Error(fmt.Sprintf("Failed to send report email after %d retries: %s", task.MaxRetries, cause),
		zap.String("task", task.Name),
		zap.String("task_id", task.ID),
	)
}

// CleanupExpiredPDFs deletes stored PDFs past their expiry
func (t *Tasks) CleanupExpiredPDFs(ctx context.Context) error {
	n, err := t.pdfs.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("cleanup expired pdfs: %w", err)
	}
	t.logger.Info("Expired PDF cleanup finished", zap.Int("deleted", n))
	return nil
}
