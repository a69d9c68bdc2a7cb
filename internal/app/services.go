package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	reportapp "github.com/kkambbaki/backend/internal/application/report"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/infrastructure/auth"
	"github.com/kkambbaki/backend/internal/infrastructure/event"
	"github.com/kkambbaki/backend/internal/infrastructure/llm"
	"github.com/kkambbaki/backend/internal/infrastructure/mail"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence"
)

func (a *Application) setupServices(ctx context.Context) error {
	cfg := a.Config
	metrics := a.Telemetry.Metrics

	a.JWT = auth.NewJWTService(cfg.JWT)
	a.EventBus = event.NewInMemoryEventBus(a.Logger)

	a.Auth = identityapp.NewAuthService(a.Repos.Users, a.JWT, a.Blacklist, a.Logger)
	a.Users = identityapp.NewUserService(a.Repos.Users, a.Repos.Children, a.Logger)
	a.BotTokens = identityapp.NewBotTokenService(a.Repos.BotTokens, a.Repos.Users, a.Logger)

	a.Sessions = gameapp.NewSessionService(
		a.Repos.Games,
		a.Repos.Sessions,
		a.Repos.Children,
		persistence.NewGormGameTransactionScope(a.DB.DB),
		a.Logger,
		gameapp.WithEventPublisher(a.EventBus),
		gameapp.WithMetrics(metrics),
	)
	a.Rankings = gameapp.NewRankingService(a.Repos.Games, a.Repos.Rankings, a.Repos.Results, a.Logger)

	a.Reports = reportapp.NewService(reportapp.Dependencies{
		UserRepo:   a.Repos.Users,
		ChildRepo:  a.Repos.Children,
		ReportRepo: a.Repos.Reports,
		PinRepo:    a.Repos.Pins,
		GameRepo:   a.Repos.Games,
		ResultRepo: a.Repos.Results,
		TxScope:    persistence.NewGormReportTransactionScope(a.DB.DB),
		Tasks:      a.Scheduler,
		BotTokens:  a.BotTokens,
		ReportURL:  cfg.Frontend.ReportURL,
	}, a.Logger)

	stale := reportapp.NewSessionCompletedHandler(a.Repos.Reports, a.Logger)
	a.EventBus.Subscribe(event.NewIdempotentHandler(stale, a.idempotencyStore(), 0, a.Logger))

	advisor, err := a.newAdvisor(ctx)
	if err != nil {
		return err
	}
	generator := reportapp.NewGenerator(
		a.Repos.Reports,
		a.Repos.GameReports,
		a.Repos.Games,
		a.Repos.Results,
		persistence.NewGormReportTransactionScope(a.DB.DB),
		advisor,
		metrics,
		a.Logger,
	)

	sender, err := a.newMailSender()
	if err != nil {
		return err
	}
	a.Mailer = reportapp.NewMailer(sender, a.PDFs, reportapp.MailerConfig{
		From:     cfg.Mail.DefaultFrom,
		ReplyTo:  cfg.Mail.ReplyTo,
		LogoPath: cfg.Mail.LogoPath,
	}, metrics, a.Logger)

	a.ReportTasks = reportapp.NewTasks(generator, a.Mailer, a.Repos.Reports, a.BotTokens, a.PDFs, a.Logger)
	a.Scheduler.Register(a.ReportTasks.Definitions()...)
	return nil
}

// newAdvisor builds the LLM advisor. Outside production a missing API key
// only disables advice: reports are still generated with placeholder advice.
func (a *Application) newAdvisor(ctx context.Context) (reportapp.AdviceGenerator, error) {
	client, err := llm.NewClient(ctx, &a.Config.LLM, a.Logger)
	if err != nil {
		if a.Config.IsProduction() {
			return nil, fmt.Errorf("llm client: %w", err)
		}
		a.Logger.Warn("LLM client unavailable, advice generation disabled", zap.Error(err))
		return unavailableAdvisor{err: err}, nil
	}
	a.Logger.Info("LLM client ready", zap.String("provider", client.Provider()))
	return llm.NewAdvisor(client, llm.AdvisorConfigFrom(&a.Config.LLM), a.Logger), nil
}

// newMailSender uses SMTP when a host is configured and logs mail otherwise
func (a *Application) newMailSender() (mail.Sender, error) {
	if a.Config.Mail.Host == "" {
		a.Logger.Warn("No SMTP host configured, emails are only logged")
		return mail.NewLogSender(a.Logger), nil
	}
	sender, err := mail.NewSMTPSender(&a.Config.Mail, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return sender, nil
}

type unavailableAdvisor struct {
	err error
}

func (u unavailableAdvisor) Generate(context.Context, game.Code, *report.GameReport, []game.Result) ([]llm.AdviceItem, error) {
	return nil, u.err
}

// DummyDependencies binds the dummy report writer to a transaction handle
func DummyDependencies(tx *gorm.DB) reportapp.DummyDependencies {
	return reportapp.DummyDependencies{
		Users:       persistence.NewGormUserRepository(tx),
		Children:    persistence.NewGormChildRepository(tx),
		Games:       persistence.NewGormGameRepository(tx),
		Sessions:    persistence.NewGormSessionRepository(tx),
		Results:     persistence.NewGormResultRepository(tx),
		Reports:     persistence.NewGormReportRepository(tx),
		GameReports: persistence.NewGormGameReportRepository(tx),
		Advices:     persistence.NewGormAdviceRepository(tx),
	}
}
