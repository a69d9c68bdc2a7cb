// Package report implements concentration report generation, status checks
// and delivery.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/llm"
	"github.com/kkambbaki/backend/internal/infrastructure/telemetry"
)

// recentTrendLimit is how many of the newest results the advisor sees
const recentTrendLimit = 3

// AdviceGenerator produces advice for one game report
type AdviceGenerator interface {
	Generate(ctx context.Context, code game.Code, gr *report.GameReport, recent []game.Result) ([]llm.AdviceItem, error)
}

// Generator rebuilds reports from game results
type Generator struct {
	reportRepo     report.ReportRepository
	gameReportRepo report.GameReportRepository
	gameRepo       game.GameRepository
	resultRepo     game.ResultRepository
	txScope        TransactionScope
	advisor        AdviceGenerator
	metrics        *telemetry.AppMetrics
	logger         *zap.Logger
}

// NewGenerator creates a report generator. Advice and the refreshed section
// are written through txScope. metrics may be nil.
func NewGenerator(
	reportRepo report.ReportRepository,
	gameReportRepo report.GameReportRepository,
	gameRepo game.GameRepository,
	resultRepo game.ResultRepository,
	txScope TransactionScope,
	advisor AdviceGenerator,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		reportRepo:     reportRepo,
		gameReportRepo: gameReportRepo,
		gameRepo:       gameRepo,
		resultRepo:     resultRepo,
		txScope:        txScope,
		advisor:        advisor,
		metrics:        metrics,
		logger:         logger,
	}
}

// UpdateOrCreateReport refreshes every active game's section, recomputes the
// concentration score and marks the report completed.
func (g *Generator) UpdateOrCreateReport(ctx context.Context, userID, childID int64) (rep *report.Report, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "generate",
		telemetry.AttrUserID, userID,
		telemetry.AttrChildID, childID,
	)
	defer func() { telemetry.End(span, err) }()

	started := time.Now()
	rep, _, err = g.reportRepo.GetOrCreate(ctx, userID, childID)
	if err != nil {
		return nil, fmt.Errorf("get or create report: %w", err)
	}
	games, err := g.gameRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active games: %w", err)
	}

	inputs := make([]report.ScoreInput, 0, len(games))
	for i := range games {
		gm := &games[i]
		gr, results, err := g.refreshGameReport(ctx, rep, gm)
		if err != nil {
			return nil, fmt.Errorf("refresh game report %s: %w", gm.Code, err)
		}
		inputs = append(inputs, report.ScoreInput{GameReport: gr, MaxRound: gm.MaxRound, Results: results})
	}

	rep.SetConcentrationScore(report.ConcentrationScore(inputs))
	rep.SetStatus(report.StatusCompleted)
	if err := g.reportRepo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	g.metrics.ReportGenerated(ctx)
	g.logger.Info("Report generated",
		zap.Int64("report_id", rep.ID),
		zap.Int64("user_id", userID),
		zap.Int64("child_id", childID),
		zap.Int("concentration_score", rep.ConcentrationScore),
		zap.Int("games", len(games)),
		zap.Duration("duration", time.Since(started)),
	)
	return rep, nil
}

// UpdateOrCreateGameReport refreshes one game's section of the report.
// A section that already reflects the latest session is returned as is.
func (g *Generator) UpdateOrCreateGameReport(ctx context.Context, rep *report.Report, gm *game.Game) (*report.GameReport, error) {
	gr, _, err := g.refreshGameReport(ctx, rep, gm)
	return gr, err
}

// refreshGameReport also returns every result of the child in the game,
// newest first, for scoring.
func (g *Generator) refreshGameReport(ctx context.Context, rep *report.Report, gm *game.Game) (*report.GameReport, []game.Result, error) {
	gr, created, err := g.gameReportRepo.GetOrCreate(ctx, rep.ID, gm.ID)
	if err != nil {
		return nil, nil, err
	}
	gr.Game = gm

	results, err := g.resultRepo.FindByChildAndGame(ctx, rep.ChildID, gm.ID, 0)
	if err != nil {
		return nil, nil, err
	}
	latest, err := latestSessionID(ctx, g.resultRepo, rep.ChildID, gm.ID)
	if err != nil {
		return nil, nil, err
	}
	if !created && gr.IsUpToDate(latest) {
		return gr, results, nil
	}

	gr.Aggregate(gm, results)
	var advice []*report.Advice
	if !gr.Stats.IsZero() {
		advice = g.generateAdvice(ctx, gm, gr, results)
	}

	// The advisor call stays outside the transaction; only the swap of the
	// stored advice and the section update are atomic.
	gr.MarkReflected(latest)
	err = g.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AdviceRepo().DeleteByGameReport(ctx, gr.ID); err != nil {
			return fmt.Errorf("delete advice: %w", err)
		}
		for _, a := range advice {
			if err := repos.AdviceRepo().Create(ctx, a); err != nil {
				return fmt.Errorf("save advice: %w", err)
			}
		}
		return repos.GameReportRepo().Update(ctx, gr)
	})
	if err != nil {
		return nil, nil, err
	}
	return gr, results, nil
}

// generateAdvice returns the advisor's items, or a failure placeholder when
// the advisor gives up.
func (g *Generator) generateAdvice(ctx context.Context, gm *game.Game, gr *report.GameReport, results []game.Result) []*report.Advice {
	recent := results
	if len(recent) > recentTrendLimit {
		recent = recent[:recentTrendLimit]
	}

	items, genErr := g.advisor.Generate(ctx, gm.Code, gr, recent)
	if genErr != nil {
		g.metrics.AdviceFailed(ctx, string(gm.Code))
		g.logger.Warn("Advice generation failed",
			zap.Int64("game_report_id", gr.ID),
			zap.String("game_code", string(gm.Code)),
			zap.Error(genErr),
		)
		return []*report.Advice{report.NewFailedAdvice(gr, genErr)}
	}

	advice := make([]*report.Advice, 0, len(items))
	for _, item := range items {
		advice = append(advice, report.NewAdvice(gr, item.Title, item.Description))
	}
	return advice
}

// latestSessionID returns the session of the child's most recently updated
// result in the game, or nil when there is none.
func latestSessionID(ctx context.Context, repo game.ResultRepository, childID, gameID int64) (*uuid.UUID, error) {
	latest, err := repo.FindLatestByChildAndGame(ctx, childID, gameID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	id := latest.SessionID
	return &id, nil
}
