package report

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/infrastructure/telemetry"
)

// CheckStatus reports the state of the user's report and queues a
// regeneration when some game has results the report does not reflect yet.
func (s *Service) CheckStatus(ctx context.Context, userID int64) (result *StatusResult, err error) {
	child, err := s.child(ctx, userID)
	if err != nil {
		return nil, err
	}
	rep, _, err := s.reportRepo.GetOrCreate(ctx, userID, child.ID)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "check_status",
		telemetry.AttrUserID, userID,
		telemetry.AttrReportID, rep.ID,
	)
	defer func() { telemetry.End(span, err) }()

	var enqueue bool
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.ReportRepo().LockByID(ctx, rep.ID)
		if err != nil {
			return err
		}
		rep = locked
		if rep.IsGenerating() {
			return nil
		}

		next, err := evaluateStatus(ctx, repos, rep, games)
		if err != nil {
			return err
		}
		enqueue = next == report.StatusGenerating
		rep.SetStatus(next)
		return repos.ReportRepo().Update(ctx, rep)
	})
	if err != nil {
		return nil, err
	}

	if enqueue {
		taskID, err := s.tasks.Enqueue(ctx, TaskGenerateReport, GenerateReportPayload{UserID: userID, ChildID: child.ID})
		if err != nil {
			s.logger.Error("Failed to queue report generation", zap.Int64("report_id", rep.ID), zap.Error(err))
			rep.SetStatus(report.StatusError)
			if uerr := s.reportRepo.Update(ctx, rep); uerr != nil {
				return nil, uerr
			}
		} else {
			s.logger.Info("Report generation queued", zap.Int64("report_id", rep.ID), zap.String("task_id", taskID))
		}
	}

	return &StatusResult{Status: rep.Status, Description: rep.Status.Label()}, nil
}

// evaluateStatus decides the next status of a report that is not being generated
func evaluateStatus(ctx context.Context, repos TransactionalRepositories, rep *report.Report, games []game.Game) (report.Status, error) {
	latest := make(map[int64]*uuid.UUID, len(games))
	for i := range games {
		id, err := latestSessionID(ctx, repos.ResultRepo(), rep.ChildID, games[i].ID)
		if err != nil {
			return "", err
		}
		if id == nil {
			return report.StatusNoGamesPlayed, nil
		}
		latest[games[i].ID] = id
	}

	gameReports, err := repos.GameReportRepo().FindByReport(ctx, rep.ID)
	if err != nil {
		return "", err
	}
	byGame := make(map[int64]*report.GameReport, len(gameReports))
	for i := range gameReports {
		byGame[gameReports[i].GameID] = &gameReports[i]
	}
	for i := range games {
		gr, ok := byGame[games[i].ID]
		if !ok || !gr.IsUpToDate(latest[games[i].ID]) {
			return report.StatusGenerating, nil
		}
	}
	return report.StatusCompleted, nil
}
