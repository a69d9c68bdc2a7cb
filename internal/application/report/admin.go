package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// SendForReport queues the email of an existing report to an explicit
// address and returns the task id.
func (s *Service) SendForReport(ctx context.Context, reportID int64, email string) (string, error) {
	if err := identity.ValidateEmail(email); err != nil {
		return "", err
	}
	rep, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		if shared.IsNotFound(err) {
			return "", ErrReportNotFound
		}
		return "", err
	}
	token, err := s.botTokens.CreateForReport(ctx, rep.UserID)
	if err != nil {
		return "", err
	}
	payload := SendReportEmailPayload{
		ToEmail:    email,
		SiteURL:    ReportPageURL(s.reportURL, token.Token),
		BotTokenID: &token.ID,
	}
	payload.applyDefaults()
	taskID, err := s.tasks.Enqueue(ctx, TaskSendReportEmail, payload)
	if err != nil {
		return "", err
	}
	s.logger.Info("Report email queued by admin",
		zap.Int64("report_id", reportID),
		zap.Int64("user_id", rep.UserID),
		zap.String("task_id", taskID),
	)
	return taskID, nil
}

// Dummy data defaults
const (
	DummyEmail           = "dummy@example.com"
	DummyUsername        = "dummy01"
	DummyPassword        = "password123"
	DummyChildName       = "테스트아동"
	DummyChildBirthYear  = 2018
	DummySessionsPerGame = 5
)

// DummyDependencies groups the repositories the dummy report touches
type DummyDependencies struct {
	Users       identity.UserRepository
	Children    identity.ChildRepository
	Games       game.GameRepository
	Sessions    game.SessionRepository
	Results     game.ResultRepository
	Reports     report.ReportRepository
	GameReports report.GameReportRepository
	Advices     report.AdviceRepository
}

// DummyOptions customizes the dummy report
type DummyOptions struct {
	Email           string
	Username        string
	ChildName       string
	SessionsPerGame int
	Now             time.Time
}

func (o *DummyOptions) applyDefaults() {
	if o.Email == "" {
		o.Email = DummyEmail
	}
	if o.Username == "" {
		o.Username = DummyUsername
	}
	if o.ChildName == "" {
		o.ChildName = DummyChildName
	}
	if o.SessionsPerGame <= 0 {
		o.SessionsPerGame = DummySessionsPerGame
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
}

// DummySummary describes what CreateDummyReport wrote
type DummySummary struct {
	UserID       int64
	Username     string
	UserCreated  bool
	ChildID      int64
	ChildName    string
	ChildCreated bool
	ReportID     int64
	GameReports  int
	Advices      int
}

var errNoActiveGames = errors.New("no active games; run seed-games first")

// CreateDummyReport writes a completed report with plays for every active
// game. The user and child are reused when they already exist; sessions,
// results and advice are added on every run.
func CreateDummyReport(ctx context.Context, deps DummyDependencies, opts DummyOptions) (*DummySummary, error) {
	opts.applyDefaults()
	sum := &DummySummary{}

	user, err := deps.Users.FindByUsername(ctx, identity.NormalizeUsername(opts.Username))
	switch {
	case shared.IsNotFound(err):
		user, err = identity.NewUser(opts.Username, DummyPassword, opts.Email)
		if err != nil {
			return nil, err
		}
		if err := deps.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create dummy user: %w", err)
		}
		sum.UserCreated = true
	case err != nil:
		return nil, err
	}
	sum.UserID, sum.Username = user.ID, user.Username

	child, err := deps.Children.FindByParentID(ctx, user.ID)
	switch {
	case shared.IsNotFound(err):
		child, err = identity.NewChild(user.ID, opts.ChildName, DummyChildBirthYear, identity.GenderMale)
		if err != nil {
			return nil, err
		}
		if err := deps.Children.Save(ctx, child); err != nil {
			return nil, fmt.Errorf("create dummy child: %w", err)
		}
		sum.ChildCreated = true
	case err != nil:
		return nil, err
	}
	sum.ChildID, sum.ChildName = child.ID, child.Name

	games, err := deps.Games.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, errNoActiveGames
	}

	rep, _, err := deps.Reports.GetOrCreate(ctx, user.ID, child.ID)
	if err != nil {
		return nil, err
	}
	sum.ReportID = rep.ID

	inputs := make([]report.ScoreInput, 0, len(games))
	for i := range games {
		gm := &games[i]
		results, err := dummyPlays(ctx, deps, user.ID, child.ID, gm, i, opts)
		if err != nil {
			return nil, err
		}

		gr, _, err := deps.GameReports.GetOrCreate(ctx, rep.ID, gm.ID)
		if err != nil {
			return nil, err
		}
		gr.Aggregate(gm, results)
		gr.MarkReflected(&results[0].SessionID)
		if err := deps.GameReports.Update(ctx, gr); err != nil {
			return nil, err
		}
		if err := deps.Advices.DeleteByGameReport(ctx, gr.ID); err != nil {
			return nil, err
		}
		for _, a := range dummyAdvice(gr, gm) {
			if err := deps.Advices.Create(ctx, a); err != nil {
				return nil, err
			}
			sum.Advices++
		}
		sum.GameReports++
		inputs = append(inputs, report.ScoreInput{GameReport: gr, MaxRound: gm.MaxRound, Results: results})
	}

	rep.SetConcentrationScore(report.ConcentrationScore(inputs))
	rep.SetStatus(report.StatusCompleted)
	if err := deps.Reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return sum, nil
}

// dummyPlays stores completed sessions an hour apart and returns their
// results newest first.
func dummyPlays(ctx context.Context, deps DummyDependencies, userID, childID int64, gm *game.Game, offset int, opts DummyOptions) ([]game.Result, error) {
	results := make([]game.Result, 0, opts.SessionsPerGame)
	for n := opts.SessionsPerGame - 1; n >= 0; n-- {
		at := opts.Now.Add(-time.Duration(n) * time.Hour)
		sess := game.NewSession(userID, childID, gm, at)
		rounds := gm.MaxRound - n%3
		success := 8 + offset
		in := game.ResultInput{
			Score:        80 + offset*5 - n,
			WrongCount:   max(2-offset, 0) + n%2,
			RoundCount:   &rounds,
			SuccessCount: &success,
			Meta:         map[string]any{"difficulty": "normal", "bonus_points": 10},
		}
		if gm.Code == game.CodeKidsTraffic {
			reaction := 5000 - offset*500 + n*100
			in.ReactionMsSum = &reaction
		}
		sess.CurrentRound = rounds
		sess.CurrentScore = in.Score
		res, err := sess.Complete(in, at.Add(3*time.Minute))
		if err != nil {
			return nil, err
		}
		if err := deps.Sessions.Create(ctx, sess); err != nil {
			return nil, fmt.Errorf("create dummy session: %w", err)
		}
		if err := deps.Results.Create(ctx, res); err != nil {
			return nil, fmt.Errorf("create dummy result: %w", err)
		}
		results = append([]game.Result{*res}, results...)
	}
	return results, nil
}

func dummyAdvice(gr *report.GameReport, gm *game.Game) []*report.Advice {
	return []*report.Advice{
		report.NewAdvice(gr, gm.Name+" - 강점",
			fmt.Sprintf("아동은 %s에서 우수한 성과를 보였습니다. 특히 집중력과 정확도가 뛰어났습니다.", gm.Name)),
		report.NewAdvice(gr, gm.Name+" - 개선 제안",
			fmt.Sprintf("%s의 반응 속도를 개선하기 위해 추가 연습이 필요합니다. 일주일에 2-3회 정도 연습을 권장합니다.", gm.Name)),
	}
}
