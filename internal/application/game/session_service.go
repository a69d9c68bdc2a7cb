// Package game implements the play session and leaderboard use cases.
package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/telemetry"
)

// ErrChildNotFound is returned when the child is missing or belongs to another parent
var ErrChildNotFound = shared.ErrNotFound.WithMessage(shared.MsgChildNotFound)

// SessionService starts and finishes play sessions
type SessionService struct {
	gameRepo    game.GameRepository
	sessionRepo game.SessionRepository
	childRepo   identity.ChildRepository
	txScope     TransactionScope
	publisher   shared.EventPublisher
	metrics     *telemetry.AppMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// SessionServiceOption configures optional collaborators
type SessionServiceOption func(*SessionService)

// WithEventPublisher publishes session completion events after commit
func WithEventPublisher(p shared.EventPublisher) SessionServiceOption {
	return func(s *SessionService) {
		s.publisher = p
	}
}

// WithMetrics records session counters
func WithMetrics(m *telemetry.AppMetrics) SessionServiceOption {
	return func(s *SessionService) {
		s.metrics = m
	}
}

// NewSessionService creates a new session service
func NewSessionService(
	gameRepo game.GameRepository,
	sessionRepo game.SessionRepository,
	childRepo identity.ChildRepository,
	txScope TransactionScope,
	logger *zap.Logger,
	opts ...SessionServiceOption,
) *SessionService {
	s := &SessionService{
		gameRepo:    gameRepo,
		sessionRepo: sessionRepo,
		childRepo:   childRepo,
		txScope:     txScope,
		publisher:   shared.NoopEventPublisher{},
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActive returns the active games ordered by id
func (s *SessionService) ListActive(ctx context.Context) ([]GameInfo, error) {
	games, err := s.gameRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GameInfo, len(games))
	for i := range games {
		out[i] = toGameInfo(&games[i])
	}
	return out, nil
}

// StartBBStar starts a BB_STAR session for a child of the user
func (s *SessionService) StartBBStar(ctx context.Context, userID, childID int64) (*StartResult, error) {
	g, err := s.activeGame(ctx, game.CodeBBStar)
	if err != nil {
		return nil, err
	}
	child, err := s.childRepo.FindByID(ctx, childID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}
	if child.ParentID != userID {
		return nil, ErrChildNotFound
	}
	return s.start(ctx, userID, child.ID, g)
}

// StartKidsTraffic starts a KIDS_TRAFFIC session for the user's child
func (s *SessionService) StartKidsTraffic(ctx context.Context, userID int64) (*StartResult, error) {
	g, err := s.activeGame(ctx, game.CodeKidsTraffic)
	if err != nil {
		return nil, err
	}
	child, err := s.childRepo.FindByParentID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}
	return s.start(ctx, userID, child.ID, g)
}

func (s *SessionService) activeGame(ctx context.Context, code game.Code) (*game.Game, error) {
	g, err := s.gameRepo.FindByCode(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, game.NotActiveError(code)
		}
		return nil, err
	}
	if !g.IsActive {
		return nil, game.NotActiveError(code)
	}
	return g, nil
}

func (s *SessionService) start(ctx context.Context, userID, childID int64, g *game.Game) (*StartResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "game", "start",
		telemetry.AttrUserID, userID,
		telemetry.AttrChildID, childID,
		telemetry.AttrGameCode, string(g.Code),
	)
	session := game.NewSession(userID, childID, g, s.now())
	err := s.sessionRepo.Create(ctx, session)
	telemetry.End(span, err)
	if err != nil {
		return nil, err
	}

	s.metrics.SessionStarted(ctx, string(g.Code))
	s.logger.Info("Game session started",
		zap.String("session_id", session.ID.String()),
		zap.String("game_code", string(g.Code)),
		zap.Int64("user_id", userID),
		zap.Int64("child_id", childID),
	)
	return &StartResult{
		SessionID: session.ID,
		GameCode:  g.Code,
		StartedAt: session.StartedAt,
		Status:    session.Status,
	}, nil
}

// Finish completes a session owned by the user and stores its result.
// The session row stays locked until the result is written. The result
// belongs to the session's own game whichever endpoint finished it; the
// BB_STAR endpoint never records reaction times.
func (s *SessionService) Finish(ctx context.Context, userID int64, via game.Code, input FinishInput) (*FinishResult, error) {
	if via == game.CodeBBStar {
		input.ReactionMsSum = nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "game", "finish",
		telemetry.AttrUserID, userID,
		telemetry.AttrSessionID, input.SessionID.String(),
	)
	var (
		session *game.Session
		result  *game.Result
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindForParentForUpdate(ctx, input.SessionID, userID)
		if err != nil {
			if shared.IsNotFound(err) {
				return game.ErrSessionNotFound
			}
			return err
		}

		result, err = session.Complete(game.ResultInput{
			Score:         input.Score,
			WrongCount:    input.WrongCount,
			ReactionMsSum: input.ReactionMsSum,
			RoundCount:    input.RoundCount,
			SuccessCount:  input.SuccessCount,
			Meta:          input.Meta,
		}, s.now())
		if err != nil {
			return err
		}
		if err := repos.SessionRepo().Update(ctx, session); err != nil {
			return err
		}
		return repos.ResultRepo().Create(ctx, result)
	})
	telemetry.End(span, err)
	if err != nil {
		return nil, err
	}

	out := toFinishResult(session, result)
	s.metrics.SessionFinished(ctx, string(out.GameCode))
	s.logger.Info("Game session finished",
		zap.String("session_id", session.ID.String()),
		zap.String("game_code", string(out.GameCode)),
		zap.Int64("user_id", userID),
		zap.Int("score", result.Score),
	)

	if err := s.publisher.Publish(ctx, game.NewSessionCompletedEvent(session)); err != nil {
		s.logger.Warn("Failed to publish session completed event",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}
	return out, nil
}
