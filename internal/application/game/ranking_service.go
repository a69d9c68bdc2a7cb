package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// RankingService serves the event-booth leaderboards
type RankingService struct {
	gameRepo    game.GameRepository
	rankingRepo game.RankingRepository
	resultRepo  game.ResultRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewRankingService creates a new ranking service
func NewRankingService(gameRepo game.GameRepository, rankingRepo game.RankingRepository, resultRepo game.ResultRepository, logger *zap.Logger) *RankingService {
	return &RankingService{
		gameRepo:    gameRepo,
		rankingRepo: rankingRepo,
		resultRepo:  resultRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Board loads both per-game boards, the overall board and the last update
// time concurrently. A game that does not exist has an empty board.
func (s *RankingService) Board(ctx context.Context) (*game.Board, error) {
	board := &game.Board{
		BBStar:      []game.RankedEntry{},
		KidsTraffic: []game.RankedEntry{},
		All:         []game.RankedEntry{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.gameBoard(gctx, game.CodeBBStar)
		board.BBStar = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.gameBoard(gctx, game.CodeKidsTraffic)
		board.KidsTraffic = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.rankingRepo.Top(gctx, nil, game.RankingBoardSize)
		board.All = entries
		return err
	})
	g.Go(func() error {
		latest, err := s.rankingRepo.LatestUpdate(gctx)
		board.UpdatedAt = latest
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load ranking board: %w", err)
	}
	return board, nil
}

func (s *RankingService) gameBoard(ctx context.Context, code game.Code) ([]game.RankedEntry, error) {
	g, err := s.gameRepo.FindByCode(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return []game.RankedEntry{}, nil
		}
		return nil, err
	}
	return s.rankingRepo.Top(ctx, &g.ID, game.RankingBoardSize)
}

// Record stores a booth entry. An entry linked to a game result takes its
// game, score and round count from that result. When the entry becomes the
// top entry of its game it takes over the record highlight.
func (s *RankingService) Record(ctx context.Context, input RankingInput) (*RankingRecorded, error) {
	var linked *game.Result
	if input.GameResultID != nil {
		res, err := s.resultRepo.FindByID(ctx, *input.GameResultID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.ErrInvalidInput.WithDetails(map[string][]string{
					"game_result_id": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *input.GameResultID)},
				})
			}
			return nil, err
		}
		linked = res
	}

	g, err := s.entryGame(ctx, input.GameCode, linked)
	if err != nil {
		return nil, err
	}
	var (
		gameID *int64
		code   game.Code
	)
	if g != nil {
		gameID = &g.ID
		code = g.Code
	}

	entry, err := game.NewRankingEntry(gameID, input.PlayerName, input.Organization, input.Contact, input.Score, input.RoundCount)
	if err != nil {
		return nil, err
	}
	if linked != nil {
		entry.LinkResult(linked)
	}
	if err := s.rankingRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.checkRecord(ctx, entry); err != nil {
		return nil, err
	}

	return &RankingRecorded{
		ID:                 entry.ID,
		GameCode:           code,
		GameResultID:       entry.GameResultID,
		PlayerName:         entry.PlayerName,
		Organization:       entry.Organization,
		Score:              entry.Score,
		RoundCount:         entry.RoundCount,
		IsEventHighlighted: entry.IsEventHighlighted,
		EventTriggeredAt:   entry.EventTriggeredAt,
		CreatedAt:          entry.CreatedAt,
	}, nil
}

// entryGame resolves the game of a new entry. A linked result decides the
// game; otherwise the submitted code does, and no code means no game.
func (s *RankingService) entryGame(ctx context.Context, code game.Code, linked *game.Result) (*game.Game, error) {
	if linked != nil {
		return s.gameRepo.FindByID(ctx, linked.GameID)
	}
	if code == "" {
		return nil, nil
	}
	g, err := s.gameRepo.FindByCode(ctx, code)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidInput.WithDetails(map[string][]string{
				"game_code": {fmt.Sprintf("\"%s\" is not a valid choice.", code)},
			})
		}
		return nil, err
	}
	return g, nil
}

func (s *RankingService) checkRecord(ctx context.Context, entry *game.RankingEntry) error {
	if !entry.CanHoldRecord() {
		return nil
	}
	top, err := s.rankingRepo.First(ctx, *entry.GameID)
	if err != nil {
		return err
	}
	if top.ID != entry.ID {
		return nil
	}

	if _, err := s.rankingRepo.ClearHighlights(ctx, entry.GameID, entry.ID); err != nil {
		return err
	}
	if entry.IsEventHighlighted {
		return nil
	}
	entry.Highlight(s.now())
	if err := s.rankingRepo.Update(ctx, entry); err != nil {
		return err
	}
	s.logger.Info("New ranking record",
		zap.Int64("ranking_entry_id", entry.ID),
		zap.Int64("game_id", *entry.GameID),
		zap.Int("score", entry.Score),
	)
	return nil
}

// ClearHighlights unflags record holders of one game, or of every game when code is empty
func (s *RankingService) ClearHighlights(ctx context.Context, code game.Code) (int64, error) {
	gameID, err := s.optionalGameID(ctx, code)
	if err != nil {
		return 0, err
	}
	n, err := s.rankingRepo.ClearHighlights(ctx, gameID, 0)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Ranking highlights cleared", zap.String("game_code", string(code)), zap.Int64("count", n))
	return n, nil
}

// Reset deletes the entries of one game, or of every game when code is empty
func (s *RankingService) Reset(ctx context.Context, code game.Code) (int64, error) {
	gameID, err := s.optionalGameID(ctx, code)
	if err != nil {
		return 0, err
	}
	n, err := s.rankingRepo.DeleteByGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("Ranking entries deleted", zap.String("game_code", string(code)), zap.Int64("count", n))
	return n, nil
}

func (s *RankingService) optionalGameID(ctx context.Context, code game.Code) (*int64, error) {
	if code == "" {
		return nil, nil
	}
	g, err := s.gameRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &g.ID, nil
}
