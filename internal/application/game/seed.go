package game

import (
	"context"

	"github.com/kkambbaki/backend/internal/domain/game"
)

// SeedGames upserts the two built-in games, active with the default round count.
func SeedGames(ctx context.Context, repo game.GameRepository) ([]GameInfo, error) {
	codes := []game.Code{game.CodeBBStar, game.CodeKidsTraffic}
	out := make([]GameInfo, 0, len(codes))
	for _, code := range codes {
		g, err := game.NewGame(code, code.Label(), game.DefaultMaxRound)
		if err != nil {
			return nil, err
		}
		if err := repo.Upsert(ctx, g); err != nil {
			return nil, err
		}
		out = append(out, toGameInfo(g))
	}
	return out, nil
}
