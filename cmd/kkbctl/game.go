package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkambbaki/backend/internal/app"
	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
)

func newSeedGamesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-games",
		Short: "Create or update the built-in games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				games, err := gameapp.SeedGames(ctx, a.Repos.Games)
				if err != nil {
					return err
				}
				for _, g := range games {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", g.ID, g.Code, g.Name)
				}
				return nil
			})
		},
	}
}

func newRankingCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Maintain the public rankings",
	}
	cmd.AddCommand(newRecordRankingCmd(root), newClearHighlightsCmd(root), newResetRankingCmd(root))
	return cmd
}

func newRecordRankingCmd(root *rootOptions) *cobra.Command {
	var (
		code         string
		input        gameapp.RankingInput
		roundCount   int
		gameResultID int64
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Add a ranking entry, optionally linked to a game result",
		Long: "Add a ranking entry. With --game-result-id the game, score and round count\n" +
			"are copied from that result and --game, --score and --round-count are ignored.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gameCode, err := parseGameFlag(code)
			if err != nil {
				return err
			}
			input.GameCode = gameCode
			flags := cmd.Flags()
			if flags.Changed("game-result-id") {
				if gameResultID <= 0 {
					return errors.New("--game-result-id must be positive")
				}
				input.GameResultID = &gameResultID
			} else if !flags.Changed("score") {
				return errors.New("either --score or --game-result-id is required")
			}
			if flags.Changed("round-count") {
				input.RoundCount = &roundCount
			}
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				rec, err := a.Rankings.Record(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d\thighlighted=%t\n",
					rec.ID, describeScope(rec.GameCode), rec.PlayerName, rec.Score, rec.IsEventHighlighted)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&input.PlayerName, "player-name", "", "Name shown on the board")
	flags.StringVar(&input.Organization, "organization", "", "Kindergarten or group")
	flags.StringVar(&input.Contact, "contact", "", "Contact for prize delivery")
	flags.StringVar(&code, "game", "", "Game code (BB_STAR or KIDS_TRAFFIC)")
	flags.IntVar(&input.Score, "score", 0, "Score")
	flags.IntVar(&roundCount, "round-count", 0, "Rounds reached")
	flags.Int64Var(&gameResultID, "game-result-id", 0, "Game result to copy game, score and rounds from")
	_ = cmd.MarkFlagRequired("player-name")
	return cmd
}

func newClearHighlightsCmd(root *rootOptions) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "clear-highlights",
		Short: "Unflag record holders of one game or of all games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gameCode, err := parseGameFlag(code)
			if err != nil {
				return err
			}
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				n, err := a.Rankings.ClearHighlights(ctx, gameCode)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d highlights in %s\n", n, describeScope(gameCode))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "game", "", "Game code (BB_STAR or KIDS_TRAFFIC); all games when empty")
	return cmd
}

func newResetRankingCmd(root *rootOptions) *cobra.Command {
	var (
		code    string
		confirm bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete ranking entries of one game or of all games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gameCode, err := parseGameFlag(code)
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to delete the entries of %s without --yes", describeScope(gameCode))
			}
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				n, err := a.Rankings.Reset(ctx, gameCode)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d ranking entries in %s\n", n, describeScope(gameCode))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "game", "", "Game code (BB_STAR or KIDS_TRAFFIC); all games when empty")
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the deletion")
	return cmd
}

func parseGameFlag(raw string) (game.Code, error) {
	if raw == "" {
		return "", nil
	}
	code := game.Code(strings.ToUpper(strings.TrimSpace(raw)))
	if !code.IsValid() {
		return "", errors.New("unknown game code " + raw)
	}
	return code, nil
}

func describeScope(code game.Code) string {
	if code == "" {
		return "all games"
	}
	return string(code)
}
