package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kkambbaki/backend/internal/app"
)

func newBotTokenCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot-token",
		Short: "Manage report bot tokens",
	}

	var userID int64
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue a single-use report bot token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return errors.New("--user-id must be positive")
			}
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				token, err := a.BotTokens.CreateForReport(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token.Token)
				return nil
			})
		},
	}
	create.Flags().Int64Var(&userID, "user-id", 0, "Owner of the token")
	_ = create.MarkFlagRequired("user-id")

	cmd.AddCommand(create)
	return cmd
}
