package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kkambbaki/backend/internal/app"
	reportapp "github.com/kkambbaki/backend/internal/application/report"
)

func newSendReportEmailCmd(root *rootOptions) *cobra.Command {
	var (
		reportID int64
		email    string
	)
	cmd := &cobra.Command{
		Use:   "send-report-email",
		Short: "Queue the report email of a report",
		Long: `Creates a bot token for the owner of the report and queues the email
with the PDF of the report page. The worker sends it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reportID <= 0 {
				return errors.New("--report-id must be positive")
			}
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				if a.Config.Tasks.Backend != "redis" {
					a.Logger.Warn("The memory task backend drops tasks queued by this command; use the redis backend")
				}
				taskID, err := a.Reports.SendForReport(ctx, reportID, email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "queued report email for report %d to %s (task %s)\n", reportID, email, taskID)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&reportID, "report-id", 0, "ID of the report to send")
	cmd.Flags().StringVar(&email, "email", "", "Recipient address")
	_ = cmd.MarkFlagRequired("report-id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCreateDummyReportCmd(root *rootOptions) *cobra.Command {
	var opts reportapp.DummyOptions
	cmd := &cobra.Command{
		Use:   "create-dummy-report",
		Short: "Create a demo account with a completed report",
		Long: `Creates or reuses the demo parent account, its child, a set of completed
sessions for every active game and a completed report with advice.
Everything is written in one transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				var sum *reportapp.DummySummary
				err := a.DB.Transaction(ctx, func(tx *gorm.DB) error {
					var err error
					sum, err = reportapp.CreateDummyReport(ctx, app.DummyDependencies(tx), opts)
					return err
				})
				if err != nil {
					return err
				}
				printDummySummary(cmd, sum)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", reportapp.DummyEmail, "Email of the demo account")
	cmd.Flags().StringVar(&opts.Username, "username", reportapp.DummyUsername, "Username of the demo account")
	cmd.Flags().StringVar(&opts.ChildName, "child-name", reportapp.DummyChildName, "Name of the demo child")
	cmd.Flags().IntVar(&opts.SessionsPerGame, "sessions", reportapp.DummySessionsPerGame, "Completed sessions per game")
	return cmd
}

func printDummySummary(cmd *cobra.Command, sum *reportapp.DummySummary) {
	out := cmd.OutOrStdout()
	verb := func(created bool) string {
		if created {
			return "created"
		}
		return "reused"
	}
	fmt.Fprintf(out, "user    %d %s (%s, password %s)\n", sum.UserID, sum.Username, verb(sum.UserCreated), reportapp.DummyPassword)
	fmt.Fprintf(out, "child   %d %s (%s)\n", sum.ChildID, sum.ChildName, verb(sum.ChildCreated))
	fmt.Fprintf(out, "games   %d reports, %d advices\n", sum.GameReports, sum.Advices)
	fmt.Fprintf(out, "report  %d\n", sum.ReportID)
}

func newSendDemoEmailCmd(root *rootOptions) *cobra.Command {
	var to, title, content string
	cmd := &cobra.Command{
		Use:   "send-demo-email",
		Short: "Send a plain text email to check the mail setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app.Application) error {
				res := a.Mailer.SendDemo(ctx, to, title, content)
				if !res.Success {
					return errors.New(res.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	cmd.Flags().StringVar(&title, "title", reportapp.DefaultDemoTitle, "Subject")
	cmd.Flags().StringVar(&content, "content", reportapp.DefaultDemoContent, "Body text")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
