package report

import (
	"context"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
)

// TransactionScope runs a report status check atomically while the report row
// is locked, and swaps a game report's advice together with the section.
type TransactionScope interface {
	// Execute runs fn in a transaction. An error from fn rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories used inside a report transaction.
// All of them share the underlying transaction.
type TransactionalRepositories interface {
	ReportRepo() report.ReportRepository
	GameReportRepo() report.GameReportRepository
	AdviceRepo() report.AdviceRepository
	ResultRepo() game.ResultRepository
}

// NoOpTransactionScope runs the function without a transaction. Used by tests.
type NoOpTransactionScope struct {
	reportRepo     report.ReportRepository
	gameReportRepo report.GameReportRepository
	adviceRepo     report.AdviceRepository
	resultRepo     game.ResultRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	reportRepo report.ReportRepository,
	gameReportRepo report.GameReportRepository,
	adviceRepo report.AdviceRepository,
	resultRepo game.ResultRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		reportRepo:     reportRepo,
		gameReportRepo: gameReportRepo,
		adviceRepo:     adviceRepo,
		resultRepo:     resultRepo,
	}
}

// Execute calls fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReportRepo returns the report repository.
func (s *NoOpTransactionScope) ReportRepo() report.ReportRepository {
	return s.reportRepo
}

// GameReportRepo returns the game report repository.
func (s *NoOpTransactionScope) GameReportRepo() report.GameReportRepository {
	return s.gameReportRepo
}

// AdviceRepo returns the advice repository.
func (s *NoOpTransactionScope) AdviceRepo() report.AdviceRepository {
	return s.adviceRepo
}

// ResultRepo returns the result repository.
func (s *NoOpTransactionScope) ResultRepo() game.ResultRepository {
	return s.resultRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
