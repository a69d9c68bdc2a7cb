package game

import (
	"context"

	"github.com/kkambbaki/backend/internal/domain/game"
)

// TransactionScope runs session finishing atomically.
// All repositories handed to fn share one database transaction.
type TransactionScope interface {
	// Execute runs fn in a transaction. An error from fn rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories used while finishing a session
type TransactionalRepositories interface {
	// SessionRepo returns the session repository scoped to the current transaction
	SessionRepo() game.SessionRepository
	// ResultRepo returns the result repository scoped to the current transaction
	ResultRepo() game.ResultRepository
}

// NoOpTransactionScope runs the function without a transaction. Used by tests.
type NoOpTransactionScope struct {
	sessionRepo game.SessionRepository
	resultRepo  game.ResultRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(sessionRepo game.SessionRepository, resultRepo game.ResultRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{sessionRepo: sessionRepo, resultRepo: resultRepo}
}

// Execute calls fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SessionRepo returns the session repository.
func (s *NoOpTransactionScope) SessionRepo() game.SessionRepository {
	return s.sessionRepo
}

// ResultRepo returns the result repository.
func (s *NoOpTransactionScope) ResultRepo() game.ResultRepository {
	return s.resultRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
