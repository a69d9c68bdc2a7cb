package persistence

import (
	"context"

	appgame "github.com/kkambbaki/backend/internal/application/game"
	appreport "github.com/kkambbaki/backend/internal/application/report"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormGameTransactionScope implements the game TransactionScope using GORM transactions.
type GormGameTransactionScope struct {
	db *gorm.DB
}

// NewGormGameTransactionScope creates a new GormGameTransactionScope.
func NewGormGameTransactionScope(db *gorm.DB) *GormGameTransactionScope {
	return &GormGameTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormGameTransactionScope) Execute(ctx context.Context, fn func(repos appgame.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormReportTransactionScope implements the report TransactionScope using GORM transactions.
type GormReportTransactionScope struct {
	db *gorm.DB
}

// NewGormReportTransactionScope creates a new GormReportTransactionScope.
func NewGormReportTransactionScope(db *gorm.DB) *GormReportTransactionScope {
	return &GormReportTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormReportTransactionScope) Execute(ctx context.Context, fn func(repos appreport.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) SessionRepo() game.SessionRepository {
	return NewGormSessionRepository(r.tx)
}

func (r *gormTransactionalRepositories) ResultRepo() game.ResultRepository {
	return NewGormResultRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReportRepo() report.ReportRepository {
	return NewGormReportRepository(r.tx)
}

func (r *gormTransactionalRepositories) GameReportRepo() report.GameReportRepository {
	return NewGormGameReportRepository(r.tx)
}

func (r *gormTransactionalRepositories) AdviceRepo() report.AdviceRepository {
	return NewGormAdviceRepository(r.tx)
}

var (
	_ appgame.TransactionScope            = (*GormGameTransactionScope)(nil)
	_ appreport.TransactionScope          = (*GormReportTransactionScope)(nil)
	_ appgame.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appreport.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
