package report

import (
	"context"
)

// ReportRepository persists reports
type ReportRepository interface {
	// GetOrCreate returns the report of (userID, childID), creating it when missing.
	// The bool is true when the report was created.
	GetOrCreate(ctx context.Context, userID, childID int64) (*Report, bool, error)

	FindByID(ctx context.Context, id int64) (*Report, error)

	// FindByUserAndChild returns shared.ErrNotFound when there is no report
	FindByUserAndChild(ctx context.Context, userID, childID int64) (*Report, error)

	// FindDetail loads the report with game reports, games and advices
	FindDetail(ctx context.Context, userID, childID int64) (*Report, error)

	// LockByID reloads the report holding a row lock for the current transaction
	LockByID(ctx context.Context, id int64) (*Report, error)

	Update(ctx context.Context, r *Report) error
}

// GameReportRepository persists game reports
type GameReportRepository interface {
	// GetOrCreate returns the game report of (reportID, gameID), creating it when missing
	GetOrCreate(ctx context.Context, reportID, gameID int64) (*GameReport, bool, error)

	FindByReport(ctx context.Context, reportID int64) ([]GameReport, error)

	Update(ctx context.Context, gr *GameReport) error
}

// AdviceRepository persists advice
type AdviceRepository interface {
	Create(ctx context.Context, a *Advice) error

	// DeleteByGameReport removes all advice of the game report
	DeleteByGameReport(ctx context.Context, gameReportID int64) error

	// FindByGameReport lists advice newest first
	FindByGameReport(ctx context.Context, gameReportID int64) ([]Advice, error)
}

// PinRepository persists report PINs
type PinRepository interface {
	// FindByUser returns shared.ErrNotFound when the user never set a PIN
	FindByUser(ctx context.Context, userID int64) (*Pin, error)

	// Save inserts or updates the PIN of the user
	Save(ctx context.Context, p *Pin) error
}
