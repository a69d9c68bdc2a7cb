package persistence

import (
	"context"

	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// GetOrCreate returns the report of the pair, inserting it on first use.
// Concurrent callers race on the unique index; the loser reads the winner's row.
func (r *GormReportRepository) GetOrCreate(ctx context.Context, userID, childID int64) (*report.Report, bool, error) {
	existing, err := r.FindByUserAndChild(ctx, userID, childID)
	if err == nil {
		return existing, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}

	model := models.ReportModelFromDomain(report.NewReport(userID, childID))
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return nil, false, translateError(result.Error)
	}

	stored, err := r.FindByUserAndChild(ctx, userID, childID)
	if err != nil {
		return nil, false, err
	}
	return stored, result.RowsAffected == 1, nil
}

// FindByID finds a report by ID
func (r *GormReportRepository) FindByID(ctx context.Context, id int64) (*report.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserAndChild finds the report of the pair
func (r *GormReportRepository) FindByUserAndChild(ctx context.Context, userID, childID int64) (*report.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND child_id = ?", userID, childID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindDetail loads the report with its game reports, games and advice
func (r *GormReportRepository) FindDetail(ctx context.Context, userID, childID int64) (*report.Report, error) {
	rep, err := r.FindByUserAndChild(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	var rows []models.GameReportModel
	if err := r.db.WithContext(ctx).
		Preload("Game").
		Preload("Advices", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Where("report_id = ?", rep.ID).
		Order("game_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	rep.GameReports = make([]report.GameReport, len(rows))
	for i := range rows {
		rep.GameReports[i] = *rows[i].ToDomain()
	}
	return rep, nil
}

// LockByID reloads the report with SELECT ... FOR UPDATE
func (r *GormReportRepository) LockByID(ctx context.Context, id int64) (*report.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Update saves the report
func (r *GormReportRepository) Update(ctx context.Context, rep *report.Report) error {
	model := models.ReportModelFromDomain(rep)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)

// GormGameReportRepository implements GameReportRepository using GORM
type GormGameReportRepository struct {
	db *gorm.DB
}

// NewGormGameReportRepository creates a new GormGameReportRepository
func NewGormGameReportRepository(db *gorm.DB) *GormGameReportRepository {
	return &GormGameReportRepository{db: db}
}

// GetOrCreate returns the game report of (reportID, gameID), inserting it on first use
func (r *GormGameReportRepository) GetOrCreate(ctx context.Context, reportID, gameID int64) (*report.GameReport, bool, error) {
	existing, err := r.find(ctx, reportID, gameID)
	if err == nil {
		return existing, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}

	model := &models.GameReportModel{
		ReportID: reportID,
		GameID:   gameID,
		Meta:     models.JSONMap{},
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return nil, false, translateError(result.Error)
	}

	stored, err := r.find(ctx, reportID, gameID)
	if err != nil {
		return nil, false, err
	}
	return stored, result.RowsAffected == 1, nil
}

func (r *GormGameReportRepository) find(ctx context.Context, reportID, gameID int64) (*report.GameReport, error) {
	var model models.GameReportModel
	if err := r.db.WithContext(ctx).
		Preload("Game").
		Where("report_id = ? AND game_id = ?", reportID, gameID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByReport lists the game reports of a report with their games
func (r *GormGameReportRepository) FindByReport(ctx context.Context, reportID int64) ([]report.GameReport, error) {
	var rows []models.GameReportModel
	if err := r.db.WithContext(ctx).
		Preload("Game").
		Where("report_id = ?", reportID).
		Order("game_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.GameReport, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Update saves the game report counters
func (r *GormGameReportRepository) Update(ctx context.Context, gr *report.GameReport) error {
	model := models.GameReportModelFromDomain(gr)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ report.GameReportRepository = (*GormGameReportRepository)(nil)

// GormAdviceRepository implements AdviceRepository using GORM
type GormAdviceRepository struct {
	db *gorm.DB
}

// NewGormAdviceRepository creates a new GormAdviceRepository
func NewGormAdviceRepository(db *gorm.DB) *GormAdviceRepository {
	return &GormAdviceRepository{db: db}
}

// Create stores advice
func (r *GormAdviceRepository) Create(ctx context.Context, a *report.Advice) error {
	model := models.GameReportAdviceModelFromDomain(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	a.ID = model.ID
	return nil
}

// DeleteByGameReport removes every advice of the game report
func (r *GormAdviceRepository) DeleteByGameReport(ctx context.Context, gameReportID int64) error {
	return r.db.WithContext(ctx).
		Where("game_report_id = ?", gameReportID).
		Delete(&models.GameReportAdviceModel{}).Error
}

// FindByGameReport lists advice newest first
func (r *GormAdviceRepository) FindByGameReport(ctx context.Context, gameReportID int64) ([]report.Advice, error) {
	var rows []models.GameReportAdviceModel
	if err := r.db.WithContext(ctx).
		Where("game_report_id = ?", gameReportID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.Advice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ report.AdviceRepository = (*GormAdviceRepository)(nil)

// GormPinRepository implements PinRepository using GORM
type GormPinRepository struct {
	db *gorm.DB
}

// NewGormPinRepository creates a new GormPinRepository
func NewGormPinRepository(db *gorm.DB) *GormPinRepository {
	return &GormPinRepository{db: db}
}

// FindByUser finds the PIN record of the user
func (r *GormPinRepository) FindByUser(ctx context.Context, userID int64) (*report.Pin, error) {
	var model models.ReportPinModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the PIN of the user
func (r *GormPinRepository) Save(ctx context.Context, p *report.Pin) error {
	model := models.ReportPinModelFromDomain(p)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	p.ID = model.ID
	return nil
}

var _ report.PinRepository = (*GormPinRepository)(nil)
