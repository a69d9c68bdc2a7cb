package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGameRepository implements GameRepository using GORM
type GormGameRepository struct {
	db *gorm.DB
}

// NewGormGameRepository creates a new GormGameRepository
func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

// FindByID finds a game by ID
func (r *GormGameRepository) FindByID(ctx context.Context, id int64) (*game.Game, error) {
	var model models.GameModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a game by code regardless of its active flag
func (r *GormGameRepository) FindByCode(ctx context.Context, code game.Code) (*game.Game, error) {
	var model models.GameModel
	if err := r.db.WithContext(ctx).Where("code = ?", string(code)).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActive lists the active games
func (r *GormGameRepository) FindActive(ctx context.Context) ([]game.Game, error) {
	var rows []models.GameModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	games := make([]game.Game, len(rows))
	for i := range rows {
		games[i] = *rows[i].ToDomain()
	}
	return games, nil
}

// Upsert inserts the game or updates name, activity and rounds of the existing code
func (r *GormGameRepository) Upsert(ctx context.Context, g *game.Game) error {
	model := models.GameModelFromDomain(g)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_active", "max_round", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return translateError(err)
	}
	stored, err := r.FindByCode(ctx, g.Code)
	if err != nil {
		return err
	}
	g.ID = stored.ID
	g.CreatedAt = stored.CreatedAt
	return nil
}

var _ game.GameRepository = (*GormGameRepository)(nil)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create stores a new session
func (r *GormSessionRepository) Create(ctx context.Context, s *game.Session) error {
	model := models.GameSessionModelFromDomain(s)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error)
}

// Update saves the session state
func (r *GormSessionRepository) Update(ctx context.Context, s *game.Session) error {
	model := models.GameSessionModelFromDomain(s)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindForParentForUpdate locks the session row, then loads its game.
// The game is fetched separately so the lock never spans the join.
func (r *GormSessionRepository) FindForParentForUpdate(ctx context.Context, id uuid.UUID, parentID int64) (*game.Session, error) {
	var model models.GameSessionModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND parent_id = ?", id, parentID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}

	var g models.GameModel
	if err := r.db.WithContext(ctx).First(&g, "id = ?", model.GameID).Error; err != nil {
		return nil, translateError(err)
	}
	model.Game = &g
	return model.ToDomain(), nil
}

var _ game.SessionRepository = (*GormSessionRepository)(nil)

// GormResultRepository implements ResultRepository using GORM
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GormResultRepository
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Create stores a result. A second result for the same session is a duplicate.
func (r *GormResultRepository) Create(ctx context.Context, res *game.Result) error {
	model := models.GameResultModelFromDomain(res)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	res.ID = model.ID
	return nil
}

// FindByID finds a result by ID
func (r *GormResultRepository) FindByID(ctx context.Context, id int64) (*game.Result, error) {
	var model models.GameResultModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	res := model.ToDomain()
	return &res, nil
}

// FindByChildAndGame lists results newest first. A limit <= 0 returns all.
func (r *GormResultRepository) FindByChildAndGame(ctx context.Context, childID, gameID int64, limit int) ([]game.Result, error) {
	query := r.db.WithContext(ctx).
		Where("child_id = ? AND game_id = ?", childID, gameID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.GameResultModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]game.Result, len(rows))
	for i := range rows {
		results[i] = rows[i].ToDomain()
	}
	return results, nil
}

// FindLatestByChildAndGame returns the most recently updated result
func (r *GormResultRepository) FindLatestByChildAndGame(ctx context.Context, childID, gameID int64) (*game.Result, error) {
	var model models.GameResultModel
	err := r.db.WithContext(ctx).
		Where("child_id = ? AND game_id = ?", childID, gameID).
		Order("updated_at DESC").
		Order("id DESC").
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	res := model.ToDomain()
	return &res, nil
}

// CountByChildAndGame counts the child's results in the game
func (r *GormResultRepository) CountByChildAndGame(ctx context.Context, childID, gameID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GameResultModel{}).
		Where("child_id = ? AND game_id = ?", childID, gameID).
		Count(&count).Error
	return count, err
}

var _ game.ResultRepository = (*GormResultRepository)(nil)
