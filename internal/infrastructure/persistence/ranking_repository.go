package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Board order. round_count is nullable; COALESCE keeps NULLs last on every dialect.
const rankingOrder = "re.score DESC, COALESCE(re.round_count, 0) DESC, re.created_at ASC"

// rankedRow is the scan target of the ranking window query
type rankedRow struct {
	models.RankingEntryModel
	GameName  *string
	BoardRank int
}

// GormRankingRepository implements RankingRepository using GORM
type GormRankingRepository struct {
	db *gorm.DB
}

// NewGormRankingRepository creates a new GormRankingRepository
func NewGormRankingRepository(db *gorm.DB) *GormRankingRepository {
	return &GormRankingRepository{db: db}
}

// Create stores an entry
func (r *GormRankingRepository) Create(ctx context.Context, e *game.RankingEntry) error {
	model := models.RankingEntryModelFromDomain(e)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	e.ID = model.ID
	return nil
}

// Update saves an entry
func (r *GormRankingRepository) Update(ctx context.Context, e *game.RankingEntry) error {
	model := models.RankingEntryModelFromDomain(e)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// First returns the current record holder of the game
func (r *GormRankingRepository) First(ctx context.Context, gameID int64) (*game.RankingEntry, error) {
	var model models.RankingEntryModel
	err := r.db.WithContext(ctx).
		Table("ranking_entries AS re").
		Select("re.*").
		Where("re.game_id = ?", gameID).
		Order(rankingOrder).
		Order("re.id").
		Limit(1).
		Scan(&model).Error
	if err != nil {
		return nil, err
	}
	if model.ID == 0 {
		return nil, shared.ErrNotFound
	}
	return model.ToDomain(), nil
}

// ClearHighlights unflags highlighted entries, keeping exceptID flagged
func (r *GormRankingRepository) ClearHighlights(ctx context.Context, gameID *int64, exceptID int64) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RankingEntryModel{}).
		Where("is_event_highlighted = ?", true)
	if gameID != nil {
		query = query.Where("game_id = ?", *gameID)
	}
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	result := query.Updates(map[string]any{
		"is_event_highlighted": false,
		"event_triggered_at":   nil,
		"updated_at":           time.Now(),
	})
	return result.RowsAffected, result.Error
}

// DeleteByGame removes entries of a game, or every entry when gameID is nil
func (r *GormRankingRepository) DeleteByGame(ctx context.Context, gameID *int64) (int64, error) {
	query := r.db.WithContext(ctx)
	if gameID != nil {
		query = query.Where("game_id = ?", *gameID)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&models.RankingEntryModel{})
	return result.RowsAffected, result.Error
}

// Top ranks entries with RANK() so ties share a position
func (r *GormRankingRepository) Top(ctx context.Context, gameID *int64, limit int) ([]game.RankedEntry, error) {
	query := r.db.WithContext(ctx).
		Table("ranking_entries AS re").
		Select("re.*, g.name AS game_name, RANK() OVER (ORDER BY " + rankingOrder + ") AS board_rank").
		Joins("LEFT JOIN games g ON g.id = re.game_id")
	if gameID != nil {
		query = query.Where("re.game_id = ?", *gameID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []rankedRow
	if err := query.Order("board_rank").Order("re.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]game.RankedEntry, len(rows))
	for i := range rows {
		e := rows[i].ToDomain()
		if rows[i].GameName != nil {
			e.GameName = *rows[i].GameName
		}
		entries[i] = game.RankedEntry{RankingEntry: *e, Rank: rows[i].BoardRank}
	}
	return entries, nil
}

// LatestUpdate returns the newest updated_at over all entries
func (r *GormRankingRepository) LatestUpdate(ctx context.Context) (*time.Time, error) {
	var model models.RankingEntryModel
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model.UpdatedAt, nil
}

var _ game.RankingRepository = (*GormRankingRepository)(nil)
