package persistence

import (
	"context"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user and assigns its ID
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// Update updates an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by exact username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByUsername checks if a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormChildRepository implements ChildRepository using GORM
type GormChildRepository struct {
	db *gorm.DB
}

// NewGormChildRepository creates a new GormChildRepository
func NewGormChildRepository(db *gorm.DB) *GormChildRepository {
	return &GormChildRepository{db: db}
}

// FindByParentID finds the child registered by the parent
func (r *GormChildRepository) FindByParentID(ctx context.Context, parentID int64) (*identity.Child, error) {
	var model models.ChildModel
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByID finds a child by ID
func (r *GormChildRepository) FindByID(ctx context.Context, id int64) (*identity.Child, error) {
	var model models.ChildModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save inserts a new child or updates an existing one
func (r *GormChildRepository) Save(ctx context.Context, child *identity.Child) error {
	model := models.ChildModelFromDomain(child)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err)
	}
	child.ID = model.ID
	return nil
}

var _ identity.ChildRepository = (*GormChildRepository)(nil)

// GormBotTokenRepository implements BotTokenRepository using GORM
type GormBotTokenRepository struct {
	db *gorm.DB
}

// NewGormBotTokenRepository creates a new GormBotTokenRepository
func NewGormBotTokenRepository(db *gorm.DB) *GormBotTokenRepository {
	return &GormBotTokenRepository{db: db}
}

// Create stores a new token
func (r *GormBotTokenRepository) Create(ctx context.Context, token *identity.BotToken) error {
	model := models.BotTokenModelFromDomain(token)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	token.ID = model.ID
	return nil
}

// FindByID finds a token by ID
func (r *GormBotTokenRepository) FindByID(ctx context.Context, id int64) (*identity.BotToken, error) {
	var model models.BotTokenModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByToken finds a token by its secret value
func (r *GormBotTokenRepository) FindByToken(ctx context.Context, token string) (*identity.BotToken, error) {
	var model models.BotTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a token. Deleting a missing token returns shared.ErrNotFound.
func (r *GormBotTokenRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.BotTokenModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.BotTokenRepository = (*GormBotTokenRepository)(nil)
