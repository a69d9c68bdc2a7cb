package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user and assigns its ID
	Create(ctx context.Context, user *User) error

	// Update saves changes to an existing user
	Update(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByUsername matches the username exactly
	FindByUsername(ctx context.Context, username string) (*User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// ChildRepository persists child profiles
type ChildRepository interface {
	// FindByParentID returns shared.ErrNotFound when the parent has no child
	FindByParentID(ctx context.Context, parentID int64) (*Child, error)

	FindByID(ctx context.Context, id int64) (*Child, error)

	// Save inserts or updates the child
	Save(ctx context.Context, child *Child) error
}

// BotTokenRepository persists bot tokens
type BotTokenRepository interface {
	Create(ctx context.Context, token *BotToken) error

	FindByID(ctx context.Context, id int64) (*BotToken, error)

	FindByToken(ctx context.Context, token string) (*BotToken, error)

	Delete(ctx context.Context, id int64) error
}
