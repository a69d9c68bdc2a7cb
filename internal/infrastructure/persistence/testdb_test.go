package persistence

import (
	"context"
	"testing"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One connection, otherwise every pooled connection sees its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *identity.User {
	t.Helper()
	identity.PasswordHashCost = bcrypt.MinCost

	user, err := identity.NewUser(username, "password123", "")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func seedChild(t *testing.T, db *gorm.DB, parentID int64) *identity.Child {
	t.Helper()

	child, err := identity.NewChild(parentID, "하늘", 2018, identity.GenderFemale)
	require.NoError(t, err)
	require.NoError(t, NewGormChildRepository(db).Save(context.Background(), child))
	return child
}

func seedGame(t *testing.T, db *gorm.DB, code game.Code) *game.Game {
	t.Helper()

	g, err := game.NewGame(code, "", game.DefaultMaxRound)
	require.NoError(t, err)
	require.NoError(t, NewGormGameRepository(db).Upsert(context.Background(), g))
	return g
}

func intPtr(v int) *int {
	return &v
}
