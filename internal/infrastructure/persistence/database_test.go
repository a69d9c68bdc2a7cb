package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database backed by sqlmock using the postgres dialect
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	require.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Transaction(t *testing.T) {
	type TestModel struct {
		ID   uint
		Name string
	}

	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "test_models"`).
			WithArgs("test").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return tx.Create(&TestModel{Name: "test"}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// Row locks are invisible on sqlite, so the generated postgres SQL is checked here.
func TestGormSessionRepository_FindForParentForUpdate_LocksRow(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	sessionID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "game_sessions" WHERE id = \$1 AND parent_id = \$2 .*FOR UPDATE`).
		WithArgs(sessionID, int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "child_id", "game_id", "status", "current_round", "meta"}).
			AddRow(sessionID.String(), 7, 3, 2, "STARTED", 1, []byte(`{}`)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "games" WHERE id = $1`)).
		WithArgs(int64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "is_active", "max_round"}).
			AddRow(2, "KIDS_TRAFFIC", "꼬마 교통지킴이 게임", true, 10))

	repo := NewGormSessionRepository(db.DB)
	session, err := repo.FindForParentForUpdate(context.Background(), sessionID, 7)
	require.NoError(t, err)

	assert.Equal(t, sessionID, session.ID)
	require.NotNil(t, session.Game)
	assert.Equal(t, "KIDS_TRAFFIC", string(session.Game.Code))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_LockByID_LocksRow(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(int64(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewGormReportRepository(db.DB)
	_, err := repo.LockByID(context.Background(), 5)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
