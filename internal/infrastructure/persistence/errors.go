package persistence

import (
	"errors"

	"github.com/kkambbaki/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM sentinel errors to domain errors.
// The connection must be opened with TranslateError enabled for duplicates to surface.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}
