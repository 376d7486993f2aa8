package persistence

import (
	"errors"

	"github.com/fieldsales/erp/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM sentinel errors onto domain errors.
// The connection is opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeAlreadyExists, resource+" already exists")
	default:
		return err
	}
}
