package repository

import (
	"errors"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"gorm.io/gorm"
)

// translate maps a gorm error onto the API error taxonomy. Raw store text
// stays in Err and never reaches the message.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		conflict := apperr.Conflict("", "Record already exists")
		conflict.Err = err
		return conflict
	default:
		return apperr.StoreUnavailable(err)
	}
}
