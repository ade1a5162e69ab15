package handlers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
)

// notFoundIfMissing translates a missing row into the 404 code;
// anything else passes through for the 500 path.
func notFoundIfMissing(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.New(apierr.NotFound)
	}
	return err
}
