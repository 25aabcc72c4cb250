package services

import (
	"errors"
	"fmt"

	"conduit-cms/models"

	"gorm.io/gorm"
)

// lookupErr turns a missing record into ErrorNotFound and wraps anything else.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFoundf("%s not found", what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
