package repository

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether err is a record-not-found lookup failure, as
// opposed to a connection or query error. Callers use it to tell "the row
// does not exist" apart from "the lookup itself failed".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
