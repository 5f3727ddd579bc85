package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
)

var (
	ErrAvatarNotFound  = errors.New("avatar not found")
	ErrVersionNotFound = errors.New("prompt version not found")
)

// ValidationError is a request the caller has to fix
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports the not-found class of errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAvatarNotFound) ||
		errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, repositories.ErrVersionNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}
