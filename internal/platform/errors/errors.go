package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence operation failed")
)

// Persistence renders the user-facing message for a failed store operation,
// e.g. "DB: Day adding error: disk full".
func Persistence(op string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("DB: %s error: %v", op, err)
}
