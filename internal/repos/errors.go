package repos

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("row already exists")
)
