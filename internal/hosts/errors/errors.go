package errors

import "errors"

var (
	ErrNotFound = errors.New("host not found")
)
