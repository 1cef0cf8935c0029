package service

import "errors"

// ErrForbidden marks an operation attempted on a resource the caller
// does not own.
var ErrForbidden = errors.New("forbidden")
