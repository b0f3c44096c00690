package asset

import "errors"

var (
	ErrNotFound                = errors.New("asset not found")
	ErrNoRateDefined           = errors.New("no rate defined")
	ErrInvalidRate             = errors.New("invalid rate")
	ErrInvalidKind             = errors.New("invalid asset kind")
	ErrUtilitiesMismatch       = errors.New("utilities do not match asset kind")
	ErrInvalidStatusTransition = errors.New("invalid asset status transition")
)
