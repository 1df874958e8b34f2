// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrInsufficientPopulation = errors.New("not enough items")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrItemNotFound           = errors.New("item not found")
	ErrInvalidChoice          = errors.New("invalid choice")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrPartialUpdate          = errors.New("partial update")
	ErrInvalidDelta           = errors.New("invalid delta")
	ErrSessionNotFound        = errors.New("session not found")
)
