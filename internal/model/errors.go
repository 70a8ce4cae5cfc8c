package model

import "errors"

// Common errors used across the application
var (
	// Handshake errors
	ErrDecrypt = errors.New("identity blob could not be decrypted")

	// Session errors
	ErrNotConnected = errors.New("player has no live session")
)
