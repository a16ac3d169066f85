package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConnection is wrapped by every AddConnection rejection.
	ErrInvalidConnection = errors.New("invalid connection")

	ErrUnknownNode         = errors.New("unknown node")
	ErrChannelRange        = errors.New("channel out of range")
	ErrDuplicateConnection = errors.New("duplicate connection")
	ErrInputOccupied       = errors.New("input channel already connected")
	ErrCycle               = errors.New("connection would create a cycle")
)

func rejectConnection(c Connection, reason error) error {
	return fmt.Errorf("graph: add connection %s: %w: %w", c, ErrInvalidConnection, reason)
}
