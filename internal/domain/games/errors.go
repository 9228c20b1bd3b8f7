package games

import (
	"errors"
	"fmt"
)

// Error kinds shared by the game entity, the repository, and the scoreboard.
// Callers classify failures with errors.Is.
var (
	// ErrInvalidArgument reports a missing reference, a blank team name, or a negative score.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState reports an operation that does not fit the current tracked state.
	ErrInvalidState = errors.New("invalid state")

	ErrGameExists   = fmt.Errorf("%w: game already exists", ErrInvalidState)
	ErrGameNotFound = fmt.Errorf("%w: game not found", ErrInvalidState)
)
