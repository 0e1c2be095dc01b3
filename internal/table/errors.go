package table

import (
	"errors"
	"fmt"
)

// Error kinds. Every operation error wraps exactly one of these, so callers
// can classify failures with errors.Is without matching specific conditions.
var (
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrValue         = errors.New("value error")
)

// Authorization failures.
var (
	ErrNotPlayer = fmt.Errorf("%w: caller is not a registered player", ErrAuthorization)
	ErrNotOracle = fmt.Errorf("%w: caller is not the registered oracle", ErrAuthorization)
)

// State failures. A failed operation never mutates session state.
var (
	ErrNoGame            = fmt.Errorf("%w: no game in progress", ErrState)
	ErrGameInProgress    = fmt.Errorf("%w: game already started", ErrState)
	ErrAlreadyRegistered = fmt.Errorf("%w: already registered", ErrState)
	ErrTableFull         = fmt.Errorf("%w: maximum players reached", ErrState)
	ErrNotEnoughPlayers  = fmt.Errorf("%w: not enough players to play", ErrState)
	ErrNotYourTurn       = fmt.Errorf("%w: not caller's turn", ErrState)
	ErrCheckNotAllowed   = fmt.Errorf("%w: check not allowed", ErrState)
	ErrAwaitingShuffle   = fmt.Errorf("%w: awaiting shuffle fulfilment", ErrState)
	ErrAlreadyFolded     = fmt.Errorf("%w: already folded", ErrState)
	ErrUnknownRequest    = fmt.Errorf("%w: unknown shuffle request", ErrState)
	ErrTableClosed       = fmt.Errorf("%w: table has been torn down", ErrState)
	ErrNoOracle          = fmt.Errorf("%w: no oracle configured", ErrState)
)

// Value failures.
var (
	ErrBetTooSmall       = fmt.Errorf("%w: bet below current bet", ErrValue)
	ErrWordCount         = fmt.Errorf("%w: wrong number of random words", ErrValue)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrValue)
	ErrNothingToWithdraw = fmt.Errorf("%w: nothing to withdraw", ErrValue)
)
