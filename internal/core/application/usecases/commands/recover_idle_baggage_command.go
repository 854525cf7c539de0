package commands

import (
	"errors"
	"math"
	"time"

	"baggage/internal/pkg/errs"
	"baggage/internal/pkg/guard"
)

var ErrRecoverIdleBaggageCommandIsNotConstructed = errors.New(
	"RecoverIdleBaggageCommand must be created via NewRecoverIdleBaggageCommand constructor",
)

// RecoverIdleBaggageCommand resumes records parked at an automated stage for at least IdleFor.
type RecoverIdleBaggageCommand struct { //nolint:recvcheck //using for validation
	idleFor time.Duration

	guard guard.ConstructorGuard
}

func NewRecoverIdleBaggageCommand(idleFor time.Duration) (RecoverIdleBaggageCommand, error) {
	if idleFor < 0 {
		return RecoverIdleBaggageCommand{}, errs.NewValueIsOutOfRangeError("idleFor", idleFor, time.Duration(0), time.Duration(math.MaxInt64))
	}

	return RecoverIdleBaggageCommand{
		idleFor: idleFor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecoverIdleBaggageCommand) Validate() error {
	return c.guard.Validate(ErrRecoverIdleBaggageCommandIsNotConstructed)
}

func (c RecoverIdleBaggageCommand) IdleFor() time.Duration {
	return c.idleFor
}
