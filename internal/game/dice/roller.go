package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and a logger; every roll is logged at debug level
// with its purpose, bound, and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that draws from src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced with zap.NewNop().
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn draws a value in [0, n) and logs it under the given purpose.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	return r.roll("intn", n)
}

// Chance reports whether a percentile roll (1-100) lands at or below percent.
// A percent <= 0 never succeeds; a percent >= 100 always does.
//
// Postcondition: Exactly one value is drawn from the Source.
func (r *Roller) Chance(purpose string, percent int) bool {
	roll := r.roll(purpose, 100) + 1
	ok := roll <= percent
	r.logger.Debug("chance roll",
		zap.String("purpose", purpose),
		zap.Int("roll", roll),
		zap.Int("percent", percent),
		zap.Bool("success", ok),
	)
	return ok
}

// Coin reports the outcome of a fair coin flip.
func (r *Roller) Coin(purpose string) bool {
	return r.roll(purpose, 2) == 0
}

func (r *Roller) roll(purpose string, n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dice: roll %q with bound %d", purpose, n))
	}
	v := r.src.Intn(n)
	r.logger.Debug("dice roll",
		zap.String("purpose", purpose),
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}
