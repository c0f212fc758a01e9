// Package settlement queues unattended completion of external transfers.
//
// A real deployment would complete external movements from a settlement
// callback of the receiving institution. This package models that rail
// behind a small interface: the Timer implementation simulates it with a
// bounded random delay, and Instant is the deterministic test double.
package settlement

import (
	"context"
	"time"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/rs/zerolog"
)

// completeTimeout bounds the database call made when a timer fires.
const completeTimeout = 10 * time.Second

// Completer finishes a pending external movement.
type Completer interface {
	CompleteExternal(ctx context.Context, reference string) (domain.Movement, error)
}

// Timer completes scheduled movements after a random delay between min and max.
type Timer struct {
	completer Completer
	min       time.Duration
	max       time.Duration
	logger    zerolog.Logger
}

// NewTimer returns a Timer scheduler with the given delay bounds.
func NewTimer(c Completer, min, max time.Duration, logger zerolog.Logger) *Timer {
	if max < min {
		max = min
	}

	return &Timer{
		completer: c,
		min:       min,
		max:       max,
		logger:    logger,
	}
}

// Schedule queues completion of the movement with the given reference.
// The movement may have been settled by an admin in the meantime; the
// pending guard downstream makes that a no-op here.
func (t *Timer) Schedule(reference string) {
	delay := t.min
	if spread := t.max - t.min; spread > 0 {
		delay += time.Duration(randompkg.Intn(int(spread)))
	}

	logger := t.logger.With().Str("reference", reference).Logger()

	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), completeTimeout)
		defer cancel()

		_, err := t.completer.CompleteExternal(ctx, reference)
		if err != nil && err != domain.ErrAlreadyProcessed {
			logger.Error().Err(err).Msg("external settlement failed")
			return
		}

		logger.Info().Msg("external movement settled")
	})
}

// Instant completes movements synchronously. It exists for tests and for
// environments without a simulated settlement delay.
type Instant struct {
	completer Completer
}

// NewInstant returns an Instant scheduler.
func NewInstant(c Completer) *Instant {
	return &Instant{completer: c}
}

// Schedule completes the movement before returning.
func (i *Instant) Schedule(reference string) {
	_, _ = i.completer.CompleteExternal(context.Background(), reference)
}
