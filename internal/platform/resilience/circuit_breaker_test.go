package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(threshold int) (*CircuitBreaker, *clock.Mock) {
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC))
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	}, clk)
	return b, clk
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b, clk := newTestBreaker(2)

	require.NoError(t, b.Allow())

	b.RecordFailure()
	assert.Equal(t, CircuitStateClosed, b.State())

	b.RecordFailure()
	assert.Equal(t, CircuitStateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	clk.Add(6 * time.Second)
	require.NoError(t, b.Allow(), "half-open probe should pass")
	assert.Equal(t, CircuitStateHalfOpen, b.State())

	b.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b, _ := newTestBreaker(1)
	errCaller := errors.New("caller mistake")

	for i := 0; i < 3; i++ {
		err := b.Execute(func() error { return errCaller }, func(err error) bool { return false })
		assert.ErrorIs(t, err, errCaller)
	}
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_ExecuteRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(1)
	errUpstream := errors.New("connection refused")

	err := b.Execute(func() error { return errUpstream }, nil)
	require.ErrorIs(t, err, errUpstream)

	calls := 0
	err = b.Execute(func() error {
		calls++
		return nil
	}, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, calls)
}

func TestCircuitBreaker_DisabledAlwaysRuns(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, nil)

	calls := 0
	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error {
			calls++
			return errors.New("down")
		}, nil)
	}
	assert.Equal(t, 3, calls)
}
