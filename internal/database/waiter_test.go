package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForDBSucceedsAfterRetries(t *testing.T) {
	logger := zerolog.Nop()

	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := waitForDB(context.Background(), &logger, ping, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitForDBExhaustsAttempts(t *testing.T) {
	logger := zerolog.Nop()

	ping := func(ctx context.Context) error {
		return errors.New("connection refused")
	}

	err := waitForDB(context.Background(), &logger, ping, 3, time.Millisecond)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestWaitForDBStopsOnContextCancel(t *testing.T) {
	logger := zerolog.Nop()

	ctx, cancel := context.WithCancel(context.Background())

	ping := func(ctx context.Context) error {
		cancel()
		return errors.New("connection refused")
	}

	err := waitForDB(ctx, &logger, ping, 100, time.Minute)

	require.ErrorIs(t, err, context.Canceled)
}
