package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingRejecter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingRejecter) RejectExpired(context.Context, time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	return 2, c.err
}

func (c *countingRejecter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}

func TestSweepAbsences(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rejecter := &countingRejecter{err: errors.New("db is gone")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepAbsences(ctx, logger, rejecter, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rejecter.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestSweepAbsencesDisabled(t *testing.T) {
	rejecter := &countingRejecter{}

	sweepAbsences(context.Background(), slog.Default(), rejecter, 0)

	assert.Zero(t, rejecter.count())
}
