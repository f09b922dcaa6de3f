package testutil

import (
	"context"
	"testing"
	"time"
)

const defaultContextTimeout = 30 * time.Second

func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
}

func ContextWithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), defaultContextTimeout)
	t.Cleanup(cancel)

	return ctx, cancel
}
