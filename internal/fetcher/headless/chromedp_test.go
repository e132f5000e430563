package headless

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChromedp_RejectsNegativeParallelism(t *testing.T) {
	t.Parallel()

	_, err := NewChromedp(Config{MaxParallel: -1})
	require.Error(t, err)
}

func TestNewChromedp_DefaultsNavigationTimeout(t *testing.T) {
	t.Parallel()

	f, err := NewChromedp(Config{MaxParallel: 1})
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, 45*time.Second, f.cfg.NavigationTimeout)
	require.NotNil(t, f.limiter)
}

func TestAcquire_HonorsCanceledContext(t *testing.T) {
	t.Parallel()

	f, err := NewChromedp(Config{MaxParallel: 1})
	require.NoError(t, err)
	defer f.Close()

	// Occupy the only slot, then a canceled context must fail fast.
	require.NoError(t, f.acquire(context.Background()))
	defer f.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, f.acquire(ctx))
}
