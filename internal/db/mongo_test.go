package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rifat402/courses-app/internal/config"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

func TestMongoProviderFailedConnectIsNotCached(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URI = "not-a-mongo-uri"
	cfg.Database.Name = "coursesDB"
	provider := NewMongoProvider(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := provider.Database(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Nil(t, provider.client)

	assert.ErrorIs(t, provider.Ping(ctx), apperrors.ErrStoreUnavailable)
	assert.NoError(t, provider.Close(ctx))
}

func TestMongoProviderUnreachableServerHonoursCallerDeadline(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URI = "mongodb://127.0.0.1:1"
	cfg.Database.Name = "coursesDB"
	cfg.Database.OperationTimeout = "30s"
	provider := NewMongoProvider(cfg)
	t.Cleanup(func() { _ = provider.Close(context.Background()) })

	const callers = 5
	errs := make(chan error, callers)
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()
			_, err := provider.Database(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// callers wait side by side, not one after another
	assert.Less(t, time.Since(start), 3*time.Second)
	for err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	}

	assert.NotNil(t, provider.client, "client is kept, only the ping failed")
	assert.False(t, provider.verified.Load())
}
