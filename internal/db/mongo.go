package db

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Rifat402/courses-app/internal/config"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
	"github.com/Rifat402/courses-app/internal/pkg/logger"
)

// MongoProvider hands out one shared database handle. The client is built on
// first use; reachability is checked with the caller's context outside the
// lock. A failed check is not remembered and the next call pings again.
type MongoProvider struct {
	uri            string
	dbName         string
	connectTimeout time.Duration
	log            zerolog.Logger

	mu       sync.Mutex
	client   *mongo.Client
	verified atomic.Bool
}

// NewMongoProvider creates a provider for the configured database. No network
// traffic happens until Database is called.
func NewMongoProvider(cfg *config.Config) *MongoProvider {
	timeout := cfg.OperationTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoProvider{
		uri:            cfg.Database.URI,
		dbName:         cfg.Database.Name,
		connectTimeout: timeout,
		log:            logger.Component("mongo"),
	}
}

// clientHandle returns the shared client, creating it if needed. mongo.Connect
// only validates options and starts background monitoring, so the lock is
// never held across a network round trip.
func (p *MongoProvider) clientHandle() (*mongo.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	opts := options.Client().
		ApplyURI(p.uri).
		SetConnectTimeout(p.connectTimeout).
		SetServerSelectionTimeout(p.connectTimeout)
	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", apperrors.ErrStoreUnavailable, err)
	}

	p.client = client
	return client, nil
}

// Database returns the shared handle. Until one ping has succeeded every call
// verifies the server is reachable, bounded by ctx.
func (p *MongoProvider) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := p.clientHandle()
	if err != nil {
		return nil, err
	}

	if !p.verified.Load() {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("%w: ping: %v", apperrors.ErrStoreUnavailable, err)
		}
		if p.verified.CompareAndSwap(false, true) {
			p.log.Info().Str("database", p.dbName).Msg("MongoDB connection established")
		}
	}

	return client.Database(p.dbName), nil
}

// Ping checks that the store answers
func (p *MongoProvider) Ping(ctx context.Context) error {
	database, err := p.Database(ctx)
	if err != nil {
		return err
	}
	if err := database.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Close disconnects the client if one was created.
func (p *MongoProvider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	p.verified.Store(false)
	return err
}
