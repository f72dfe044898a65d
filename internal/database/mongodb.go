package database

import (
	"context"
	"fmt"
	"time"

	"github.com/codegrapher/graphers/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectMongoRetry calls ConnectMongo up to attempts times, doubling the
// pause between tries starting at backoff.
func ConnectMongoRetry(ctx context.Context, uri string, timeout time.Duration, attempts int, backoff time.Duration) (*mongo.Client, error) {
	return retry(ctx, "mongo", attempts, backoff, func() (*mongo.Client, error) {
		return ConnectMongo(ctx, uri, timeout)
	})
}

func retry[T any](ctx context.Context, what string, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if i == attempts {
			break
		}
		logger.Warnf("%s unavailable (attempt %d/%d): %v; retrying in %s", what, i, attempts, err, backoff)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return zero, fmt.Errorf("%s unreachable after %d attempts: %w", what, attempts, lastErr)
}
