package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 3 * time.Second
)

// Ping checks the server answers within the ping timeout.
func Ping(client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
