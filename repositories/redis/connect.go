package redis

import (
	// Go Internal Packages
	"context"
	"strings"

	// External Packages
	"github.com/redis/go-redis/v9"
)

// Connect opens the transaction store's redis client and checks it answers.
// uri is either a bare host:port or a redis:// / rediss:// URL.
func Connect(ctx context.Context, uri, password string) (*redis.Client, error) {
	opts, err := clientOptions(uri, password)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// clientOptions builds the client options. An explicit password wins over
// one embedded in the URL.
func clientOptions(uri, password string) (*redis.Options, error) {
	opts := &redis.Options{Addr: uri}
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}
	if password != "" {
		opts.Password = password
	}
	opts.ClientName = "daimapay"
	return opts, nil
}
