package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/pkg/codegen"
)

const defaultKeyPrefix = "superbullet:"

// CodegenCache stores provider responses keyed by codegen.CacheKey
type CodegenCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

type CodegenCacheDependencies struct {
	Client    redis.UniversalClient
	KeyPrefix string
	TTL       time.Duration
}

func NewCodegenCache(deps CodegenCacheDependencies) *CodegenCache {
	prefix := deps.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &CodegenCache{
		client:    deps.Client,
		keyPrefix: prefix,
		ttl:       deps.TTL,
	}
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Connected to Redis")

	return client, nil
}

func (c *CodegenCache) Get(ctx context.Context, key string) (*codegen.Response, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}

	var response codegen.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached response: %w", err)
	}

	return &response, true, nil
}

func (c *CodegenCache) Set(ctx context.Context, key string, response codegen.Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}

	return nil
}
