package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "bod:page:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to url (redis://...) and pings it once.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (r *RedisCache) key(section, slug string) string {
	return redisPrefix + section + ":" + generateHash(section+"/"+slug)
}

func (r *RedisCache) Get(ctx context.Context, section, slug string) ([]byte, bool) {
	page, err := r.client.Get(ctx, r.key(section, slug)).Bytes()
	if err != nil {
		return nil, false
	}
	return page, true
}

func (r *RedisCache) Set(ctx context.Context, section, slug string, page []byte) error {
	return r.client.Set(ctx, r.key(section, slug), page, r.ttl).Err()
}

func (r *RedisCache) ClearSection(ctx context.Context, section string) error {
	iter := r.client.Scan(ctx, 0, redisPrefix+section+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
