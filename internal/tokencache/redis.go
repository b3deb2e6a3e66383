package tokencache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/redis/go-redis/v9"
)

// redisKey holds the single cached token record.
const redisKey = "ycis:iam_token"

// redisTimeout bounds every cache round trip; the cache must never stall an
// API call longer than this.
const redisTimeout = 3 * time.Second

// RedisStore keeps the record in redis, for deployments where the cache file
// would not survive (containers, multiple hosts). Same degrade semantics as
// the file store: any redis error is a miss on read and a logged failure on
// write.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed token store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Load reads the cached token from redis. Any error is a miss.
func (s *RedisStore) Load() (string, int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.Warn("Failed to read token cache from redis: %v", err)
		}
		return "", 0
	}

	var rec cachedToken
	if err := json.Unmarshal(data, &rec); err != nil {
		logx.Warn("Malformed token cache in redis, treating as miss: %v", err)
		return "", 0
	}

	return rec.JWT, rec.Expiry
}

// Save overwrites the record with a TTL matching the token expiry.
func (s *RedisStore) Save(token string, expiry int64) error {
	data, err := json.Marshal(cachedToken{JWT: token, Expiry: expiry})
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}

	ttl := time.Until(time.Unix(expiry, 0))
	if ttl <= 0 {
		ttl = time.Minute
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.Set(ctx, redisKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token cache to redis: %w", err)
	}

	return nil
}
