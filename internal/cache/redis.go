package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	// UpcomingConcertsKey holds the cached snapshot of upcoming concerts.
	UpcomingConcertsKey = "UpcomingConcerts"

	cartKeyPrefix         = "Cart_"
	checkoutLockKeyPrefix = "CheckoutLock_"
)

func CartKey(userID string) string {
	return cartKeyPrefix + userID
}

func CheckoutLockKey(userID string) string {
	return checkoutLockKeyPrefix + userID
}

// releaseScript deletes a lock only while it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Config struct {
	Endpoint string
	Password string
	DB       int
}

// NewRedisClient opens a client and verifies the server answers.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Endpoint,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.Endpoint)
	}
	return client, nil
}

// Store is a JSON value store with absolute expirations on top of Redis.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// GetJSON decodes the value under key into dest. It reports false when the
// key is missing or expired. A value that does not decode is logged and
// reported as missing.
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read key %s", key)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.WithField("key", key).WithError(err).Warn("Discarding undecodable cache value")
		return false, nil
	}
	return true, nil
}

// SetJSON overwrites key with the JSON encoding of value, expiring after ttl.
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode value for key %s", key)
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to write key %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "failed to delete keys")
	}
	return nil
}

// AcquireLock sets key only if it does not exist yet. The returned token
// must be passed to ReleaseLock; ok is false when someone else holds the key.
func (s *Store) AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to acquire lock %s", key)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseLock removes key if it still carries token. An expired or
// re-acquired lock is left alone.
func (s *Store) ReleaseLock(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrapf(err, "failed to release lock %s", key)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
