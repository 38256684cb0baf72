package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when a Redis round trip fails for a
// reason other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrDuplicateEmail is returned when account creation or update would
// claim an email index key that another account already holds.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateName is returned when group creation or update would claim
// a name index key that another group already holds.
var ErrDuplicateName = errors.New("name already registered")

// ErrRecordVanished is returned when a linked write finds one of its
// target records deleted between read and write.
var ErrRecordVanished = errors.New("record vanished during linked write")

const (
	writeStatusConflict int64 = 0
	writeStatusOK       int64 = 1
	writeStatusMissing  int64 = -1
)

// Store reads and writes account and group records in Redis. All methods
// are safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore wraps a Redis client. The prefix namespaces every key the
// store touches.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "og"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) accountKey(id string) string     { return s.prefix + ":acct:" + id }
func (s *Store) accountEmailKey(e string) string { return s.prefix + ":acct:email:" + e }
func (s *Store) accountNameKey(n string) string  { return s.prefix + ":acct:name:" + n }
func (s *Store) accountIndexKey() string         { return s.prefix + ":acct:all" }
func (s *Store) groupKey(id string) string       { return s.prefix + ":grp:" + id }
func (s *Store) groupNameKey(n string) string    { return s.prefix + ":grp:name:" + n }
func (s *Store) groupIndexKey() string           { return s.prefix + ":grp:all" }

func (s *Store) getJSON(ctx context.Context, key string, out any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("corrupt record at %s: %w", key, err)
	}
	return nil
}

// getMany fetches the keys in one pipeline and returns the raw payloads
// that exist, skipping dangling entries.
func (s *Store) getMany(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringCmd, len(keys))
	pipe := s.redis.Pipeline()
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	out := make([][]byte, 0, len(keys))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		out = append(out, data)
	}
	return out, nil
}

func (s *Store) resolveIndex(ctx context.Context, indexKey string) (string, error) {
	id, err := s.redis.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return id, nil
}
