package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const createAccountScript = `
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("SET", KEYS[3], ARGV[1])
redis.call("SADD", KEYS[4], ARGV[1])
return 1
`

var createAccountLua = redis.NewScript(createAccountScript)

const updateAccountScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
if ARGV[3] == "1" and redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2])
if ARGV[3] == "1" then
  redis.call("DEL", KEYS[3])
  redis.call("SET", KEYS[2], ARGV[1])
end
if ARGV[4] == "1" then
  if redis.call("GET", KEYS[5]) == ARGV[1] then
    redis.call("DEL", KEYS[5])
  end
  redis.call("SET", KEYS[4], ARGV[1])
end
return 1
`

var updateAccountLua = redis.NewScript(updateAccountScript)

const deleteAccountScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 0 then
  return 0
end
redis.call("DEL", KEYS[1], KEYS[2])
if redis.call("GET", KEYS[3]) == ARGV[1] then
  redis.call("DEL", KEYS[3])
end
redis.call("SREM", KEYS[4], ARGV[1])
return 1
`

var deleteAccountLua = redis.NewScript(deleteAccountScript)

// CreateAccount persists a new account and claims its email index key.
// The write is atomic: if the email is already taken nothing is written
// and ErrDuplicateEmail is returned.
func (s *Store) CreateAccount(ctx context.Context, acct *Account) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	keys := []string{
		s.accountKey(acct.ID),
		s.accountEmailKey(acct.Email),
		s.accountNameKey(acct.Name),
		s.accountIndexKey(),
	}
	status, err := createAccountLua.Run(ctx, s.redis, keys, acct.ID, string(data)).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if status == writeStatusConflict {
		return ErrDuplicateEmail
	}
	return nil
}

// UpdateAccount overwrites an existing account record and re-points the
// email and name index keys when those fields changed. prevEmail and
// prevName identify the index keys the record held before the update.
func (s *Store) UpdateAccount(ctx context.Context, acct *Account, prevEmail, prevName string) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	emailChanged := "0"
	if acct.Email != prevEmail {
		emailChanged = "1"
	}
	nameChanged := "0"
	if acct.Name != prevName {
		nameChanged = "1"
	}

	keys := []string{
		s.accountKey(acct.ID),
		s.accountEmailKey(acct.Email),
		s.accountEmailKey(prevEmail),
		s.accountNameKey(acct.Name),
		s.accountNameKey(prevName),
	}
	status, err := updateAccountLua.Run(ctx, s.redis, keys, acct.ID, string(data), emailChanged, nameChanged).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	switch status {
	case writeStatusMissing:
		return redis.Nil
	case writeStatusConflict:
		return ErrDuplicateEmail
	}
	return nil
}

// GetAccount fetches an account by id. Missing records surface as
// redis.Nil so callers can map them to their own not-found error.
func (s *Store) GetAccount(ctx context.Context, id string) (*Account, error) {
	var acct Account
	if err := s.getJSON(ctx, s.accountKey(id), &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// FindAccountByEmail resolves the email index and fetches the record.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	id, err := s.resolveIndex(ctx, s.accountEmailKey(email))
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, id)
}

// FindAccountByName resolves the name index and fetches the record.
func (s *Store) FindAccountByName(ctx context.Context, name string) (*Account, error) {
	id, err := s.resolveIndex(ctx, s.accountNameKey(name))
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, id)
}

// GetAccounts fetches the given ids, skipping any that no longer exist.
func (s *Store) GetAccounts(ctx context.Context, ids []string) ([]*Account, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.accountKey(id)
	}
	payloads, err := s.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*Account, 0, len(payloads))
	for _, data := range payloads {
		var acct Account
		if err := json.Unmarshal(data, &acct); err != nil {
			return nil, fmt.Errorf("corrupt account record: %w", err)
		}
		out = append(out, &acct)
	}
	return out, nil
}

// ListAccounts fetches every account in the id index.
func (s *Store) ListAccounts(ctx context.Context) ([]*Account, error) {
	ids, err := s.redis.SMembers(ctx, s.accountIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return s.GetAccounts(ctx, ids)
}

// DeleteAccount removes the record and its index entries. Names are not
// unique, so the name index key is dropped only while it still points at
// this account; a later same-named account keeps its entry. Missing
// records surface as redis.Nil.
func (s *Store) DeleteAccount(ctx context.Context, acct *Account) error {
	keys := []string{
		s.accountKey(acct.ID),
		s.accountEmailKey(acct.Email),
		s.accountNameKey(acct.Name),
		s.accountIndexKey(),
	}
	status, err := deleteAccountLua.Run(ctx, s.redis, keys, acct.ID).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if status == writeStatusConflict {
		return redis.Nil
	}
	return nil
}
