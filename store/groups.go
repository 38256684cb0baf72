package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const createGroupScript = `
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2])
redis.call("SET", KEYS[2], ARGV[1])
redis.call("SADD", KEYS[3], ARGV[1])
return 1
`

var createGroupLua = redis.NewScript(createGroupScript)

const updateGroupScript = `
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
return 1
`

var updateGroupLua = redis.NewScript(updateGroupScript)

const deleteGroupScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 0 then
  return 0
end
redis.call("DEL", KEYS[1], KEYS[2])
redis.call("SREM", KEYS[3], ARGV[1])
return 1
`

var deleteGroupLua = redis.NewScript(deleteGroupScript)

// CreateGroup persists a new group and claims its name index key. If the
// name is already taken nothing is written and ErrDuplicateName is
// returned.
func (s *Store) CreateGroup(ctx context.Context, grp *Group) error {
	data, err := json.Marshal(grp)
	if err != nil {
		return fmt.Errorf("encode group: %w", err)
	}

	keys := []string{
		s.groupKey(grp.ID),
		s.groupNameKey(grp.Name),
		s.groupIndexKey(),
	}
	status, err := createGroupLua.Run(ctx, s.redis, keys, grp.ID, string(data)).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if status == writeStatusConflict {
		return ErrDuplicateName
	}
	return nil
}

// UpdateGroup overwrites an existing group record and re-points the name
// index key when the name changed.
func (s *Store) UpdateGroup(ctx context.Context, grp *Group, prevName string) error {
	data, err := json.Marshal(grp)
	if err != nil {
		return fmt.Errorf("encode group: %w", err)
	}

	nameChanged := "0"
	if grp.Name != prevName {
		nameChanged = "1"
	}

	keys := []string{
		s.groupKey(grp.ID),
		s.groupNameKey(grp.Name),
		s.groupNameKey(prevName),
	}
	status, err := updateGroupLua.Run(ctx, s.redis, keys, grp.ID, string(data), nameChanged).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	switch status {
	case writeStatusMissing:
		return redis.Nil
	case writeStatusConflict:
		return ErrDuplicateName
	}
	return nil
}

// GetGroup fetches a group by id. Missing records surface as redis.Nil.
func (s *Store) GetGroup(ctx context.Context, id string) (*Group, error) {
	var grp Group
	if err := s.getJSON(ctx, s.groupKey(id), &grp); err != nil {
		return nil, err
	}
	return &grp, nil
}

// FindGroupByName resolves the name index and fetches the record.
func (s *Store) FindGroupByName(ctx context.Context, name string) (*Group, error) {
	id, err := s.resolveIndex(ctx, s.groupNameKey(name))
	if err != nil {
		return nil, err
	}
	return s.GetGroup(ctx, id)
}

// GetGroups fetches the given ids, skipping any that no longer exist.
func (s *Store) GetGroups(ctx context.Context, ids []string) ([]*Group, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.groupKey(id)
	}
	payloads, err := s.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*Group, 0, len(payloads))
	for _, data := range payloads {
		var grp Group
		if err := json.Unmarshal(data, &grp); err != nil {
			return nil, fmt.Errorf("corrupt group record: %w", err)
		}
		out = append(out, &grp)
	}
	return out, nil
}

// ListGroups fetches every group in the id index.
func (s *Store) ListGroups(ctx context.Context) ([]*Group, error) {
	ids, err := s.redis.SMembers(ctx, s.groupIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return s.GetGroups(ctx, ids)
}

// DeleteGroup removes the record and its index entries. Missing records
// surface as redis.Nil.
func (s *Store) DeleteGroup(ctx context.Context, grp *Group) error {
	keys := []string{
		s.groupKey(grp.ID),
		s.groupNameKey(grp.Name),
		s.groupIndexKey(),
	}
	status, err := deleteGroupLua.Run(ctx, s.redis, keys, grp.ID).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if status == writeStatusConflict {
		return redis.Nil
	}
	return nil
}
