package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// saveLinkedScript overwrites one account record and one or more group
// records in a single step. Every key must still exist; if any record
// was deleted since the caller read it, nothing is written.
//
// KEYS[1] is always the account key so the account side of a membership
// edge is written before the group side.
const saveLinkedScript = `
for i = 1, #KEYS do
  if redis.call("EXISTS", KEYS[i]) == 0 then
    return 0
  end
end
for i = 1, #KEYS do
  redis.call("SET", KEYS[i], ARGV[i])
end
return 1
`

var saveLinkedLua = redis.NewScript(saveLinkedScript)

// SaveAccountAndGroups persists both sides of a membership change
// atomically: either the account and every group are written, or none
// are. Returns ErrRecordVanished when any record was deleted since it
// was read.
func (s *Store) SaveAccountAndGroups(ctx context.Context, acct *Account, groups ...*Group) error {
	keys := make([]string, 0, 1+len(groups))
	argv := make([]any, 0, 1+len(groups))

	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	keys = append(keys, s.accountKey(acct.ID))
	argv = append(argv, string(data))

	for _, grp := range groups {
		data, err := json.Marshal(grp)
		if err != nil {
			return fmt.Errorf("encode group: %w", err)
		}
		keys = append(keys, s.groupKey(grp.ID))
		argv = append(argv, string(data))
	}

	status, err := saveLinkedLua.Run(ctx, s.redis, keys, argv...).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if status == writeStatusConflict {
		return ErrRecordVanished
	}
	return nil
}
