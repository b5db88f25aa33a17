package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentic-social/agentic-social/pkg/sharelog"
	"github.com/agentic-social/agentic-social/pkg/types"
)

// 追加、裁剪、更新 latest 在一个脚本里完成, 多实例共享同一个 redis 时也保持一致
const appendScript = `
local id = redis.call('INCR', KEYS[1])
local entry = '{"id":' .. id .. ',"attempt":' .. ARGV[1] .. '}'
redis.call('LPUSH', KEYS[2], entry)
redis.call('LTRIM', KEYS[2], 0, tonumber(ARGV[2]) - 1)
redis.call('HSET', KEYS[3], ARGV[3], entry)
redis.call('SADD', KEYS[4], ARGV[4])
return id
`

const trimScript = `
local n = redis.call('LLEN', KEYS[1])
local keep = tonumber(ARGV[1])
if n <= keep then
	return 0
end
if keep <= 0 then
	redis.call('DEL', KEYS[1])
else
	redis.call('LTRIM', KEYS[1], 0, keep - 1)
end
return n - keep
`

// ShareHistoryStore 基于 redis list 的分享日志, latest 按文章存为 hash(field 为平台)
type ShareHistoryStore struct {
	redis      redis.UniversalClient
	prefix     string
	maxEntries int
}

func NewShareHistoryStore(client redis.UniversalClient, prefix string, maxEntries int) *ShareHistoryStore {
	if maxEntries <= 0 {
		maxEntries = types.SHARE_LOG_MAX_ENTRIES
	}
	if prefix == "" {
		prefix = "agentic_social"
	}
	return &ShareHistoryStore{
		redis:      client,
		prefix:     prefix,
		maxEntries: maxEntries,
	}
}

// 所有 key 使用同一个 hash tag, 集群模式下脚本访问的 key 落在同一个 slot
func (s *ShareHistoryStore) key(name string) string {
	return fmt.Sprintf("%s:{share}:%s", s.prefix, name)
}

func (s *ShareHistoryStore) seqKey() string   { return s.key("seq") }
func (s *ShareHistoryStore) logKey() string   { return s.key("log") }
func (s *ShareHistoryStore) indexKey() string { return s.key("latest:index") }

func (s *ShareHistoryStore) latestKey(postID int64) string {
	return s.key("latest:" + strconv.FormatInt(postID, 10))
}

type envelope struct {
	ID      int64              `json:"id"`
	Attempt types.ShareAttempt `json:"attempt"`
}

func decode(raw string) (types.ShareAttempt, error) {
	var e envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return types.ShareAttempt{}, err
	}
	e.Attempt.ID = e.ID
	return e.Attempt, nil
}

func decodeAll(raws []string) ([]types.ShareAttempt, error) {
	list := make([]types.ShareAttempt, 0, len(raws))
	for _, raw := range raws {
		a, err := decode(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

func (s *ShareHistoryStore) Append(ctx context.Context, attempt *types.ShareAttempt) error {
	if attempt.CreatedAt == 0 {
		attempt.CreatedAt = time.Now().Unix()
	}
	raw, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	id, err := s.redis.Eval(ctx, appendScript,
		[]string{s.seqKey(), s.logKey(), s.latestKey(attempt.PostID), s.indexKey()},
		string(raw), s.maxEntries, string(attempt.Platform), attempt.PostID,
	).Int64()
	if err != nil {
		return err
	}
	attempt.ID = id
	return nil
}

func (s *ShareHistoryStore) Latest(ctx context.Context, postID int64, platform types.Platform) (*types.ShareAttempt, error) {
	raw, err := s.redis.HGet(ctx, s.latestKey(postID), string(platform)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	a, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ShareHistoryStore) LatestByPost(ctx context.Context, postID int64) ([]types.ShareAttempt, error) {
	all, err := s.redis.HGetAll(ctx, s.latestKey(postID)).Result()
	if err != nil {
		return nil, err
	}

	list := make([]types.ShareAttempt, 0, len(all))
	for _, raw := range all {
		a, err := decode(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Platform < list[j].Platform
	})
	return list, nil
}

func (s *ShareHistoryStore) Recent(ctx context.Context, limit, offset uint64) ([]types.ShareAttempt, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	raws, err := s.redis.LRange(ctx, s.logKey(), int64(offset), stop).Result()
	if err != nil {
		return nil, err
	}
	return decodeAll(raws)
}

func (s *ShareHistoryStore) Total(ctx context.Context) (int64, error) {
	return s.redis.LLen(ctx, s.logKey()).Result()
}

func (s *ShareHistoryStore) Stats(ctx context.Context) (types.ShareStats, error) {
	list, err := s.Recent(ctx, 0, 0)
	if err != nil {
		return types.NewShareStats(), err
	}
	return sharelog.Aggregate(list), nil
}

func (s *ShareHistoryStore) Trim(ctx context.Context, keep int) (int64, error) {
	return s.redis.Eval(ctx, trimScript, []string{s.logKey()}, keep).Int64()
}

func (s *ShareHistoryStore) Clear(ctx context.Context) error {
	members, err := s.redis.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return err
	}

	keys := []string{s.logKey(), s.indexKey()}
	for _, m := range members {
		postID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, s.latestKey(postID))
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}
