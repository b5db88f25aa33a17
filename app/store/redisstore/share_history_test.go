package redisstore

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/sharelog/sharelogtest"
	"github.com/agentic-social/agentic-social/pkg/testutils"
	"github.com/agentic-social/agentic-social/pkg/types"
)

var prefixSeq atomic.Int64

// 需要设置 AGENTIC_SOCIAL_TEST_REDIS_ADDR 才会执行
func newTestClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	testutils.LoadEnv()
	addr := os.Getenv(testutils.ENV_TEST_REDIS_ADDR)
	if addr == "" {
		t.Skip("redis address not configured")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func newTestStore(t *testing.T, client redis.UniversalClient, maxEntries int) *ShareHistoryStore {
	s := NewShareHistoryStore(client, fmt.Sprintf("agentic_social_test_%d_%d", os.Getpid(), prefixSeq.Add(1)), maxEntries)
	t.Cleanup(func() {
		ctx := context.Background()
		s.Clear(ctx)
		client.Del(ctx, s.seqKey())
	})
	return s
}

func TestShareHistoryStore(t *testing.T) {
	client := newTestClient(t)
	sharelogtest.Run(t, func(t *testing.T) sharelogtest.Store {
		return newTestStore(t, client, 100)
	})
}

func TestShareHistoryKeys(t *testing.T) {
	s := NewShareHistoryStore(nil, "", 0)
	assert.Equal(t, "agentic_social:{share}:log", s.logKey())
	assert.Equal(t, "agentic_social:{share}:latest:42", s.latestKey(42))
	assert.Equal(t, types.SHARE_LOG_MAX_ENTRIES, s.maxEntries)
}

func TestDecodeEnvelope(t *testing.T) {
	a, err := decode(`{"id":9,"attempt":{"id":"0","post_id":3,"platform":"linkedin","status":"completed","created_at":1}}`)
	require.NoError(t, err)
	assert.Equal(t, int64(9), a.ID)
	assert.Equal(t, int64(3), a.PostID)
	assert.Equal(t, types.ShareStatusCompleted, a.Status)
	assert.Nil(t, a.Snapshot)
}

func TestTrimToZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestClient(t), 10)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.Append(ctx, sharelogtest.Attempt(i, types.PlatformLinkedIn, types.ShareStatusInitiated)))
	}
	removed, err := s.Trim(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	total, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	latest, err := s.Latest(ctx, 3, types.PlatformLinkedIn)
	require.NoError(t, err)
	assert.NotNil(t, latest)
}
