package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/sharelog/sharelogtest"
	"github.com/agentic-social/agentic-social/pkg/sqlstore"
	"github.com/agentic-social/agentic-social/pkg/testutils"
	"github.com/agentic-social/agentic-social/pkg/types"
)

var dbSeq atomic.Int64

type memoryDB struct {
	name string
}

func (m memoryDB) DriverName() string { return sqlstore.DRIVER_SQLITE }

func (m memoryDB) FormatDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", m.name)
}

type postgresDB string

func (p postgresDB) DriverName() string { return sqlstore.DRIVER_POSTGRES }
func (p postgresDB) FormatDSN() string  { return string(p) }

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(memoryDB{name: fmt.Sprintf("agentic_social_%d", dbSeq.Add(1))})
	require.NoError(t, err)
	require.NoError(t, p.Install())
	t.Cleanup(func() {
		p.Close()
	})
	return p
}

func TestInstallIsRepeatable(t *testing.T) {
	p := newTestProvider(t)
	require.NoError(t, p.Install())

	var count int
	require.NoError(t, p.GetReplica().Get(&count, "SELECT COUNT(*) FROM "+types.TABLE_PREFIX+"schema_migrations"))
	assert.Equal(t, 2, count)
}

func TestShareHistoryStore(t *testing.T) {
	sharelogtest.Run(t, func(t *testing.T) sharelogtest.Store {
		return newTestProvider(t).ShareHistoryStore()
	})
}

func TestShareHistoryStorePostgres(t *testing.T) {
	testutils.LoadEnv()
	dsn := os.Getenv(testutils.ENV_TEST_POSTGRES_DSN)
	if dsn == "" {
		t.Skip("postgres dsn not configured")
	}

	p, err := New(postgresDB(dsn))
	require.NoError(t, err)
	require.NoError(t, p.Install())
	t.Cleanup(func() {
		p.ShareHistoryStore().Clear(context.Background())
		p.Close()
	})

	sharelogtest.Run(t, func(t *testing.T) sharelogtest.Store {
		s := p.ShareHistoryStore()
		require.NoError(t, s.Clear(context.Background()))
		return s
	})
}

func TestShareHistorySnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestProvider(t).ShareHistoryStore()

	a := sharelogtest.Attempt(7, types.PlatformLinkedIn, types.ShareStatusFailed)
	a.Error = "popup blocked"
	a.Snapshot.Summaries.LinkedIn = "linkedin text"
	require.NoError(t, s.Append(ctx, a))
	assert.NotZero(t, a.ID)

	noSnapshot := sharelogtest.Attempt(8, types.PlatformLinkedIn, types.ShareStatusInitiated)
	noSnapshot.Snapshot = nil
	require.NoError(t, s.Append(ctx, noSnapshot))

	latest, err := s.Latest(ctx, 7, types.PlatformLinkedIn)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, a.ID, latest.ID)
	assert.Equal(t, "popup blocked", latest.Error)
	assert.Equal(t, "linkedin text", latest.Snapshot.Summaries.LinkedIn)

	list, err := s.Recent(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].PostID)

	latest, err = s.Latest(ctx, 8, types.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Nil(t, latest.Snapshot)
}

func TestShareHistoryCustomCap(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	s := NewShareHistoryStore(p, 3)
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, s.Append(ctx, sharelogtest.Attempt(i, types.PlatformTwitter, types.ShareStatusInitiated)))
	}
	total, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	s.SetMaxEntries(2)
	require.NoError(t, s.Append(ctx, sharelogtest.Attempt(6, types.PlatformTwitter, types.ShareStatusInitiated)))
	total, err = s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()
	s := newTestProvider(t).SettingsStore()

	require.NoError(t, s.Seed(ctx, types.DefaultSettings().Rows()))
	require.NoError(t, s.Upsert(ctx, types.Setting{Name: types.SETTING_SHARE_DELAY, Value: json.RawMessage("30")}))
	// 已存在的选项不会被 Seed 覆盖
	require.NoError(t, s.Seed(ctx, types.DefaultSettings().Rows()))

	row, err := s.Get(ctx, types.SETTING_SHARE_DELAY)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.JSONEq(t, "30", string(row.Value))

	rows, err := s.List(ctx)
	require.NoError(t, err)
	settings := types.DefaultSettings().ApplyRows(rows)
	assert.Equal(t, 30, settings.ShareDelay)
	assert.Len(t, rows, len(types.DefaultSettings().Rows()))

	missing, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.Clear(ctx))
	rows, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPostShareMetaStore(t *testing.T) {
	ctx := context.Background()
	s := newTestProvider(t).PostShareMetaStore()

	meta, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, meta)

	require.NoError(t, s.Upsert(ctx, types.PostShareMeta{PostID: 1, CustomMessage: "hello", ShareEnabled: true}))
	require.NoError(t, s.Upsert(ctx, types.PostShareMeta{PostID: 1, CustomMessage: "updated", ShareEnabled: false}))

	meta, err = s.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "updated", meta.CustomMessage)
	assert.False(t, meta.ShareEnabled)

	msg, err := s.GetCustomMessage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "updated", msg)

	msg, err = s.GetCustomMessage(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, msg)

	require.NoError(t, s.Delete(ctx, 1))
	meta, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, meta)
}
