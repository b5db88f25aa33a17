package process

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

var dbSeq atomic.Int64

func setupCore(t *testing.T, fn func(cfg *core.CoreConfig)) *core.Core {
	cfg := core.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Database.DSN = fmt.Sprintf("file:process_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	cfg.Content.Driver = core.CONTENT_DRIVER_FILE
	cfg.Content.Path = "../../../store/contentstore/testdata/posts.yaml"
	if fn != nil {
		fn(&cfg)
	}
	c, err := core.SetupCore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewProcessRegistersJobs(t *testing.T) {
	p := NewProcess(setupCore(t, nil))
	assert.Len(t, p.Cron().Entries(), 2)
}

func TestSyncShareHistory(t *testing.T) {
	c := setupCore(t, func(cfg *core.CoreConfig) {
		cfg.History.MaxEntries = 3
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.History().Append(ctx, &types.ShareAttempt{
			PostID:    int64(i + 1),
			Platform:  types.PlatformLinkedIn,
			Status:    types.ShareStatusCompleted,
			CreatedAt: time.Now().Unix(),
		}))
	}

	stats, err := SyncShareHistory(c)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 3, stats.ByPlatform[types.PlatformLinkedIn])
}

func TestSweepRuns(t *testing.T) {
	c := setupCore(t, func(cfg *core.CoreConfig) {
		cfg.Workflow.RunTTL = 1
	})

	data, err := c.Srv().Assembler().Assemble(context.Background(), 1)
	require.NoError(t, err)
	run, err := workflow.NewRun(types.PlatformLinkedIn, *data).Start()
	require.NoError(t, err)
	c.Srv().Runs().Put("1", run)

	assert.Zero(t, SweepRuns(c))
	assert.Equal(t, 1, c.Srv().Runs().Count())

	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, 1, SweepRuns(c))
	assert.Zero(t, c.Srv().Runs().Count())
}
