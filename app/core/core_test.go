package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/app/store/contentstore"
	"github.com/agentic-social/agentic-social/pkg/sharelog"
	"github.com/agentic-social/agentic-social/pkg/types"
)

var dbSeq atomic.Int64

func testConfig() CoreConfig {
	cfg := DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Database.DSN = fmt.Sprintf("file:core_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	cfg.Content.Driver = CONTENT_DRIVER_FILE
	cfg.Content.Path = "../store/contentstore/testdata/posts.yaml"
	return cfg
}

func TestSetupCore(t *testing.T) {
	core, err := SetupCore(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { core.Close() })

	assert.IsType(t, &contentstore.FileStore{}, core.Posts())
	assert.NotNil(t, core.Srv().Assembler())
	assert.NotNil(t, core.Srv().Runs())

	settings, err := core.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSettings(), settings)

	data, err := core.Srv().Assembler().Assemble(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/go-service", data.URL)
}

func TestSetupCoreMemoryHistory(t *testing.T) {
	cfg := testConfig()
	cfg.History.Driver = HISTORY_DRIVER_MEMORY
	core := MustSetupCore(cfg)
	t.Cleanup(func() { core.Close() })
	assert.IsType(t, &sharelog.MemoryStore{}, core.History())
}

func TestSetupCoreRejectsUnknownTransform(t *testing.T) {
	cfg := testConfig()
	cfg.Sharing.Transforms = []string{"emoji"}
	_, err := SetupCore(cfg)
	assert.ErrorContains(t, err, "emoji")
}

func TestUseLimiter(t *testing.T) {
	core := MustSetupCore(testConfig())
	t.Cleanup(func() { core.Close() })

	l := core.UseLimiter("user-1", "summary", WithLimit(2), WithRange(time.Hour))
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	// 同一个 key 复用同一个限流器
	assert.False(t, core.UseLimiter("user-1", "summary", WithLimit(2), WithRange(time.Hour)).Allow())
	assert.True(t, core.UseLimiter("user-2", "summary", WithLimit(2), WithRange(time.Hour)).Allow())
}
