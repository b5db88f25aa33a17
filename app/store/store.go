package store

import (
	"context"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// PostStore reads posts from the host CMS. GetPost returns nil, nil when the
// post does not exist, other failures are returned as they are.
type PostStore interface {
	GetPost(ctx context.Context, id int64) (*types.Post, error)
	GetPermalink(ctx context.Context, id int64) (string, error)
}

// PostShareMetaStore 文章级分享设置
type PostShareMetaStore interface {
	Get(ctx context.Context, postID int64) (*types.PostShareMeta, error)
	GetCustomMessage(ctx context.Context, postID int64) (string, error)
	Upsert(ctx context.Context, data types.PostShareMeta) error
	Delete(ctx context.Context, postID int64) error
	Clear(ctx context.Context) error
}

// SettingsStore persists plugin options as name/value rows.
type SettingsStore interface {
	Get(ctx context.Context, name string) (*types.Setting, error)
	List(ctx context.Context) ([]types.Setting, error)
	Upsert(ctx context.Context, data types.Setting) error
	// Seed inserts rows that do not exist yet and leaves existing ones alone.
	Seed(ctx context.Context, rows []types.Setting) error
	Clear(ctx context.Context) error
}

// ShareHistoryStore is the bounded share attempt log plus its latest-per-post
// projection. Append must be atomic with respect to eviction and the
// projection update.
type ShareHistoryStore interface {
	Append(ctx context.Context, attempt *types.ShareAttempt) error
	Latest(ctx context.Context, postID int64, platform types.Platform) (*types.ShareAttempt, error)
	LatestByPost(ctx context.Context, postID int64) ([]types.ShareAttempt, error)
	// Recent lists entries newest first by append order, limit 0 means all.
	Recent(ctx context.Context, limit, offset uint64) ([]types.ShareAttempt, error)
	Total(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (types.ShareStats, error)
	Trim(ctx context.Context, keep int) (int64, error)
	Clear(ctx context.Context) error
}
