package sharelog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agentic-social/agentic-social/pkg/types"
)

type latestKey struct {
	postID   int64
	platform types.Platform
}

// MemoryStore keeps the bounded log and the latest-per-post index in process.
// All access goes through one mutex, so an append, its eviction and the index
// update are a single step for every reader.
type MemoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	seq        int64
	entries    []types.ShareAttempt
	latest     map[latestKey]types.ShareAttempt
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = types.SHARE_LOG_MAX_ENTRIES
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		latest:     make(map[latestKey]types.ShareAttempt),
	}
}

func (s *MemoryStore) Append(_ context.Context, attempt *types.ShareAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	attempt.ID = s.seq
	if attempt.CreatedAt == 0 {
		attempt.CreatedAt = time.Now().Unix()
	}
	entry := Copy(*attempt)

	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.maxEntries; over > 0 {
		s.entries = append([]types.ShareAttempt(nil), s.entries[over:]...)
	}
	s.latest[latestKey{entry.PostID, entry.Platform}] = entry
	return nil
}

func (s *MemoryStore) Latest(_ context.Context, postID int64, platform types.Platform) (*types.ShareAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.latest[latestKey{postID, platform}]
	if !ok {
		return nil, nil
	}
	entry = Copy(entry)
	return &entry, nil
}

func (s *MemoryStore) LatestByPost(_ context.Context, postID int64) ([]types.ShareAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []types.ShareAttempt
	for k, v := range s.latest {
		if k.postID == postID {
			list = append(list, Copy(v))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Platform < list[j].Platform
	})
	return list, nil
}

// Recent returns entries newest first, limit 0 means no limit.
func (s *MemoryStore) Recent(_ context.Context, limit, offset uint64) ([]types.ShareAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]types.ShareAttempt, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		list = append(list, Copy(s.entries[i]))
	}
	return Page(list, limit, offset), nil
}

func (s *MemoryStore) Total(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

func (s *MemoryStore) Stats(_ context.Context) (types.ShareStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate(s.entries), nil
}

// Trim drops the oldest entries until at most keep remain.
func (s *MemoryStore) Trim(_ context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	over := len(s.entries) - max(keep, 0)
	if over <= 0 {
		return 0, nil
	}
	s.entries = append([]types.ShareAttempt(nil), s.entries[over:]...)
	return int64(over), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.latest = make(map[latestKey]types.ShareAttempt)
	return nil
}
