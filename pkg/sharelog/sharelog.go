package sharelog

import (
	"github.com/agentic-social/agentic-social/pkg/types"
)

// Aggregate counts entries by status and by platform.
func Aggregate(entries []types.ShareAttempt) types.ShareStats {
	stats := types.NewShareStats()
	for _, e := range entries {
		stats.Add(e.Status, e.Platform, 1)
	}
	return stats
}

// Page slices an already ordered list, limit 0 means the rest of the list.
func Page[T any](list []T, limit, offset uint64) []T {
	if offset >= uint64(len(list)) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < uint64(len(list)) {
		list = list[:limit]
	}
	return list
}

// Copy detaches the snapshot so callers cannot mutate stored state.
func Copy(a types.ShareAttempt) types.ShareAttempt {
	if a.Snapshot != nil {
		snapshot := a.Snapshot.Clone()
		a.Snapshot = &snapshot
	}
	return a
}
