package srv

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/agentic-social/agentic-social/pkg/utils"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

// RunEntry 一个进行中的分享流程, 只有创建者可以操作
type RunEntry struct {
	mu        sync.Mutex
	id        string
	owner     string
	run       workflow.Run
	updatedAt time.Time
}

func (e *RunEntry) ID() string {
	return e.id
}

func (e *RunEntry) Owner() string {
	return e.owner
}

// Snapshot 返回当前 run 的副本
func (e *RunEntry) Snapshot() workflow.Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run
}

// RunRegistry 进程内的 run 存储, 重启即丢失
type RunRegistry struct {
	runs cmap.ConcurrentMap[string, *RunEntry]
	ttl  time.Duration
	now  func() time.Time
}

func NewRunRegistry(ttl time.Duration) *RunRegistry {
	return &RunRegistry{
		runs: cmap.New[*RunEntry](),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *RunRegistry) Put(owner string, run workflow.Run) *RunEntry {
	entry := &RunEntry{
		id:        utils.GenUniqIDStr(),
		owner:     owner,
		run:       run,
		updatedAt: r.now(),
	}
	r.runs.Set(entry.id, entry)
	return entry
}

// Get 不存在或不属于 owner 时返回 false
func (r *RunRegistry) Get(id, owner string) (*RunEntry, bool) {
	entry, ok := r.runs.Get(id)
	if !ok || entry.owner != owner {
		return nil, false
	}
	return entry, true
}

// Update 在 entry 锁内执行一次状态迁移, fn 出错时 run 保持不变
func (r *RunRegistry) Update(entry *RunEntry, fn func(run workflow.Run) (workflow.Run, error)) (workflow.Run, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	next, err := fn(entry.run)
	if err != nil {
		return entry.run, err
	}
	entry.run = next
	entry.updatedAt = r.now()
	return next, nil
}

func (r *RunRegistry) Delete(id string) {
	r.runs.Remove(id)
}

func (r *RunRegistry) Count() int {
	return r.runs.Count()
}

// Sweep 放弃并移除空闲超过 ttl 的 run, 已结束的 run 也一并移除
func (r *RunRegistry) Sweep() int {
	deadline := r.now().Add(-r.ttl)
	removed := 0
	for _, key := range r.runs.Keys() {
		entry, ok := r.runs.Get(key)
		if !ok {
			continue
		}
		entry.mu.Lock()
		expired := entry.updatedAt.Before(deadline)
		if expired && !entry.run.Finished() {
			entry.run, _ = entry.run.Abandon()
		}
		entry.mu.Unlock()

		if expired {
			r.runs.Remove(key)
			removed++
		}
	}
	return removed
}
