package srv

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

func TestRBAC(t *testing.T) {
	rbac := SetupRBACSrv()

	assert.True(t, rbac.CheckPermission(types.ROLE_AUTHOR, types.PERMISSION_EDIT_POSTS))
	assert.True(t, rbac.CheckPermission(types.ROLE_EDITOR, types.PERMISSION_EDIT_POSTS))
	assert.False(t, rbac.CheckPermission(types.ROLE_EDITOR, types.PERMISSION_MANAGE_OPTIONS))
	assert.True(t, rbac.CheckPermission(types.ROLE_ADMINISTRATOR, types.PERMISSION_EDIT_POSTS))
	assert.True(t, rbac.CheckPermission(types.ROLE_ADMINISTRATOR, types.PERMISSION_MANAGE_OPTIONS))
	assert.False(t, rbac.CheckPermission("subscriber", types.PERMISSION_EDIT_POSTS))
}

type roleUser struct{ role string }

func (r roleUser) GetRole() string { return r.role }
func (r roleUser) GetUser() string { return "1" }

func TestRBACCheck(t *testing.T) {
	rbac := SetupRBACSrv()
	assert.Nil(t, rbac.Check(roleUser{types.ROLE_AUTHOR}, types.PERMISSION_EDIT_POSTS))

	err := rbac.Check(roleUser{types.ROLE_AUTHOR}, types.PERMISSION_MANAGE_OPTIONS)
	require.NotNil(t, err)
	assert.Equal(t, 403, err.GetCode())
}

func newRun() workflow.Run {
	return workflow.NewRun(types.PlatformLinkedIn, types.SharingData{PostID: 1, URL: "https://example.com"})
}

func TestRunRegistryOwnership(t *testing.T) {
	r := NewRunRegistry(time.Minute)
	entry := r.Put("alice", newRun())

	got, ok := r.Get(entry.ID(), "alice")
	require.True(t, ok)
	assert.Equal(t, "alice", got.Owner())

	_, ok = r.Get(entry.ID(), "bob")
	assert.False(t, ok)

	r.Delete(entry.ID())
	_, ok = r.Get(entry.ID(), "alice")
	assert.False(t, ok)
}

func TestRunRegistryUpdateKeepsRunOnError(t *testing.T) {
	r := NewRunRegistry(time.Minute)
	entry := r.Put("alice", newRun())

	run, err := r.Update(entry, workflow.Run.Start)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusInProgress, run.Status)

	run, err = r.Update(entry, workflow.Run.Retreat)
	assert.ErrorIs(t, err, workflow.ErrInvalidStepTransition)
	assert.Equal(t, 0, run.CurrentIndex)
	assert.Equal(t, workflow.StatusInProgress, entry.Snapshot().Status)
}

func TestRunRegistryConcurrentAdvance(t *testing.T) {
	r := NewRunRegistry(time.Minute)
	entry := r.Put("alice", newRun())
	_, err := r.Update(entry, workflow.Run.Start)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Update(entry, workflow.Run.Advance)
		}()
	}
	wg.Wait()
	assert.Equal(t, len(entry.Snapshot().Steps)-1, entry.Snapshot().CurrentIndex)
}

func TestRunRegistrySweep(t *testing.T) {
	now := time.Now()
	r := NewRunRegistry(time.Minute)
	r.now = func() time.Time { return now }

	stale := r.Put("alice", newRun())
	now = now.Add(2 * time.Minute)
	fresh := r.Put("alice", newRun())

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, workflow.StatusAbandoned, stale.Snapshot().Status)

	_, ok := r.Get(fresh.ID(), "alice")
	assert.True(t, ok)
}
