package workflow

import (
	"context"
	"time"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// Recorder persists share attempts, see store.ShareHistoryStore.
type Recorder interface {
	Append(ctx context.Context, attempt *types.ShareAttempt) error
}

// Sequencer runs the transitions that leave a trace in the share history.
type Sequencer struct {
	log Recorder
	now func() time.Time
}

func NewSequencer(log Recorder) *Sequencer {
	return &Sequencer{log: log, now: time.Now}
}

// Start begins the run and records exactly one initiated attempt carrying the
// sharing data snapshot. On any error the run is returned unchanged.
func (s *Sequencer) Start(ctx context.Context, r Run) (Run, error) {
	next, err := r.Start()
	if err != nil {
		return r, err
	}
	if err = s.record(ctx, next, types.ShareStatusInitiated); err != nil {
		return r, err
	}
	return next, nil
}

// Complete finishes the run on its last step and records exactly one completed attempt.
func (s *Sequencer) Complete(ctx context.Context, r Run) (Run, error) {
	next, err := r.Complete()
	if err != nil {
		return r, err
	}
	if err = s.record(ctx, next, types.ShareStatusCompleted); err != nil {
		return r, err
	}
	return next, nil
}

func (s *Sequencer) record(ctx context.Context, r Run, status types.ShareStatus) error {
	snapshot := r.SharingData.Clone()
	return s.log.Append(ctx, &types.ShareAttempt{
		PostID:    r.SharingData.PostID,
		Platform:  r.Platform,
		Status:    status,
		Snapshot:  &snapshot,
		CreatedAt: s.now().Unix(),
	})
}
