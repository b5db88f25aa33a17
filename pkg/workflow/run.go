package workflow

import (
	"errors"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// ErrInvalidStepTransition is returned when a transition is not legal from the
// run's current state. The returned run is always the unchanged input.
var ErrInvalidStepTransition = errors.New("invalid step transition")

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Run is one user's traversal of a platform's steps. It is a value: every
// transition returns a new Run and leaves the receiver untouched.
type Run struct {
	Platform     types.Platform    `json:"platform"`
	Steps        []Step            `json:"steps"`
	CurrentIndex int               `json:"current_index"`
	SharingData  types.SharingData `json:"sharing_data"`
	Status       Status            `json:"status"`
}

// NewRun builds the steps for platform and fills their payloads from data.
func NewRun(platform types.Platform, data types.SharingData, opts ...StepOption) Run {
	steps := BuildSteps(platform, opts...)
	for i := range steps {
		switch steps[i].Action {
		case ActionPasteContent:
			steps[i].Payload = data.Summaries.For(platform)
		case ActionAddComment:
			steps[i].Payload = data.URL
		}
	}
	return Run{
		Platform:    platform,
		Steps:       steps,
		SharingData: data,
		Status:      StatusNotStarted,
	}
}

func (r Run) last() int {
	return len(r.Steps) - 1
}

// Start moves a fresh run to its first step. Runs without steps cannot start.
func (r Run) Start() (Run, error) {
	if r.Status != StatusNotStarted || len(r.Steps) == 0 {
		return r, ErrInvalidStepTransition
	}
	r.Status = StatusInProgress
	r.CurrentIndex = 0
	return r, nil
}

func (r Run) CanAdvance() bool {
	return r.Status == StatusInProgress && r.CurrentIndex < r.last()
}

func (r Run) CanRetreat() bool {
	return r.Status == StatusInProgress && r.CurrentIndex > 0
}

func (r Run) CanComplete() bool {
	return r.Status == StatusInProgress && r.CurrentIndex == r.last()
}

func (r Run) Advance() (Run, error) {
	if !r.CanAdvance() {
		return r, ErrInvalidStepTransition
	}
	r.CurrentIndex++
	return r, nil
}

func (r Run) Retreat() (Run, error) {
	if !r.CanRetreat() {
		return r, ErrInvalidStepTransition
	}
	r.CurrentIndex--
	return r, nil
}

// Complete is only legal on the last step.
func (r Run) Complete() (Run, error) {
	if !r.CanComplete() {
		return r, ErrInvalidStepTransition
	}
	r.Status = StatusCompleted
	return r, nil
}

// Abandon discards an unfinished run.
func (r Run) Abandon() (Run, error) {
	if r.Status != StatusNotStarted && r.Status != StatusInProgress {
		return r, ErrInvalidStepTransition
	}
	r.Status = StatusAbandoned
	return r, nil
}

// Current returns the step the user is on.
func (r Run) Current() (Step, bool) {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Steps) {
		return Step{}, false
	}
	return r.Steps[r.CurrentIndex], true
}

// Progress in percent of steps reached.
func (r Run) Progress() int {
	if len(r.Steps) == 0 {
		return 0
	}
	if r.Status == StatusCompleted {
		return 100
	}
	if r.Status == StatusNotStarted {
		return 0
	}
	return (r.CurrentIndex + 1) * 100 / len(r.Steps)
}

func (r Run) Finished() bool {
	return r.Status == StatusCompleted || r.Status == StatusAbandoned
}
