package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

type StepView struct {
	Index              int                 `json:"index"`
	Key                string              `json:"key"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Action             workflow.ActionKind `json:"action"`
	TargetSelector     string              `json:"target_selector,omitempty"`
	AutomationSelector string              `json:"automation_selector,omitempty"`
	Payload            string              `json:"payload,omitempty"`
}

// RunView 返回给前端的 run 状态
type RunView struct {
	RunID        string            `json:"run_id"`
	Platform     types.Platform    `json:"platform"`
	Status       workflow.Status   `json:"status"`
	CurrentIndex int               `json:"current_index"`
	StepNumber   int               `json:"step_number"`
	TotalSteps   int               `json:"total_steps"`
	Progress     int               `json:"progress"`
	CanPrev      bool              `json:"can_prev"`
	CanNext      bool              `json:"can_next"`
	CanComplete  bool              `json:"can_complete"`
	Step         *StepView         `json:"step"`
	Steps        []StepView        `json:"steps"`
	SharingData  types.SharingData `json:"sharing_data"`
	// Notice 没有引导步骤时提示前端只展示摘要
	Notice string `json:"notice,omitempty"`
}

func renderStep(ctx context.Context, step workflow.Step, withAutomation bool) StepView {
	v := StepView{
		Index:          step.Index,
		Key:            step.Key,
		Title:          translate(ctx, step.Title),
		Description:    translate(ctx, step.Description),
		Action:         step.Action,
		TargetSelector: step.TargetSelector,
		Payload:        step.Payload,
	}
	if withAutomation {
		v.AutomationSelector = step.AutomationSelector
	}
	return v
}

func renderSteps(ctx context.Context, steps []workflow.Step, withAutomation bool) []StepView {
	return lo.Map(steps, func(item workflow.Step, _ int) StepView {
		return renderStep(ctx, item, withAutomation)
	})
}

func renderRun(ctx context.Context, id string, run workflow.Run, withAutomation bool) *RunView {
	v := &RunView{
		RunID:        id,
		Platform:     run.Platform,
		Status:       run.Status,
		CurrentIndex: run.CurrentIndex,
		TotalSteps:   len(run.Steps),
		Progress:     run.Progress(),
		CanPrev:      run.CanRetreat(),
		CanNext:      run.CanAdvance(),
		CanComplete:  run.CanComplete(),
		Steps:        renderSteps(ctx, run.Steps, withAutomation),
		SharingData:  run.SharingData,
	}
	if len(run.Steps) == 0 {
		v.Notice = translateWithData(ctx, i18n.ERROR_NO_GUIDED_WORKFLOW, map[string]interface{}{"Platform": run.Platform.String()})
	}
	if run.Status != workflow.StatusNotStarted {
		if step, ok := run.Current(); ok {
			current := renderStep(ctx, step, withAutomation)
			v.Step = &current
			v.StepNumber = run.CurrentIndex + 1
		}
	}
	return v
}
