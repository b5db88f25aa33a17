package v1

import (
	"context"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

type WorkflowLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewWorkflowLogic(ctx context.Context, core *core.Core) *WorkflowLogic {
	return &WorkflowLogic{
		ctx:  ctx,
		core: core,
	}
}

// Steps 平台的步骤目录, 供外部自动化工具参考, 没有引导流程的平台返回空列表
func (l *WorkflowLogic) Steps(platform types.Platform) []StepView {
	opts := []workflow.StepOption{workflow.WithFeedURL(l.core.Cfg().Workflow.LinkedInFeedURL)}
	settings, err := l.core.Settings(l.ctx)
	if err == nil && !settings.AddLinkAsComment {
		opts = append(opts, workflow.WithoutComment())
	}
	return renderSteps(l.ctx, workflow.BuildSteps(platform, opts...), true)
}
