package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/sharing"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

// run 的状态迁移动作
const (
	ACTION_START    = "start"
	ACTION_NEXT     = "next"
	ACTION_PREV     = "prev"
	ACTION_COMPLETE = "complete"
	ACTION_ABANDON  = "abandon"
)

type ShareLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewShareLogic(ctx context.Context, core *core.Core) *ShareLogic {
	l := &ShareLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

// SharingData 组装文章的分享数据, 不做校验
func (l *ShareLogic) SharingData(postID int64) (*types.SharingData, error) {
	data, err := l.core.Srv().Assembler().Assemble(l.ctx, postID)
	if err != nil {
		if errors.Is(err, sharing.ErrPostNotFound) {
			return nil, errors.New("ShareLogic.SharingData.Assembler.Assemble", i18n.ERROR_POST_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("ShareLogic.SharingData.Assembler.Assemble", i18n.ERROR_INTERNAL, err)
	}
	return data, nil
}

// Start 开始一次引导式分享, 成功时记录一条 initiated
func (l *ShareLogic) Start(postID int64, platform types.Platform) (*RunView, error) {
	settings, err := l.core.Settings(l.ctx)
	if err != nil {
		return nil, errors.New("ShareLogic.Start.Settings", i18n.ERROR_INTERNAL, err)
	}
	if !settings.PlatformEnabled(platform) {
		return nil, errors.New("ShareLogic.Start.PlatformEnabled", i18n.ERROR_PLATFORM_DISABLED, nil).Code(http.StatusForbidden)
	}

	post, err := l.core.Posts().GetPost(l.ctx, postID)
	if err != nil {
		return nil, errors.New("ShareLogic.Start.PostStore.GetPost", i18n.ERROR_INTERNAL, err)
	}
	if post == nil {
		return nil, errors.New("ShareLogic.Start.PostStore.GetPost", i18n.ERROR_POST_NOT_FOUND, sharing.ErrPostNotFound).Code(http.StatusNotFound)
	}
	if !settings.PostTypeEnabled(post.Type) {
		return nil, errors.New("ShareLogic.Start.PostTypeEnabled", i18n.ERROR_SHARE_DISABLED, nil).Code(http.StatusForbidden)
	}

	meta, err := l.core.Store().PostShareMetaStore().Get(l.ctx, postID)
	if err != nil {
		return nil, errors.New("ShareLogic.Start.PostShareMetaStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if meta != nil && !meta.ShareEnabled {
		return nil, errors.New("ShareLogic.Start.ShareEnabled", i18n.ERROR_SHARE_DISABLED, nil).Code(http.StatusForbidden)
	}

	data, err := l.SharingData(postID)
	if err != nil {
		return nil, errors.Trace("ShareLogic.Start", err)
	}
	if err = sharing.Validate(data); err != nil {
		return nil, errors.New("ShareLogic.Start.Validate", i18n.ERROR_INVALID_SHARING_DATA, err).Code(http.StatusConflict)
	}

	opts := []workflow.StepOption{workflow.WithFeedURL(l.core.Cfg().Workflow.LinkedInFeedURL)}
	if !settings.AddLinkAsComment {
		opts = append(opts, workflow.WithoutComment())
	}
	run := workflow.NewRun(platform, *data, opts...)
	if len(run.Steps) == 0 {
		// 没有引导步骤的平台只返回摘要, 不登记运行也不写日志
		l.core.Metrics().WorkflowTransitionInc(ACTION_START, "no_steps")
		return renderRun(l.ctx, "", run, settings.EnableAIAgent), nil
	}

	started, err := l.core.Srv().Sequencer().Start(l.ctx, run)
	if err != nil {
		l.core.Metrics().WorkflowTransitionInc(ACTION_START, "error")
		return nil, errors.New("ShareLogic.Start.Sequencer.Start", i18n.ERROR_INTERNAL, err)
	}
	l.core.Metrics().WorkflowTransitionInc(ACTION_START, "ok")
	l.core.Metrics().ShareAttemptInc(platform, types.ShareStatusInitiated)

	entry := l.core.Srv().Runs().Put(l.GetUserInfo().GetUser(), started)
	l.core.Metrics().SetActiveRuns(l.core.Srv().Runs().Count())

	slog.Debug("share run started", slog.String("run_id", entry.ID()), slog.Int64("post_id", postID),
		slog.String("platform", platform.String()), slog.String("user", l.GetUserInfo().GetUser()))

	return renderRun(l.ctx, entry.ID(), started, settings.EnableAIAgent), nil
}

func (l *ShareLogic) aiAgentEnabled() bool {
	settings, err := l.core.Settings(l.ctx)
	if err != nil {
		slog.Warn("failed to load settings, using defaults", slog.String("component", "ShareLogic"), slog.Any("error", err))
	}
	return settings.EnableAIAgent
}

// GetRun 只有创建者可以查看
func (l *ShareLogic) GetRun(runID string) (*RunView, error) {
	entry, ok := l.core.Srv().Runs().Get(runID, l.GetUserInfo().GetUser())
	if !ok {
		return nil, errors.New("ShareLogic.GetRun.Runs.Get", i18n.ERROR_RUN_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return renderRun(l.ctx, entry.ID(), entry.Snapshot(), l.aiAgentEnabled()), nil
}

// Transition 执行 next/prev/complete/abandon, 非法迁移时返回未改变的 run 和 409
func (l *ShareLogic) Transition(runID, action string) (*RunView, error) {
	runs := l.core.Srv().Runs()
	entry, ok := runs.Get(runID, l.GetUserInfo().GetUser())
	if !ok {
		return nil, errors.New("ShareLogic.Transition.Runs.Get", i18n.ERROR_RUN_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	var fn func(run workflow.Run) (workflow.Run, error)
	switch action {
	case ACTION_NEXT:
		fn = workflow.Run.Advance
	case ACTION_PREV:
		fn = workflow.Run.Retreat
	case ACTION_ABANDON:
		fn = workflow.Run.Abandon
	case ACTION_COMPLETE:
		fn = func(run workflow.Run) (workflow.Run, error) {
			return l.core.Srv().Sequencer().Complete(l.ctx, run)
		}
	default:
		return nil, errors.New("ShareLogic.Transition.Action", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	run, err := runs.Update(entry, fn)
	view := renderRun(l.ctx, entry.ID(), run, l.aiAgentEnabled())
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidStepTransition) {
			l.core.Metrics().WorkflowTransitionInc(action, "invalid")
			return view, errors.New("ShareLogic.Transition."+action, i18n.ERROR_INVALID_STEP_TRANSITION, err).Code(http.StatusConflict)
		}
		l.core.Metrics().WorkflowTransitionInc(action, "error")
		return view, errors.New("ShareLogic.Transition."+action, i18n.ERROR_INTERNAL, err)
	}

	l.core.Metrics().WorkflowTransitionInc(action, "ok")
	if action == ACTION_COMPLETE {
		l.core.Metrics().ShareAttemptInc(run.Platform, types.ShareStatusCompleted)
	}
	return view, nil
}

type RecordFailureRequest struct {
	PostID   int64          `json:"post_id" binding:"required"`
	Platform types.Platform `json:"platform"`
	Error    string         `json:"error"`
}

// RecordFailure 记录一次失败的分享, 重试即重新开始一个 run
func (l *ShareLogic) RecordFailure(req RecordFailureRequest) (*types.ShareAttempt, error) {
	platform := types.ParsePlatform(req.Platform.String())
	attempt := &types.ShareAttempt{
		PostID:    req.PostID,
		Platform:  platform,
		Status:    types.ShareStatusFailed,
		Error:     strings.TrimSpace(req.Error),
		CreatedAt: time.Now().Unix(),
	}
	if data, err := l.core.Srv().Assembler().Assemble(l.ctx, req.PostID); err == nil {
		attempt.Snapshot = data
	}

	if err := l.core.History().Append(l.ctx, attempt); err != nil {
		return nil, errors.New("ShareLogic.RecordFailure.History.Append", i18n.ERROR_INTERNAL, err)
	}
	l.core.Metrics().ShareAttemptInc(platform, types.ShareStatusFailed)
	return attempt, nil
}

// LatestByPost 每个平台最近一次分享, 用于文章编辑页
func (l *ShareLogic) LatestByPost(postID int64) ([]types.ShareAttempt, error) {
	list, err := l.core.History().LatestByPost(l.ctx, postID)
	if err != nil {
		return nil, errors.New("ShareLogic.LatestByPost.History.LatestByPost", i18n.ERROR_INTERNAL, err)
	}
	if list == nil {
		list = []types.ShareAttempt{}
	}
	return list, nil
}
