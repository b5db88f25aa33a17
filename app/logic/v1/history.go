package v1

import (
	"context"
	"log/slog"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type HistoryLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewHistoryLogic(ctx context.Context, core *core.Core) *HistoryLogic {
	return &HistoryLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// List 最新的在前, page 从 1 开始
func (l *HistoryLogic) List(page, pageSize uint64) ([]types.ShareAttempt, int64, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = l.core.Cfg().History.PageSize
	}

	list, err := l.core.History().Recent(l.ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, errors.New("HistoryLogic.List.History.Recent", i18n.ERROR_INTERNAL, err)
	}
	total, err := l.core.History().Total(l.ctx)
	if err != nil {
		return nil, 0, errors.New("HistoryLogic.List.History.Total", i18n.ERROR_INTERNAL, err)
	}
	if list == nil {
		list = []types.ShareAttempt{}
	}
	return list, total, nil
}

func (l *HistoryLogic) Stats() (types.ShareStats, error) {
	stats, err := l.core.History().Stats(l.ctx)
	if err != nil {
		return stats, errors.New("HistoryLogic.Stats.History.Stats", i18n.ERROR_INTERNAL, err)
	}
	return stats, nil
}

// Clear 清空分享记录, 包括每篇文章的最新记录
func (l *HistoryLogic) Clear() error {
	if err := l.core.History().Clear(l.ctx); err != nil {
		return errors.New("HistoryLogic.Clear.History.Clear", i18n.ERROR_INTERNAL, err)
	}
	l.core.Metrics().SetShareLogEntries(types.NewShareStats())
	slog.Info("share history cleared", slog.String("user", l.GetUserInfo().GetUser()))
	return nil
}
