package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/safe"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func init() {
	register.RegisterFunc[*Process](ProcessKey{}, func(p *Process) {
		p.Cron().AddFunc("@daily", func() {
			safe.RunWithLog(func() {
				SyncShareHistory(p.Core())
			}, "process.SyncShareHistory")
		})

		slog.Info("share history sync registered: runs @daily")
	})
}

// SyncShareHistory 重新应用保留上限并刷新统计指标
func SyncShareHistory(core *core.Core) (types.ShareStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	keep := core.Cfg().History.MaxEntries
	if keep <= 0 {
		keep = types.SHARE_LOG_MAX_ENTRIES
	}

	removed, err := core.History().Trim(ctx, keep)
	if err != nil {
		slog.Error("failed to trim share history", slog.String("component", "process.SyncShareHistory"), slog.Any("error", err))
		return types.ShareStats{}, err
	}

	stats, err := core.History().Stats(ctx)
	if err != nil {
		slog.Error("failed to load share history stats", slog.String("component", "process.SyncShareHistory"), slog.Any("error", err))
		return stats, err
	}
	core.Metrics().SetShareLogEntries(stats)

	slog.Info("share history synced",
		slog.Int64("removed", removed),
		slog.Int64("total", stats.Total),
		slog.Int64("initiated", stats.ByStatus[types.ShareStatusInitiated]),
		slog.Int64("completed", stats.ByStatus[types.ShareStatusCompleted]),
		slog.Int64("failed", stats.ByStatus[types.ShareStatusFailed]))
	return stats, nil
}
