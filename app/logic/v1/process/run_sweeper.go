package process

import (
	"log/slog"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/safe"
)

func init() {
	register.RegisterFunc[*Process](ProcessKey{}, func(p *Process) {
		p.Cron().AddFunc("@every 1m", func() {
			safe.RunWithLog(func() {
				SweepRuns(p.Core())
			}, "process.SweepRuns")
		})
	})
}

// SweepRuns 清理长时间无操作的分享流程, 不写分享记录
func SweepRuns(core *core.Core) int {
	runs := core.Srv().Runs()
	removed := runs.Sweep()
	core.Metrics().SetActiveRuns(runs.Count())
	if removed > 0 {
		slog.Debug("idle share runs removed", slog.Int("removed", removed), slog.Int("active", runs.Count()))
	}
	return removed
}
