package v1

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type SettingsLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewSettingsLogic(ctx context.Context, core *core.Core) *SettingsLogic {
	return &SettingsLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *SettingsLogic) Get() (types.Settings, error) {
	settings, err := l.core.Settings(l.ctx)
	if err != nil {
		return settings, errors.New("SettingsLogic.Get.Settings", i18n.ERROR_INTERNAL, err)
	}
	return settings, nil
}

// Update 整体覆盖, 保存前做清洗
func (l *SettingsLogic) Update(settings types.Settings) (types.Settings, error) {
	settings = settings.Sanitize()
	now := time.Now().Unix()

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		for _, row := range settings.Rows() {
			row.UpdatedAt = now
			if err := l.core.Store().SettingsStore().Upsert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return settings, errors.New("SettingsLogic.Update.SettingsStore.Upsert", i18n.ERROR_INTERNAL, err)
	}

	slog.Info("settings updated", slog.String("user", l.GetUserInfo().GetUser()),
		slog.Bool("linkedin_enabled", settings.LinkedInEnabled), slog.Int("share_delay", settings.ShareDelay))
	return settings, nil
}
