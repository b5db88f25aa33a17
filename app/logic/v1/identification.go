package v1

import (
	"context"
	"log/slog"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/security"
)

type _userInfo struct {
	u    *security.TokenClaims
	core *core.Core
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

// Identification 校验当前用户是否拥有 permission
func (u *_userInfo) Identification(permission string) error {
	if err := u.core.Srv().RBAC().Check(u.u, permission); err != nil {
		return err
	}
	return nil
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	Identification(permission string) error
}
