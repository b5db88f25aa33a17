package srv

import (
	"net/http"

	"github.com/mikespook/gorbac/v2"

	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pEditPosts := gorbac.NewStdPermission(types.PERMISSION_EDIT_POSTS)
	pManageOptions := gorbac.NewStdPermission(types.PERMISSION_MANAGE_OPTIONS)

	roleAuthor := gorbac.NewStdRole(types.ROLE_AUTHOR)
	roleAuthor.Assign(pEditPosts)

	roleEditor := gorbac.NewStdRole(types.ROLE_EDITOR)
	roleEditor.Assign(pEditPosts)

	roleAdmin := gorbac.NewStdRole(types.ROLE_ADMINISTRATOR)
	roleAdmin.Assign(pManageOptions)

	rbac.Add(roleAuthor)
	rbac.Add(roleEditor)
	rbac.Add(roleAdmin)

	// 管理员继承编辑者的权限
	rbac.SetParent(types.ROLE_ADMINISTRATOR, types.ROLE_EDITOR)

	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

// CheckPermission 检查角色是否有某权限
func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}

type RoleUser interface {
	GetRole() string
	GetUser() string
}

func (a *RBACSrv) Check(user RoleUser, permissionID string) *errors.CustomizedError {
	if user == nil || !a.CheckPermission(user.GetRole(), permissionID) {
		return errors.New("RBACSrv.Check", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}
