package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

func (s *HttpSrv) GetSettings(c *gin.Context) {
	settings, err := v1.NewSettingsLogic(c, s.Core).Get()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, settings)
}

func (s *HttpSrv) UpdateSettings(c *gin.Context) {
	logic := v1.NewSettingsLogic(c, s.Core)
	// 未提交的字段保持原值
	req, err := logic.Get()
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	settings, err := logic.Update(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, settings)
}
