package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func (s *HttpSrv) ListWorkflowSteps(c *gin.Context) {
	steps := v1.NewWorkflowLogic(c, s.Core).Steps(types.ParsePlatform(c.Param("platform")))
	response.APISuccess(c, steps)
}
