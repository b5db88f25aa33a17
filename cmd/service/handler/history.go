package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

type ListHistoryRequest struct {
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"pagesize" binding:"max=100"`
}

func (s *HttpSrv) ListHistory(c *gin.Context) {
	var (
		err error
		req ListHistoryRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewHistoryLogic(c, s.Core).List(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.ListResponse[types.ShareAttempt]{
		List:  list,
		Total: total,
	})
}

func (s *HttpSrv) HistoryStats(c *gin.Context) {
	stats, err := v1.NewHistoryLogic(c, s.Core).Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, stats)
}

func (s *HttpSrv) ClearHistory(c *gin.Context) {
	if err := v1.NewHistoryLogic(c, s.Core).Clear(); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
