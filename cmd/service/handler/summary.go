package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

type GenerateSummaryRequest struct {
	PostID    int64  `json:"post_id" binding:"required"`
	Platform  string `json:"platform"`
	MaxLength int    `json:"max_length"`
}

func (s *HttpSrv) GenerateSummary(c *gin.Context) {
	var (
		err error
		req GenerateSummaryRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewSummaryLogic(c, s.Core).Generate(req.PostID, types.ParsePlatform(req.Platform), req.MaxLength)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}
