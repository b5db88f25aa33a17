package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

func (s *HttpSrv) GetSharingData(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewShareLogic(c, s.Core).SharingData(postID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, data)
}

func (s *HttpSrv) ListPostShares(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewShareLogic(c, s.Core).LatestByPost(postID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, list)
}

type StartShareRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

func (s *HttpSrv) StartShare(c *gin.Context) {
	var (
		err error
		req StartShareRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	view, err := v1.NewShareLogic(c, s.Core).Start(req.PostID, types.ParsePlatform(req.Platform))
	if err != nil {
		response.APIErrorWithData(c, err, view)
		return
	}

	response.APISuccess(c, view)
}

func (s *HttpSrv) GetShareRun(c *gin.Context) {
	view, err := v1.NewShareLogic(c, s.Core).GetRun(c.Param("runid"))
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, view)
}

// TransitShareRun 返回 handler, 对应 next/prev/complete/abandon
func (s *HttpSrv) TransitShareRun(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := v1.NewShareLogic(c, s.Core).Transition(c.Param("runid"), action)
		if err != nil {
			response.APIErrorWithData(c, err, view)
			return
		}

		response.APISuccess(c, view)
	}
}

func (s *HttpSrv) RecordShareFailure(c *gin.Context) {
	var (
		err error
		req v1.RecordFailureRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	attempt, err := v1.NewShareLogic(c, s.Core).RecordFailure(req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, attempt)
}
