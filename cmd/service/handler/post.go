package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/utils"
)

func (s *HttpSrv) GetPostShareMeta(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	meta, err := v1.NewPostMetaLogic(c, s.Core).Get(postID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, meta)
}

func (s *HttpSrv) UpdatePostShareMeta(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	var req v1.UpdatePostMetaRequest
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	meta, err := v1.NewPostMetaLogic(c, s.Core).Update(postID, req)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, meta)
}
