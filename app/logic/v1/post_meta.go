package v1

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type PostMetaLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewPostMetaLogic(ctx context.Context, core *core.Core) *PostMetaLogic {
	return &PostMetaLogic{
		ctx:  ctx,
		core: core,
	}
}

// Get 没有保存过的文章返回默认值(允许分享, 无自定义文案)
func (l *PostMetaLogic) Get(postID int64) (*types.PostShareMeta, error) {
	meta, err := l.core.Store().PostShareMetaStore().Get(l.ctx, postID)
	if err != nil {
		return nil, errors.New("PostMetaLogic.Get.PostShareMetaStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if meta == nil {
		meta = &types.PostShareMeta{
			PostID:       postID,
			ShareEnabled: true,
		}
	}
	return meta, nil
}

type UpdatePostMetaRequest struct {
	CustomMessage string `json:"custom_message"`
	ShareEnabled  *bool  `json:"share_enabled"`
}

func (l *PostMetaLogic) Update(postID int64, req UpdatePostMetaRequest) (*types.PostShareMeta, error) {
	post, err := l.core.Posts().GetPost(l.ctx, postID)
	if err != nil {
		return nil, errors.New("PostMetaLogic.Update.PostStore.GetPost", i18n.ERROR_INTERNAL, err)
	}
	if post == nil {
		return nil, errors.New("PostMetaLogic.Update.PostStore.GetPost", i18n.ERROR_POST_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	meta, err := l.Get(postID)
	if err != nil {
		return nil, errors.Trace("PostMetaLogic.Update", err)
	}
	meta.CustomMessage = strings.TrimSpace(req.CustomMessage)
	if req.ShareEnabled != nil {
		meta.ShareEnabled = *req.ShareEnabled
	}
	meta.UpdatedAt = time.Now().Unix()

	if err = l.core.Store().PostShareMetaStore().Upsert(l.ctx, *meta); err != nil {
		return nil, errors.New("PostMetaLogic.Update.PostShareMetaStore.Upsert", i18n.ERROR_INTERNAL, err)
	}
	return meta, nil
}
