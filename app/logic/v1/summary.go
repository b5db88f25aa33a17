package v1

import (
	"context"
	"net/http"

	"github.com/agentic-social/agentic-social/app/core"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type SummaryLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewSummaryLogic(ctx context.Context, core *core.Core) *SummaryLogic {
	return &SummaryLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

type SummaryResult struct {
	PostID    int64          `json:"post_id"`
	Platform  types.Platform `json:"platform"`
	MaxLength int            `json:"max_length"`
	Summary   string         `json:"summary"`
	Length    int            `json:"length"`
}

// Generate 生成单个平台的摘要, 文章不存在时返回空摘要
func (l *SummaryLogic) Generate(postID int64, platform types.Platform, maxLength int) (*SummaryResult, error) {
	if maxLength < 0 {
		return nil, errors.New("SummaryLogic.Generate.MaxLength", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if maxLength == 0 {
		maxLength = l.defaultLength(platform)
	}

	if user := l.GetUserInfo().GetUser(); user != "" {
		limiter := l.core.UseLimiter(user, "summary", core.WithLimit(l.core.Cfg().Limit.SummaryPerMinute))
		if !limiter.Allow() {
			return nil, errors.New("SummaryLogic.Generate.Limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests)
		}
	}

	timer := l.core.Metrics().SummaryTimer(platform)
	text, err := l.core.Srv().Assembler().Summary(l.ctx, postID, platform, maxLength)
	timer.ObserveDuration()
	if err != nil {
		return nil, errors.New("SummaryLogic.Generate.Assembler.Summary", i18n.ERROR_INTERNAL, err)
	}

	return &SummaryResult{
		PostID:    postID,
		Platform:  platform,
		MaxLength: summary.EffectiveMaxLength(platform, maxLength),
		Summary:   text,
		Length:    summary.Len(text),
	}, nil
}

func (l *SummaryLogic) defaultLength(platform types.Platform) int {
	cfg := l.core.Cfg().Summary
	switch platform {
	case types.PlatformLinkedIn:
		if cfg.LinkedInLength > 0 {
			return cfg.LinkedInLength
		}
	case types.PlatformTwitter:
		if cfg.TwitterLength > 0 {
			return cfg.TwitterLength
		}
	default:
		if cfg.DefaultLength > 0 {
			return cfg.DefaultLength
		}
	}
	return platform.DefaultSummaryLength()
}
