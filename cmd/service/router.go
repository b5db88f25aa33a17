package service

import (
	"github.com/gin-gonic/gin"

	"github.com/agentic-social/agentic-social/app/core"
	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/cmd/service/handler"
	"github.com/agentic-social/agentic-social/cmd/service/middleware"
	"github.com/agentic-social/agentic-social/pkg/metrics"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func serve(core *core.Core) error {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	return core.HttpEngine().Run(core.Cfg().Addr)
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery())
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.Observe(s.Core))
	apiV1 := s.Engine.Group("/api/v1")
	{
		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		editor := authed.Group("")
		editor.Use(middleware.VerifyPermission(s.Core, types.PERMISSION_EDIT_POSTS))
		{
			editor.POST("/summary", s.GenerateSummary)

			post := editor.Group("/posts/:id")
			{
				post.GET("/sharing-data", s.GetSharingData)
				post.GET("/share-meta", s.GetPostShareMeta)
				post.PUT("/share-meta", s.UpdatePostShareMeta)
				post.GET("/shares", s.ListPostShares)
			}

			share := editor.Group("/share")
			{
				share.POST("", userLimit("share_start"), s.StartShare)
				share.GET("/runs/:runid", s.GetShareRun)
				share.POST("/runs/:runid/next", s.TransitShareRun(v1.ACTION_NEXT))
				share.POST("/runs/:runid/prev", s.TransitShareRun(v1.ACTION_PREV))
				share.POST("/runs/:runid/complete", s.TransitShareRun(v1.ACTION_COMPLETE))
				share.POST("/runs/:runid/abandon", s.TransitShareRun(v1.ACTION_ABANDON))
			}

			editor.GET("/workflow/:platform/steps", s.ListWorkflowSteps)

			history := editor.Group("/history")
			{
				history.GET("", s.ListHistory)
				history.GET("/stats", s.HistoryStats)
				history.POST("/failures", s.RecordShareFailure)
			}
		}

		admin := authed.Group("")
		admin.Use(middleware.VerifyPermission(s.Core, types.PERMISSION_MANAGE_OPTIONS))
		{
			admin.DELETE("/history", s.ClearHistory)
			admin.GET("/settings", s.GetSettings)
			admin.PUT("/settings", s.UpdateSettings)
		}
	}
}
