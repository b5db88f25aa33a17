package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentic-social/agentic-social/app/core"
	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/app/response"
	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/security"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)
	provide := response.ProvideResponseLocalizer(l)

	return func(c *gin.Context) {
		provide(c)
		c.Set(v1.LOCALIZER_CONTEXT_KEY, l)
		c.Set(v1.LANGUAGE_KEY, response.GetLang(c))
	}
}

// Authorization 校验站点签发的 jwt, 通过后把 claims 写入 context
func Authorization(core *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	secret := []byte(core.Cfg().Security.JWTSecret)
	return func(c *gin.Context) {
		tokenValue := c.GetHeader(security.TOKEN_KEY)
		if tokenValue == "" {
			response.APIError(c, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := security.VerifyToken(tokenValue, secret)
		if err != nil {
			response.APIError(c, errors.New(tracePrefix+".VerifyToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}
		if claims.User == "" {
			response.APIError(c, errors.New(tracePrefix+".User", i18n.ERROR_INVALID_TOKEN, nil).Code(http.StatusUnauthorized))
			return
		}

		c.Set(v1.TOKEN_CONTEXT_KEY, *claims)
		c.Set(response.UserKey, claims.User)
	}
}

// VerifyPermission 校验当前角色是否拥有 permission
func VerifyPermission(core *core.Core, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := v1.InjectTokenClaim(c)
		if !ok {
			response.APIError(c, errors.New("middleware.VerifyPermission.InjectTokenClaim", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		if err := core.Srv().RBAC().Check(claims, permission); err != nil {
			response.APIError(c, errors.Trace("middleware.VerifyPermission", err))
			return
		}
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Accept-Language, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type, X-Request-Id")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, operation string, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(genKeyFunc(c), operation, opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}

// Observe 记录接口耗时和错误数
func Observe(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		api := c.FullPath()
		if api == "" {
			api = "unknown"
		}
		start := time.Now()
		timer := core.Metrics().ApiResponseTimer(api)

		c.Next()

		timer.ObserveDuration()
		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			core.Metrics().ApiErrorInc(c.Request.Method, api, status)
		}
		slog.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("api", api),
			slog.Int("status", status),
			slog.Duration("cost", time.Since(start)),
			slog.String("client_ip", c.ClientIP()))
	}
}
