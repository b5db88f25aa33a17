package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
)

func ProvideResponseLocalizer(l i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LocalizerKey, l)
		c.Set(LangKey, l.Match(c.Request.Header.Get("Accept-Language")))
	}
}

func InjectResponseLocalizer(c *gin.Context) i18n.Localizer {
	return c.MustGet(LocalizerKey).(i18n.Localizer)
}

// 常量定义
const (
	RequestIDKey = "request_id"
	ResponseKey  = "response_key"
	LocalizerKey = "i18n"
	LangKey      = "lang"
	UserKey      = "user"
)

// Response 响应结构体定义
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

// Meta 响应meta定义
type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ListResponse 分页列表
type ListResponse[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}

// GetLang 当前请求协商出的语言
func GetLang(c *gin.Context) string {
	if lang := c.GetString(LangKey); lang != "" {
		return lang
	}
	return i18n.DEFAULT_LANG
}

// APIError api响应失败
func APIError(c *gin.Context, err error) {
	APIErrorWithData(c, err, nil)
}

// APIErrorWithData 失败时仍然返回数据, 例如非法迁移后未改变的 run
func APIErrorWithData(c *gin.Context, err error, data interface{}) {
	c.Abort()
	l := InjectResponseLocalizer(c)

	res := c.MustGet(ResponseKey).(*Response)
	res.Data = data

	httpStatus := http.StatusInternalServerError
	if cerr, ok := errors.As(err); ok {
		if cerr.GetCode() != 0 {
			httpStatus = cerr.GetCode()
		}
		if data := cerr.Data(); data != nil {
			res.Meta.Message = l.GetWithData(GetLang(c), cerr.Message(), data)
		} else {
			res.Meta.Message = l.Get(GetLang(c), cerr.Message())
		}
	} else {
		res.Meta.Message = l.Get(GetLang(c), i18n.ERROR_INTERNAL)
	}
	res.Meta.Code = httpStatus

	c.JSON(httpStatus, res)
	printErrorLog(c, res, err)
}

func printErrorLog(c *gin.Context, res *Response, err error) {
	attrs := []any{
		slog.String("request_uri", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Int64("end_time", time.Now().Unix()),
		slog.Int("code", res.Meta.Code),
		slog.String("request_id", res.Meta.RequestID),
		slog.String("error", err.Error()),
	}
	if uid := c.GetString(UserKey); uid != "" {
		attrs = append(attrs, slog.String("uid", uid))
	}
	if res.Meta.Code >= http.StatusInternalServerError {
		slog.Error("response error", attrs...)
		return
	}
	slog.Warn("response error", attrs...)
}

func printSuccessLog(c *gin.Context, res *Response) {
	attrs := []any{
		slog.String("request_uri", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Int64("end_time", time.Now().Unix()),
		slog.String("request_id", res.Meta.RequestID),
		slog.String("params", c.Request.URL.Query().Encode()),
	}
	if uid := c.GetString(UserKey); uid != "" {
		attrs = append(attrs, slog.String("uid", uid))
	}
	slog.Info("request success", attrs...)
}

// APISuccess api响应成功
func APISuccess(c *gin.Context, response interface{}) {
	c.Abort()
	res := c.MustGet(ResponseKey).(*Response)
	if response != nil {
		res.Data = response
	}
	res.Meta.Code = http.StatusOK
	c.JSON(http.StatusOK, res)
	printSuccessLog(c, res)
}

// NewResponse 为每个请求生成 request id
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := &Response{
			Meta: Meta{
				RequestID: uuid.NewString(),
			},
		}
		c.Set(RequestIDKey, resp.Meta.RequestID)
		c.Set(ResponseKey, resp)
		c.Header("X-Request-Id", resp.Meta.RequestID)
	}
}
