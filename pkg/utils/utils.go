package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/holdno/snowFlakeByGo"

	"github.com/agentic-social/agentic-social/pkg/errors"
	"github.com/agentic-social/agentic-social/pkg/i18n"
)

var (
	// IdWorker 全局唯一id生成器实例
	idWorker     *snowFlakeByGo.Worker
	idWorkerOnce sync.Once
)

func SetupIDWorker(clusterID int64) {
	idWorkerOnce.Do(func() {
		idWorker, _ = snowFlakeByGo.NewWorker(clusterID)
	})
}

func GenUniqID() int64 {
	SetupIDWorker(1)
	return idWorker.GetId()
}

func GenUniqIDStr() string {
	return strconv.FormatInt(GenUniqID(), 10)
}

func BindArgsWithGin(c *gin.Context, req interface{}) error {
	err := c.ShouldBindWith(req, binding.Default(c.Request.Method, c.ContentType()))
	if err != nil {
		return errors.New(fmt.Sprintf("Gin.ShouldBindWith.%s.%s", c.Request.Method, c.Request.URL.Path), i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	return nil
}
