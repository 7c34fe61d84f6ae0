package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/utils"
)

// DatabaseStatusFunc 返回各集合的文档数
type DatabaseStatusFunc func(ctx context.Context) (map[string]interface{}, error)

// 数据库状态检查超时
const dbStatusTimeout = 5 * time.Second

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// DatabaseStatus 数据库状态检查
func DatabaseStatus(status DatabaseStatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbStatusTimeout)
		defer cancel()

		result, err := status(ctx)
		if err != nil {
			utils.HandleError(c, utils.NewApiError("获取数据库状态失败: "+err.Error(), http.StatusServiceUnavailable, "DB_UNAVAILABLE"))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
