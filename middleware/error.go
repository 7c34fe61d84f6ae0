package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/utils"
)

// ErrorHandler 全局错误处理中间件，把 c.Error 记录的最后一个错误写成响应
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果已经存在响应，不重复处理
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			utils.HandleError(c, c.Errors.Last().Err)
		}
	}
}
