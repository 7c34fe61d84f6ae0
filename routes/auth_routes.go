package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/controllers"
	"github.com/BerniceZTT/crm_workload/middleware"
)

// RegisterAuthRoutes 注册认证路由，令牌由 token 命令签发
func RegisterAuthRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	auth.GET("/validate", middleware.AuthMiddleware(), controllers.ValidateToken)
}
