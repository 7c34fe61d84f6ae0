package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/controllers"
	"github.com/BerniceZTT/crm_workload/middleware"
	"github.com/BerniceZTT/crm_workload/utils"
)

// RegisterRegistryRoutes 注册业务员注册表维护路由，仅管理员可用
func RegisterRegistryRoutes(router *gin.Engine, h *controllers.RegistryHandler) {
	registry := router.Group("/api/registry")
	registry.Use(middleware.AuthMiddleware(), middleware.PermissionMiddleware(utils.ResourceRegistry, utils.ActionWrite))

	registry.POST("/refresh", h.Refresh)
	registry.DELETE("", h.Invalidate)
}
