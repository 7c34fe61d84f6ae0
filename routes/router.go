package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BerniceZTT/crm_workload/controllers"
	"github.com/BerniceZTT/crm_workload/metrics"
)

// Handlers 路由依赖的接口实现
type Handlers struct {
	Dashboard *controllers.DashboardHandler
	Registry  *controllers.RegistryHandler
	DBStatus  controllers.DatabaseStatusFunc
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, h Handlers) {
	RegisterAuthRoutes(router)
	RegisterDashboardRoutes(router, h.Dashboard)
	RegisterRegistryRoutes(router, h.Registry)

	// 健康检查路由
	router.GET("/api/health", controllers.Health)

	// 数据库状态检查路由
	if h.DBStatus != nil {
		router.GET("/api/db-status", controllers.DatabaseStatus(h.DBStatus))
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))
}
