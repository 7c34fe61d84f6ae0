package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/controllers"
	"github.com/BerniceZTT/crm_workload/middleware"
	"github.com/BerniceZTT/crm_workload/utils"
)

// RegisterDashboardRoutes 注册看板相关路由
func RegisterDashboardRoutes(router *gin.Engine, h *controllers.DashboardHandler) {
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(), middleware.PermissionMiddleware(utils.ResourceDashboard, utils.ActionRead))

	workload := api.Group("/workload")
	workload.GET("/overview", h.WorkloadOverview)
	workload.GET("/policy-types", h.PolicyTypes)
	workload.GET("/managers", h.ManagerDetails)
	workload.GET("/timeline", h.Timeline)
	workload.GET("/core-lines", h.CoreLines)

	producers := api.Group("/producers")
	producers.GET("", h.ProducerNames)
	producers.GET("/performance", h.ProducerPerformance)
	producers.GET("/:name", h.ProducerDetail)

	performance := api.Group("/performance")
	performance.GET("/carriers", h.CarrierPerformance)
	performance.GET("/writing-carriers", h.WritingCarriers)
	performance.GET("/opportunity-status", h.StageDistribution)
	performance.GET("/premium-trend", h.PremiumTrend)

	api.GET("/overview", h.Overview)
}
