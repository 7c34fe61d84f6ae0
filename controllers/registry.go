package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/service"
	"github.com/BerniceZTT/crm_workload/utils"
)

// RegistryHandler 业务员注册表维护接口
type RegistryHandler struct {
	registry *service.ProducerRegistry
	source   service.ProducerSource
	timeout  time.Duration
}

// NewRegistryHandler 创建注册表接口
func NewRegistryHandler(registry *service.ProducerRegistry, source service.ProducerSource, timeout time.Duration) *RegistryHandler {
	return &RegistryHandler{registry: registry, source: source, timeout: timeout}
}

// Refresh 立即从数据源重新加载注册表
func (h *RegistryHandler) Refresh(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.registry.Refresh(ctx, h.source); err != nil {
		utils.HandleError(c, utils.CreateUpstreamError("刷新业务员注册表失败: "+err.Error()))
		return
	}
	utils.SuccessResponse(c, gin.H{
		"producers":   len(h.registry.Names()),
		"refreshedAt": h.registry.RefreshedAt(),
	}, "业务员注册表已刷新")
}

// Invalidate 清空注册表，下次刷新前按名称筛选业务员
func (h *RegistryHandler) Invalidate(c *gin.Context) {
	h.registry.Invalidate()
	utils.SuccessResponse(c, nil, "业务员注册表已清空")
}
