package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/service"
	"github.com/BerniceZTT/crm_workload/utils"
)

// 各看板的默认时间范围
const (
	defaultWorkloadRange = analytics.RangeNext90Days
	defaultProducerRange = analytics.RangeLast30Days
)

// DashboardHandler 看板接口
type DashboardHandler struct {
	svc     *service.DashboardService
	timeout time.Duration
	now     func() time.Time
}

// NewDashboardHandler timeout <= 0 时使用默认超时
func NewDashboardHandler(svc *service.DashboardService, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{svc: svc, timeout: timeout, now: time.Now}
}

func (h *DashboardHandler) workloadQuery(c *gin.Context) (service.WorkloadQuery, error) {
	from, to, err := parseDateRange(c, defaultWorkloadRange, h.now())
	if err != nil {
		return service.WorkloadQuery{}, err
	}
	coreOnly, err := parseBool(c, "coreOnly")
	if err != nil {
		return service.WorkloadQuery{}, err
	}
	return service.WorkloadQuery{
		From:     from,
		To:       to,
		CoreOnly: coreOnly,
		Managers: queryList(c, "managers"),
	}, nil
}

func (h *DashboardHandler) producerQuery(c *gin.Context) (service.ProducerQuery, error) {
	from, to, err := parseDateRange(c, defaultProducerRange, h.now())
	if err != nil {
		return service.ProducerQuery{}, err
	}
	return service.ProducerQuery{From: from, To: to, Producers: queryList(c, "producers")}, nil
}

// WorkloadOverview 客户经理工作量概览
func (h *DashboardHandler) WorkloadOverview(c *gin.Context) {
	q, err := h.workloadQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.WorkloadOverview(ctx, q), "")
}

// PolicyTypes 险种分布
func (h *DashboardHandler) PolicyTypes(c *gin.Context) {
	q, err := h.workloadQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.PolicyTypes(ctx, q), "")
}

// ManagerDetails 客户经理明细
func (h *DashboardHandler) ManagerDetails(c *gin.Context) {
	q, err := h.workloadQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.ManagerDetails(ctx, q), "")
}

// Timeline 到期时间线
func (h *DashboardHandler) Timeline(c *gin.Context) {
	q, err := h.workloadQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.Timeline(ctx, q), "")
}

// CoreLines 核心险种工作量
func (h *DashboardHandler) CoreLines(c *gin.Context) {
	q, err := h.workloadQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.CoreLines(ctx, q), "")
}

// ProducerNames 注册表中的业务员
func (h *DashboardHandler) ProducerNames(c *gin.Context) {
	registry := h.svc.Registry()
	utils.SuccessResponse(c, gin.H{
		"producers":   h.svc.ProducerNames(),
		"loaded":      registry.Loaded(),
		"refreshedAt": registry.RefreshedAt(),
	}, "")
}

// ProducerPerformance 业务员业绩排名
func (h *DashboardHandler) ProducerPerformance(c *gin.Context) {
	q, err := h.producerQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.ProducerPerformance(ctx, q), "")
}

// ProducerDetail 单个业务员详情，数据源正常但没有保单时返回404
func (h *DashboardHandler) ProducerDetail(c *gin.Context) {
	name := c.Param("name")
	q, err := h.producerQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp := h.svc.ProducerDetail(ctx, name, q)
	if resp.Detail == nil && len(resp.Diagnostics) == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("业务员 "+name+" 的保单"))
		return
	}
	utils.SuccessResponse(c, resp, "")
}

// CarrierPerformance 续保承保商成交率
func (h *DashboardHandler) CarrierPerformance(c *gin.Context) {
	from, to, err := parseDateRange(c, defaultProducerRange, h.now())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.CarrierPerformance(ctx, from, to), "")
}

// WritingCarriers 出单承保商业绩
func (h *DashboardHandler) WritingCarriers(c *gin.Context) {
	q, err := h.producerQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.WritingCarriers(ctx, q), "")
}

// StageDistribution 近30天商机阶段分布
func (h *DashboardHandler) StageDistribution(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.StageDistribution(ctx), "")
}

// PremiumTrend 按周或月的保费趋势
func (h *DashboardHandler) PremiumTrend(c *gin.Context) {
	period, err := analytics.ParsePeriod(c.Query("period"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("period 仅支持 week 或 month"))
		return
	}
	q, err := h.producerQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp, err := h.svc.PremiumTrend(ctx, q, period)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, resp, "")
}

// Overview 总览页
func (h *DashboardHandler) Overview(c *gin.Context) {
	q, err := h.producerQuery(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()
	utils.SuccessResponse(c, h.svc.Overview(ctx, q), "")
}
