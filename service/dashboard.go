package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/metrics"
	"github.com/BerniceZTT/crm_workload/models"
	"github.com/BerniceZTT/crm_workload/utils"
)

// RecordSource 看板所需的远端数据
type RecordSource interface {
	ProducerSource
	FetchPolicies(ctx context.Context, f models.PolicyFilter) ([]models.Row, error)
	FetchAccountManagers(ctx context.Context) (map[string]string, error)
	FetchStageCounts(ctx context.Context, from, to time.Time) ([]models.StageCount, error)
	FetchCarrierStageCounts(ctx context.Context, from, to time.Time) ([]models.CarrierStageCount, error)
	FetchQuoteRequests(ctx context.Context, from, to time.Time) (int64, error)
	FetchReferrals(ctx context.Context, accountIDs []string) ([]models.Referral, error)
}

// Limits 各榜单长度
type Limits struct {
	TopManagers  int
	TopTypes     int
	TopReferrers int
}

// DefaultLimits 与看板默认展示一致
var DefaultLimits = Limits{TopManagers: 10, TopTypes: 8, TopReferrers: 10}

// WorkloadQuery 客户经理工作量查询，按到期日筛选
type WorkloadQuery struct {
	From     time.Time
	To       time.Time
	CoreOnly bool
	Managers []string
}

// ProducerQuery 业务员业绩查询，按生效日筛选
type ProducerQuery struct {
	From      time.Time
	To        time.Time
	Producers []string
}

// DashboardService 拉取数据并聚合出各看板视图。
// 数据源失败不返回错误，而是返回空结果并在 Diagnostics 中说明
type DashboardService struct {
	source   RecordSource
	registry *ProducerRegistry
	limits   Limits
	now      func() time.Time
}

// NewDashboardService registry 为nil时按名称筛选业务员
func NewDashboardService(source RecordSource, registry *ProducerRegistry, limits Limits) *DashboardService {
	if limits.TopManagers <= 0 {
		limits.TopManagers = DefaultLimits.TopManagers
	}
	if limits.TopTypes <= 0 {
		limits.TopTypes = DefaultLimits.TopTypes
	}
	if limits.TopReferrers <= 0 {
		limits.TopReferrers = DefaultLimits.TopReferrers
	}
	if registry == nil {
		registry = NewProducerRegistry()
	}
	return &DashboardService{source: source, registry: registry, limits: limits, now: time.Now}
}

// Registry 业务员注册表
func (s *DashboardService) Registry() *ProducerRegistry {
	return s.registry
}

// diagnostics 并发安全的问题收集
type diagnostics struct {
	mu    sync.Mutex
	items []string
}

func (d *diagnostics) add(dataset string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, fmt.Sprintf("%s 查询失败: %v", dataset, err))
}

func (d *diagnostics) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil
	}
	return append([]string(nil), d.items...)
}

// timed 执行一次数据源查询并记录耗时与失败
func timed[T any](ctx context.Context, dataset string, fetch func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fetch(ctx)
	metrics.RecordFetch(dataset, float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		utils.Logger.Warn().Err(err).Str("dataset", dataset).Msg("数据源查询失败")
	}
	return v, err
}

func (s *DashboardService) workloadRecords(ctx context.Context, q WorkloadQuery, diag *diagnostics) []models.PolicyRecord {
	managers, err := timed(ctx, "accounts", s.source.FetchAccountManagers)
	if err != nil {
		// 保单自带客户经理时仍可继续
		diag.add("accounts", err)
	}

	filter := models.PolicyFilter{
		From:      q.From,
		To:        q.To,
		DateField: models.DateFieldExpiration,
		Statuses:  models.WorkloadStatuses,
	}
	rows, err := timed(ctx, "policies", func(ctx context.Context) ([]models.Row, error) {
		return s.source.FetchPolicies(ctx, filter)
	})
	if err != nil {
		diag.add("policies", err)
		return []models.PolicyRecord{}
	}

	records := analytics.DecodePolicies(rows, managers)
	if q.CoreOnly {
		records = analytics.FilterCoreLines(records)
	}
	metrics.RecordAggregated("workload", len(records))
	return records
}

// WorkloadOverview 工作量概览、分桶、等级分布与统计
func (s *DashboardService) WorkloadOverview(ctx context.Context, q WorkloadQuery) models.WorkloadOverviewResponse {
	var diag diagnostics
	records := s.workloadRecords(ctx, q, &diag)
	buckets := analytics.BuildWorkloadBuckets(records)
	return models.WorkloadOverviewResponse{
		From:         q.From,
		To:           q.To,
		Summary:      analytics.PortfolioSummary(records),
		Buckets:      buckets,
		Distribution: analytics.CategoryDistribution(buckets),
		Stats:        analytics.WorkloadStatistics(buckets),
		Diagnostics:  diag.list(),
	}
}

// PolicyTypes 险种分布与客户经理 x 险种交叉表
func (s *DashboardService) PolicyTypes(ctx context.Context, q WorkloadQuery) models.PolicyTypeResponse {
	var diag diagnostics
	records := s.workloadRecords(ctx, q, &diag)
	return models.PolicyTypeResponse{
		Counts:      analytics.PolicyTypeCounts(records),
		Matrix:      analytics.ManagerTypeMatrix(records, s.limits.TopManagers, s.limits.TopTypes),
		Diagnostics: diag.list(),
	}
}

// ManagerDetails 指定客户经理的明细，未指定时返回全部
func (s *DashboardService) ManagerDetails(ctx context.Context, q WorkloadQuery) models.ManagerDetailsResponse {
	var diag diagnostics
	records := s.workloadRecords(ctx, q, &diag)
	names := analytics.ManagerNames(records)
	selected := q.Managers
	if len(selected) == 0 {
		selected = names
	}
	return models.ManagerDetailsResponse{
		Managers:    names,
		Details:     analytics.ManagerDetails(records, selected),
		Diagnostics: diag.list(),
	}
}

// Timeline 到期时间线
func (s *DashboardService) Timeline(ctx context.Context, q WorkloadQuery) models.TimelineResponse {
	var diag diagnostics
	records := s.workloadRecords(ctx, q, &diag)
	return models.TimelineResponse{
		Timeline:    analytics.ExpirationTimeline(records),
		Diagnostics: diag.list(),
	}
}

// CoreLines 核心险种加权工作量
func (s *DashboardService) CoreLines(ctx context.Context, q WorkloadQuery) models.CoreLinesResponse {
	var diag diagnostics
	q.CoreOnly = true
	records := s.workloadRecords(ctx, q, &diag)
	totals, rows := analytics.CoreLinesWorkload(records)
	return models.CoreLinesResponse{
		Managers:    totals,
		Rows:        rows,
		Diagnostics: diag.list(),
	}
}

// producerFilter 已知业务员按ID筛选，注册表中找不到任何一个时按名称筛选
func (s *DashboardService) producerFilter(q ProducerQuery) models.PolicyFilter {
	f := models.PolicyFilter{
		From:         q.From,
		To:           q.To,
		DateField:    models.DateFieldEffective,
		Statuses:     []string{models.PolicyStatusActive},
		BusinessType: models.BusinessTypeNew,
	}
	if len(q.Producers) == 0 {
		return f
	}
	if ids := s.registry.IDs(q.Producers); len(ids) > 0 {
		f.ProducerIDs = ids
	} else {
		f.ProducerNames = q.Producers
	}
	return f
}

func (s *DashboardService) producerRecords(ctx context.Context, q ProducerQuery, view string, diag *diagnostics) []models.PolicyRecord {
	filter := s.producerFilter(q)
	rows, err := timed(ctx, "policies", func(ctx context.Context) ([]models.Row, error) {
		return s.source.FetchPolicies(ctx, filter)
	})
	if err != nil {
		diag.add("policies", err)
		return []models.PolicyRecord{}
	}
	records := analytics.DecodePolicies(rows, nil)
	metrics.RecordAggregated(view, len(records))
	return records
}

// ProducerNames 注册表中的业务员
func (s *DashboardService) ProducerNames() []string {
	return s.registry.Names()
}

// ProducerPerformance 业务员排名与险种分布
func (s *DashboardService) ProducerPerformance(ctx context.Context, q ProducerQuery) models.ProducerPerformanceResponse {
	var diag diagnostics
	records := s.producerRecords(ctx, q, "producers", &diag)
	return models.ProducerPerformanceResponse{
		Producers:   analytics.ProducerPerformance(records),
		PolicyTypes: analytics.PolicyTypeCounts(records),
		Diagnostics: diag.list(),
	}
}

// ProducerDetail 单个业务员详情，没有保单时 Detail 为nil
func (s *DashboardService) ProducerDetail(ctx context.Context, producer string, q ProducerQuery) models.ProducerDetailResponse {
	var diag diagnostics
	q.Producers = []string{producer}
	records := s.producerRecords(ctx, q, "producer_detail", &diag)
	return models.ProducerDetailResponse{
		Detail:      analytics.BuildProducerDetail(records, producer),
		Diagnostics: diag.list(),
	}
}

// WritingCarriers 出单承保商保费排名
func (s *DashboardService) WritingCarriers(ctx context.Context, q ProducerQuery) models.WritingCarrierResponse {
	var diag diagnostics
	records := s.producerRecords(ctx, q, "writing_carriers", &diag)
	return models.WritingCarrierResponse{
		Carriers:    analytics.WritingCarrierSummary(records),
		Diagnostics: diag.list(),
	}
}

// PremiumTrend 按周或月汇总保费
func (s *DashboardService) PremiumTrend(ctx context.Context, q ProducerQuery, period analytics.Period) (models.PremiumTrendResponse, error) {
	var diag diagnostics
	records := s.producerRecords(ctx, q, "premium_trend", &diag)
	points, err := analytics.AggregateByPeriod(records, models.DateFieldEffective, period)
	if err != nil {
		return models.PremiumTrendResponse{}, err
	}
	return models.PremiumTrendResponse{
		Period:      string(period),
		Points:      points,
		Diagnostics: diag.list(),
	}, nil
}

func (s *DashboardService) carrierStats(ctx context.Context, from, to time.Time, diag *diagnostics) []models.CarrierStat {
	counts, err := timed(ctx, "carrier_stages", func(ctx context.Context) ([]models.CarrierStageCount, error) {
		return s.source.FetchCarrierStageCounts(ctx, from, to)
	})
	if err != nil {
		diag.add("carrier_stages", err)
	}
	return analytics.CarrierCloseRates(counts)
}

// CarrierPerformance 续保承保商成交率排名
func (s *DashboardService) CarrierPerformance(ctx context.Context, from, to time.Time) models.CarrierPerformanceResponse {
	var diag diagnostics
	return models.CarrierPerformanceResponse{
		Carriers:    s.carrierStats(ctx, from, to, &diag),
		Diagnostics: diag.list(),
	}
}

func (s *DashboardService) stageShares(ctx context.Context, diag *diagnostics) []models.StageShare {
	from, to, _ := analytics.ResolveRange(analytics.RangeLast30Days, s.now())
	counts, err := timed(ctx, "opportunity_stages", func(ctx context.Context) ([]models.StageCount, error) {
		return s.source.FetchStageCounts(ctx, from, to)
	})
	if err != nil {
		diag.add("opportunity_stages", err)
	}
	return analytics.StageDistribution(counts)
}

// StageDistribution 近30天新建商机的阶段分布
func (s *DashboardService) StageDistribution(ctx context.Context) models.StageDistributionResponse {
	var diag diagnostics
	return models.StageDistributionResponse{
		Stages:      s.stageShares(ctx, &diag),
		Diagnostics: diag.list(),
	}
}

// Overview 总览页：各项数据相互独立，并发拉取
func (s *DashboardService) Overview(ctx context.Context, q ProducerQuery) models.OverviewResponse {
	var (
		diag      diagnostics
		resp      models.OverviewResponse
		records   []models.PolicyRecord
		referrals []models.Referral
		carriers  []models.CarrierStat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := timed(gctx, "quote_requests", func(ctx context.Context) (int64, error) {
			return s.source.FetchQuoteRequests(ctx, q.From, q.To)
		})
		if err != nil {
			diag.add("quote_requests", err)
		}
		resp.NewQuoteRequests = n
		return nil
	})
	g.Go(func() error {
		records = s.producerRecords(gctx, q, "overview", &diag)
		ids := make([]string, 0, len(records))
		for _, r := range records {
			if r.AccountID != "" {
				ids = append(ids, r.AccountID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		var err error
		referrals, err = timed(gctx, "referrals", func(ctx context.Context) ([]models.Referral, error) {
			return s.source.FetchReferrals(ctx, ids)
		})
		if err != nil {
			diag.add("referrals", err)
		}
		return nil
	})
	g.Go(func() error {
		carriers = s.carrierStats(gctx, q.From, q.To, &diag)
		return nil
	})
	g.Go(func() error {
		resp.Stages = s.stageShares(gctx, &diag)
		return nil
	})
	_ = g.Wait()

	resp.Premium = analytics.PremiumSummaryOf(records)
	// 周期为常量，不会出错
	resp.WeeklyPremium, _ = analytics.AggregateByPeriod(records, models.DateFieldEffective, analytics.PeriodWeek)
	resp.Referrers = analytics.TopReferrers(referrals, s.limits.TopReferrers)
	if len(resp.Referrers) > 0 {
		top := resp.Referrers[0]
		resp.TopReferrer = &top
	}
	if len(carriers) > 0 {
		top := carriers[0]
		resp.TopCarrier = &top
	}
	resp.Diagnostics = diag.list()
	return resp
}
