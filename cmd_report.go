package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/repository"
	"github.com/BerniceZTT/crm_workload/service"
	"github.com/BerniceZTT/crm_workload/utils"
)

var (
	reportView      string
	reportRange     string
	reportStart     string
	reportEnd       string
	reportProducers []string
	reportManagers  []string
	reportPeriod    string
	reportCoreOnly  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "计算一个看板视图并以JSON输出",
	Long: `直接连接数据源计算一个看板视图，结果以JSON写到标准输出。

可用视图:
  workload, policy-types, managers, timeline, core-lines,
  producers, carriers, writing-carriers, stages, premium-trend, overview`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportView, "view", "workload", "视图名称")
	f.StringVar(&reportRange, "range", "", "预设时间范围，如 next_90_days、last_30_days")
	f.StringVar(&reportStart, "start", "", "自定义开始日期 YYYY-MM-DD")
	f.StringVar(&reportEnd, "end", "", "自定义结束日期 YYYY-MM-DD")
	f.StringSliceVar(&reportProducers, "producers", nil, "业务员名称")
	f.StringSliceVar(&reportManagers, "managers", nil, "客户经理名称")
	f.StringVar(&reportPeriod, "period", "week", "保费趋势周期 week 或 month")
	f.BoolVar(&reportCoreOnly, "core-only", false, "只统计核心险种")
}

// resolveReportRange 与HTTP接口的取值规则一致
func resolveReportRange(defaultRange string, now time.Time) (time.Time, time.Time, error) {
	if reportRange == analytics.RangeCustom || (reportRange == "" && (reportStart != "" || reportEnd != "")) {
		s, err := time.Parse("2006-01-02", reportStart)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", analytics.ErrInvalidRange, reportStart)
		}
		e, err := time.Parse("2006-01-02", reportEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", analytics.ErrInvalidRange, reportEnd)
		}
		from, to := analytics.CustomRange(s, e)
		return from, to, nil
	}
	name := reportRange
	if name == "" {
		name = defaultRange
	}
	return analytics.ResolveRange(name, now)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()

	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer repository.CloseMongoDB(context.Background())

	registry := service.NewProducerRegistry()
	if len(reportProducers) > 0 {
		if err := registry.Refresh(ctx, store); err != nil {
			utils.Logger.Warn().Err(err).Msg("加载业务员注册表失败，按名称筛选")
		}
	}
	svc := service.NewDashboardService(store, registry, limitsOf(cfg))

	view, err := buildReport(ctx, svc, reportView, time.Now())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func buildReport(ctx context.Context, svc *service.DashboardService, view string, now time.Time) (interface{}, error) {
	switch view {
	case "workload", "policy-types", "managers", "timeline", "core-lines":
		from, to, err := resolveReportRange(analytics.RangeNext90Days, now)
		if err != nil {
			return nil, err
		}
		q := service.WorkloadQuery{From: from, To: to, CoreOnly: reportCoreOnly, Managers: reportManagers}
		switch view {
		case "policy-types":
			return svc.PolicyTypes(ctx, q), nil
		case "managers":
			return svc.ManagerDetails(ctx, q), nil
		case "timeline":
			return svc.Timeline(ctx, q), nil
		case "core-lines":
			return svc.CoreLines(ctx, q), nil
		}
		return svc.WorkloadOverview(ctx, q), nil
	case "stages":
		return svc.StageDistribution(ctx), nil
	}

	from, to, err := resolveReportRange(analytics.RangeLast30Days, now)
	if err != nil {
		return nil, err
	}
	q := service.ProducerQuery{From: from, To: to, Producers: utils.SplitList(reportProducers)}
	switch view {
	case "producers":
		return svc.ProducerPerformance(ctx, q), nil
	case "carriers":
		return svc.CarrierPerformance(ctx, from, to), nil
	case "writing-carriers":
		return svc.WritingCarriers(ctx, q), nil
	case "premium-trend":
		period, err := analytics.ParsePeriod(reportPeriod)
		if err != nil {
			return nil, err
		}
		return svc.PremiumTrend(ctx, q, period)
	case "overview":
		return svc.Overview(ctx, q), nil
	}
	return nil, fmt.Errorf("未知视图: %s", view)
}
