// Package analytics 保单工作量、业绩排名与保费趋势的纯函数聚合
package analytics

import (
	"sort"

	"github.com/BerniceZTT/crm_workload/models"
)

// Threshold 工作量等级阈值
type Threshold struct {
	Category models.WorkloadCategory `json:"category"`
	Min      int                     `json:"min"`
	Label    string                  `json:"label"`
	Color    string                  `json:"color"`
	Icon     string                  `json:"icon"`
}

// WorkloadThresholds 按最小值降序排列
var WorkloadThresholds = []Threshold{
	{Category: models.WorkloadExtreme, Min: 400, Label: "Extreme", Color: "#e74c3c", Icon: "🔴"},
	{Category: models.WorkloadVeryHigh, Min: 350, Label: "Very High", Color: "#ff6b35", Icon: "🟠"},
	{Category: models.WorkloadHigh, Min: 200, Label: "High", Color: "#f39c12", Icon: "🟡"},
	{Category: models.WorkloadOptimal, Min: 100, Label: "Optimal", Color: "#2ecc71", Icon: "🟢"},
	{Category: models.WorkloadLow, Min: 0, Label: "Low", Color: "#3498db", Icon: "🔵"},
}

// ThresholdFor 返回等级对应的阈值配置
func ThresholdFor(c models.WorkloadCategory) Threshold {
	for _, t := range WorkloadThresholds {
		if t.Category == c {
			return t
		}
	}
	return WorkloadThresholds[len(WorkloadThresholds)-1]
}

// ClassifyWorkload 返回最小值 <= count 的最高等级，负数归为 low
func ClassifyWorkload(count int) models.WorkloadCategory {
	for _, t := range WorkloadThresholds {
		if count >= t.Min {
			return t.Category
		}
	}
	return models.WorkloadLow
}

// 险种权重
const (
	FloodWeight   = 0.5
	DefaultWeight = 1.0
)

// WeightFor 洪水类 0.5，其余（含未识别险种）1.0
func WeightFor(t models.PolicyType) float64 {
	if t.IsFlood() {
		return FloodWeight
	}
	return DefaultWeight
}

// ComputeWeightedTotals 按客户经理汇总保单数与加权保单数，按加权数降序（稳定）
func ComputeWeightedTotals(records []models.PolicyRecord) []models.ManagerWorkload {
	index := make(map[string]int)
	out := make([]models.ManagerWorkload, 0)
	for _, r := range records {
		i, ok := index[r.AccountManager]
		if !ok {
			i = len(out)
			index[r.AccountManager] = i
			out = append(out, models.ManagerWorkload{Manager: r.AccountManager})
		}
		out[i].PolicyCount++
		out[i].WeightedCount += WeightFor(r.Type)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].WeightedCount > out[b].WeightedCount
	})
	return out
}

// BuildWorkloadBuckets 客户经理工作量分桶，按保单数降序（稳定）
func BuildWorkloadBuckets(records []models.PolicyRecord) []models.WorkloadBucket {
	totals := ComputeWeightedTotals(records)
	typesByManager := make(map[string][]models.PolicyRecord, len(totals))
	for _, r := range records {
		typesByManager[r.AccountManager] = append(typesByManager[r.AccountManager], r)
	}

	buckets := make([]models.WorkloadBucket, 0, len(totals))
	for _, t := range totals {
		category := ClassifyWorkload(t.PolicyCount)
		threshold := ThresholdFor(category)
		buckets = append(buckets, models.WorkloadBucket{
			Manager:        t.Manager,
			PolicyCount:    t.PolicyCount,
			WeightedCount:  t.WeightedCount,
			Category:       category,
			CategoryLabel:  threshold.Label,
			CategoryColor:  threshold.Color,
			CategoryIcon:   threshold.Icon,
			TopPolicyTypes: topNames(PolicyTypeCounts(typesByManager[t.Manager]), 3),
		})
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].PolicyCount > buckets[b].PolicyCount
	})
	return buckets
}

// CategoryDistribution 各工作量等级的客户经理人数，按阈值顺序，跳过空等级
func CategoryDistribution(buckets []models.WorkloadBucket) []models.ChartDataItem {
	counts := make(map[models.WorkloadCategory]int)
	for _, b := range buckets {
		counts[b.Category]++
	}
	out := make([]models.ChartDataItem, 0, len(counts))
	for _, t := range WorkloadThresholds {
		if n := counts[t.Category]; n > 0 {
			out = append(out, models.ChartDataItem{Name: t.Label, Value: n})
		}
	}
	return out
}

// WorkloadStatistics 保单数的均值、中位数、最大值、最小值；无数据时全为0
func WorkloadStatistics(buckets []models.WorkloadBucket) models.WorkloadStats {
	if len(buckets) == 0 {
		return models.WorkloadStats{}
	}
	counts := make([]int, len(buckets))
	sum := 0
	for i, b := range buckets {
		counts[i] = b.PolicyCount
		sum += b.PolicyCount
	}
	sort.Ints(counts)

	n := len(counts)
	median := float64(counts[n/2])
	if n%2 == 0 {
		median = float64(counts[n/2-1]+counts[n/2]) / 2
	}
	return models.WorkloadStats{
		Average: float64(sum) / float64(n),
		Median:  median,
		Max:     counts[n-1],
		Min:     counts[0],
	}
}

// PortfolioSummary 保单组合概览
func PortfolioSummary(records []models.PolicyRecord) models.PortfolioSummary {
	accounts := make(map[string]struct{})
	managers := make(map[string]struct{})
	active := 0
	for _, r := range records {
		if r.Status == models.PolicyStatusActive {
			active++
		}
		if r.AccountID != "" {
			accounts[r.AccountID] = struct{}{}
		}
		managers[r.AccountManager] = struct{}{}
	}
	return models.PortfolioSummary{
		TotalPolicies:   len(records),
		ActivePolicies:  active,
		UniqueAccounts:  len(accounts),
		AccountManagers: len(managers),
	}
}

// FilterCoreLines 仅保留核心险种
func FilterCoreLines(records []models.PolicyRecord) []models.PolicyRecord {
	out := make([]models.PolicyRecord, 0, len(records))
	for _, r := range records {
		if r.Type.IsCore() {
			out = append(out, r)
		}
	}
	return out
}

// FilterManagers 仅保留指定客户经理的保单；names 为空时原样返回
func FilterManagers(records []models.PolicyRecord, names []string) []models.PolicyRecord {
	if len(names) == 0 {
		return records
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := make([]models.PolicyRecord, 0, len(records))
	for _, r := range records {
		if _, ok := want[r.AccountManager]; ok {
			out = append(out, r)
		}
	}
	return out
}

// CoreLinesWorkload 核心险种加权工作量：客户经理汇总（按加权数降序）与按险种透视表（按总数降序）
func CoreLinesWorkload(records []models.PolicyRecord) ([]models.ManagerWorkload, []models.CoreLinesRow) {
	core := FilterCoreLines(records)
	totals := ComputeWeightedTotals(core)

	rows := make([]models.CoreLinesRow, 0, len(totals))
	index := make(map[string]int, len(totals))
	for _, t := range totals {
		index[t.Manager] = len(rows)
		rows = append(rows, models.CoreLinesRow{
			Manager:           t.Manager,
			TotalPolicies:     t.PolicyCount,
			WeightedTotal:     t.WeightedCount,
			WorkloadReduction: float64(t.PolicyCount) - t.WeightedCount,
			ByType:            make(map[string]int),
		})
	}
	for _, r := range core {
		rows[index[r.AccountManager]].ByType[string(r.Type)]++
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].TotalPolicies > rows[b].TotalPolicies
	})
	return totals, rows
}
