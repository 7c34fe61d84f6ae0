package analytics

import (
	"sort"
	"time"

	"github.com/BerniceZTT/crm_workload/models"
)

// countByKey 计数并按数量降序，同数量保持首次出现顺序
func countByKey(keys []string) []models.ChartDataItem {
	index := make(map[string]int)
	out := make([]models.ChartDataItem, 0)
	for _, k := range keys {
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.ChartDataItem{Name: k})
		}
		out[i].Value++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })
	return out
}

func topNames(items []models.ChartDataItem, n int) []string {
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.Name)
	}
	return out
}

// PolicyTypeCounts 各险种保单数，降序
func PolicyTypeCounts(records []models.PolicyRecord) []models.ChartDataItem {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = string(r.Type)
	}
	return countByKey(keys)
}

// ManagerTypeMatrix 保单最多的 topManagers 个客户经理 x 保单最多的 topTypes 个险种
func ManagerTypeMatrix(records []models.PolicyRecord, topManagers, topTypes int) models.TypeMatrix {
	managerKeys := make([]string, len(records))
	for i, r := range records {
		managerKeys[i] = r.AccountManager
	}
	m := models.TypeMatrix{
		Managers: topNames(countByKey(managerKeys), topManagers),
		Types:    topNames(PolicyTypeCounts(records), topTypes),
	}

	mi := make(map[string]int, len(m.Managers))
	for i, name := range m.Managers {
		mi[name] = i
	}
	ti := make(map[string]int, len(m.Types))
	for i, t := range m.Types {
		ti[t] = i
	}
	m.Counts = make([][]int, len(m.Managers))
	for i := range m.Counts {
		m.Counts[i] = make([]int, len(m.Types))
	}
	for _, r := range records {
		i, ok := mi[r.AccountManager]
		if !ok {
			continue
		}
		if j, ok := ti[string(r.Type)]; ok {
			m.Counts[i][j]++
		}
	}
	return m
}

// ManagerDetails 指定客户经理的明细，按名称排序；无保单的客户经理不出现
func ManagerDetails(records []models.PolicyRecord, managers []string) []models.ManagerDetail {
	type agg struct {
		detail   models.ManagerDetail
		types    map[models.PolicyType]struct{}
		accounts map[string]struct{}
	}
	aggs := make(map[string]*agg)
	for _, r := range FilterManagers(records, managers) {
		a, ok := aggs[r.AccountManager]
		if !ok {
			a = &agg{
				detail:   models.ManagerDetail{Manager: r.AccountManager},
				types:    make(map[models.PolicyType]struct{}),
				accounts: make(map[string]struct{}),
			}
			aggs[r.AccountManager] = a
		}
		a.detail.TotalPolicies++
		a.types[r.Type] = struct{}{}
		if r.AccountID != "" {
			a.accounts[r.AccountID] = struct{}{}
		}
		if d := r.ExpirationDate; d != nil {
			if a.detail.EarliestExpiration == nil || d.Before(*a.detail.EarliestExpiration) {
				a.detail.EarliestExpiration = d
			}
			if a.detail.LatestExpiration == nil || d.After(*a.detail.LatestExpiration) {
				a.detail.LatestExpiration = d
			}
		}
	}

	out := make([]models.ManagerDetail, 0, len(aggs))
	for _, a := range aggs {
		a.detail.PolicyTypes = len(a.types)
		a.detail.UniqueAccounts = len(a.accounts)
		out = append(out, a.detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Manager < out[j].Manager })
	return out
}

// ManagerNames 出现过的客户经理，按名称排序
func ManagerNames(records []models.PolicyRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.AccountManager]; !ok {
			seen[r.AccountManager] = struct{}{}
			out = append(out, r.AccountManager)
		}
	}
	sort.Strings(out)
	return out
}

// ExpirationTimeline 按到期月份统计保单数与涉及的客户经理数，月份升序
func ExpirationTimeline(records []models.PolicyRecord) []models.TimelinePoint {
	type agg struct {
		count    int
		managers map[string]struct{}
	}
	months := make(map[string]*agg)
	for _, r := range records {
		if r.ExpirationDate == nil {
			continue
		}
		key := r.ExpirationDate.UTC().Format("2006-01")
		a, ok := months[key]
		if !ok {
			a = &agg{managers: make(map[string]struct{})}
			months[key] = a
		}
		a.count++
		a.managers[r.AccountManager] = struct{}{}
	}

	out := make([]models.TimelinePoint, 0, len(months))
	for month, a := range months {
		out = append(out, models.TimelinePoint{
			Month:            month,
			PoliciesExpiring: a.count,
			ManagersAffected: len(a.managers),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// StageDistribution 商机阶段占比，保持输入顺序
func StageDistribution(counts []models.StageCount) []models.StageShare {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	out := make([]models.StageShare, 0, len(counts))
	for _, c := range counts {
		category, ok := models.StageCategories[c.Stage]
		if !ok {
			category = models.StageCategoryUnknown
		}
		out = append(out, models.StageShare{
			Stage:      c.Stage,
			Count:      c.Count,
			Percentage: percentage(float64(c.Count), float64(total)),
			Category:   category,
		})
	}
	return out
}

// TopReferrers 转介绍客户数最多的前 n 位转介绍人
func TopReferrers(referrals []models.Referral, n int) []models.ReferrerCount {
	keys := make([]string, 0, len(referrals))
	for _, r := range referrals {
		if r.ReferrerName != "" {
			keys = append(keys, r.ReferrerName)
		}
	}
	counts := countByKey(keys)
	if n >= 0 && n < len(counts) {
		counts = counts[:n]
	}
	out := make([]models.ReferrerCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, models.ReferrerCount{Referrer: c.Name, PolicyCount: c.Value})
	}
	return out
}

// PremiumSummaryOf 保费合计、保单数与均值
func PremiumSummaryOf(records []models.PolicyRecord) models.PremiumSummary {
	var s premiumSum
	for _, r := range records {
		s.Add(r.TotalPremium)
	}
	return models.PremiumSummary{
		TotalPremium: s.Total(),
		PolicyCount:  s.n,
		AvgPremium:   s.Average(),
	}
}

// 业务员详情中的各列表长度
const (
	recentPolicyLimit = 10
	specialtyLimit    = 5
	trendTypeLimit    = 5
	leastActiveLimit  = 5
)

// BuildProducerDetail 单个业务员的详情，无保单时返回nil
func BuildProducerDetail(records []models.PolicyRecord, producer string) *models.ProducerDetail {
	mine := make([]models.PolicyRecord, 0)
	for _, r := range records {
		if r.Producer == producer {
			mine = append(mine, r)
		}
	}
	if len(mine) == 0 {
		return nil
	}

	d := &models.ProducerDetail{
		Producer:    producer,
		Summary:     PremiumSummaryOf(mine),
		PolicyTypes: PolicyTypeCounts(mine),
	}
	d.PremiumByType = premiumByType(mine, d.Summary.TotalPremium)
	d.TopSpecialties = d.PremiumByType[:min(specialtyLimit, len(d.PremiumByType))]
	d.RecentPolicies = recentPolicies(mine, recentPolicyLimit)
	// 周期参数为常量，不会出错
	d.WeeklyPremium, _ = AggregateByPeriod(mine, models.DateFieldEffective, PeriodWeek)

	d.Trends = make([]models.TypeTrend, 0, trendTypeLimit)
	for _, t := range topNames(d.PolicyTypes, trendTypeLimit) {
		ofType := make([]models.PolicyRecord, 0)
		for _, r := range mine {
			if string(r.Type) == t {
				ofType = append(ofType, r)
			}
		}
		points, _ := AggregateByPeriod(ofType, models.DateFieldEffective, PeriodWeek)
		d.Trends = append(d.Trends, models.TypeTrend{PolicyType: t, Points: points})
	}

	start := len(d.PolicyTypes) - leastActiveLimit
	if start < 0 {
		start = 0
	}
	d.LeastActiveTypes = d.PolicyTypes[start:]
	return d
}

func premiumByType(records []models.PolicyRecord, total float64) []models.TypePremium {
	index := make(map[models.PolicyType]int)
	types := make([]models.PolicyType, 0)
	sums := make([]premiumSum, 0)
	for _, r := range records {
		i, ok := index[r.Type]
		if !ok {
			i = len(types)
			index[r.Type] = i
			types = append(types, r.Type)
			sums = append(sums, premiumSum{})
		}
		sums[i].Add(r.TotalPremium)
	}
	out := make([]models.TypePremium, len(types))
	for i, t := range types {
		p := sums[i].Total()
		out[i] = models.TypePremium{PolicyType: string(t), Premium: p, Share: percentage(p, total)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Premium > out[b].Premium })
	return out
}

// recentPolicies 生效日最新的 n 张保单，无生效日的排在最后
func recentPolicies(records []models.PolicyRecord, n int) []models.PolicyRecord {
	sorted := make([]models.PolicyRecord, len(records))
	copy(sorted, records)
	at := func(r models.PolicyRecord) time.Time {
		if r.EffectiveDate == nil {
			return time.Time{}
		}
		return *r.EffectiveDate
	}
	sort.SliceStable(sorted, func(i, j int) bool { return at(sorted[i]).After(at(sorted[j])) })
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
