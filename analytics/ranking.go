package analytics

import (
	"sort"

	"github.com/BerniceZTT/crm_workload/models"
)

// Ranked 排名结果，Rank 从1开始，Tier 为分层下标
type Ranked[T any] struct {
	Item T
	Rank int
	Tier int
}

// 浮点切分点比较容差，保证 0.3*10 这类乘积落在第3名
const tierEpsilon = 1e-9

// RankAndTier 按 key 降序稳定排序并分层。名次 r 落在第一个满足 r <= cut*N 的层，
// 都不满足时落在最后一层（下标 len(cuts)）。
func RankAndTier[T any](entities []T, key func(T) float64, cuts []float64) []Ranked[T] {
	out := make([]Ranked[T], len(entities))
	for i, e := range entities {
		out[i] = Ranked[T]{Item: e}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return key(out[a].Item) > key(out[b].Item)
	})

	n := float64(len(out))
	for i := range out {
		out[i].Rank = i + 1
		out[i].Tier = tierOf(out[i].Rank, n, cuts)
	}
	return out
}

func tierOf(rank int, n float64, cuts []float64) int {
	if n == 0 {
		return 0
	}
	for i, c := range cuts {
		if float64(rank) <= c*n+tierEpsilon {
			return i
		}
	}
	return len(cuts)
}

// TierSpec 分层切分点及各层名称，len(Labels) == len(Cuts)+1
type TierSpec struct {
	Cuts   []float64
	Labels []string
}

// Label 越界时返回最后一层名称
func (s TierSpec) Label(tier int) string {
	if len(s.Labels) == 0 {
		return ""
	}
	if tier < 0 || tier >= len(s.Labels) {
		return s.Labels[len(s.Labels)-1]
	}
	return s.Labels[tier]
}

var (
	// CarrierTiers 前30% / 中间30% / 后40%
	CarrierTiers = TierSpec{
		Cuts:   []float64{0.3, 0.6},
		Labels: []string{"🥇 Top Performer", "🥈 Average Performer", "🥉 Needs Improvement"},
	}
	// WritingCarrierTiers 按保费规模
	WritingCarrierTiers = TierSpec{
		Cuts:   []float64{0.3, 0.6},
		Labels: []string{"🥇 Top Volume", "🥈 Mid Volume", "🥉 Lower Volume"},
	}
	// ProducerTiers 20 / 20 / 20 / 40
	ProducerTiers = TierSpec{
		Cuts:   []float64{0.2, 0.4, 0.6},
		Labels: []string{"🥇 Top Producer", "🥈 High Producer", "🥉 Average Producer", "📈 Developing Producer"},
	}
)

type producerAgg struct {
	name    string
	premium premiumSum
	types   map[models.PolicyType]struct{}
}

// ProducerPerformance 业务员业绩排名，按总保费降序
func ProducerPerformance(records []models.PolicyRecord) []models.ProducerStat {
	index := make(map[string]int)
	aggs := make([]*producerAgg, 0)
	for _, r := range records {
		i, ok := index[r.Producer]
		if !ok {
			i = len(aggs)
			index[r.Producer] = i
			aggs = append(aggs, &producerAgg{name: r.Producer, types: make(map[models.PolicyType]struct{})})
		}
		aggs[i].premium.Add(r.TotalPremium)
		aggs[i].types[r.Type] = struct{}{}
	}

	ranked := RankAndTier(aggs, func(a *producerAgg) float64 { return a.premium.Total() }, ProducerTiers.Cuts)
	out := make([]models.ProducerStat, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, models.ProducerStat{
			RankedEntity: models.RankedEntity{Rank: r.Rank, Tier: ProducerTiers.Label(r.Tier)},
			Producer:     r.Item.name,
			Policies:     r.Item.premium.n,
			TotalPremium: r.Item.premium.Total(),
			AvgPremium:   r.Item.premium.Average(),
			PolicyTypes:  len(r.Item.types),
		})
	}
	return out
}

// CarrierCloseRates 续保承保商成交率排名
func CarrierCloseRates(counts []models.CarrierStageCount) []models.CarrierStat {
	index := make(map[string]int)
	stats := make([]models.CarrierStat, 0)
	for _, c := range counts {
		name := c.CarrierName
		if name == "" {
			name = models.UnknownCarrier
		}
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, models.CarrierStat{Carrier: name})
		}
		stats[i].TotalQuotes += c.Count
		if c.Stage == models.StageClosedWon {
			stats[i].WonQuotes += c.Count
		}
	}
	for i := range stats {
		stats[i].CloseRate = percentage(float64(stats[i].WonQuotes), float64(stats[i].TotalQuotes))
	}

	ranked := RankAndTier(stats, func(s models.CarrierStat) float64 { return s.CloseRate }, CarrierTiers.Cuts)
	out := make([]models.CarrierStat, 0, len(ranked))
	for _, r := range ranked {
		s := r.Item
		s.Rank = r.Rank
		s.Tier = CarrierTiers.Label(r.Tier)
		out = append(out, s)
	}
	return out
}

// WritingCarrierSummary 出单承保商按总保费排名
func WritingCarrierSummary(records []models.PolicyRecord) []models.WritingCarrierStat {
	index := make(map[string]int)
	names := make([]string, 0)
	sums := make([]premiumSum, 0)
	for _, r := range records {
		i, ok := index[r.WritingCarrier]
		if !ok {
			i = len(names)
			index[r.WritingCarrier] = i
			names = append(names, r.WritingCarrier)
			sums = append(sums, premiumSum{})
		}
		sums[i].Add(r.TotalPremium)
	}

	stats := make([]models.WritingCarrierStat, len(names))
	for i, name := range names {
		stats[i] = models.WritingCarrierStat{
			Carrier:      name,
			PolicyCount:  sums[i].n,
			TotalPremium: sums[i].Total(),
			AvgPremium:   sums[i].Average(),
		}
	}
	ranked := RankAndTier(stats, func(s models.WritingCarrierStat) float64 { return s.TotalPremium }, WritingCarrierTiers.Cuts)
	out := make([]models.WritingCarrierStat, 0, len(ranked))
	for _, r := range ranked {
		s := r.Item
		s.Rank = r.Rank
		s.Tier = WritingCarrierTiers.Label(r.Tier)
		out = append(out, s)
	}
	return out
}
