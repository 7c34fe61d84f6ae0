package models

import "time"

// 图表数据项
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WorkloadCategory 工作量等级
type WorkloadCategory string

const (
	WorkloadExtreme  WorkloadCategory = "extreme"
	WorkloadVeryHigh WorkloadCategory = "very_high"
	WorkloadHigh     WorkloadCategory = "high"
	WorkloadOptimal  WorkloadCategory = "optimal"
	WorkloadLow      WorkloadCategory = "low"
)

// 客户经理工作量
type ManagerWorkload struct {
	Manager       string  `json:"manager"`
	PolicyCount   int     `json:"policyCount"`
	WeightedCount float64 `json:"weightedCount"`
}

// 工作量分桶
type WorkloadBucket struct {
	Manager        string           `json:"manager"`
	PolicyCount    int              `json:"policyCount"`
	WeightedCount  float64          `json:"weightedCount"`
	Category       WorkloadCategory `json:"category"`
	CategoryLabel  string           `json:"categoryLabel"`
	CategoryColor  string           `json:"categoryColor"`
	CategoryIcon   string           `json:"categoryIcon"`
	TopPolicyTypes []string         `json:"topPolicyTypes"`
}

// 工作量统计
type WorkloadStats struct {
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
}

// 保单组合概览
type PortfolioSummary struct {
	TotalPolicies   int `json:"totalPolicies"`
	ActivePolicies  int `json:"activePolicies"`
	UniqueAccounts  int `json:"uniqueAccounts"`
	AccountManagers int `json:"accountManagers"`
}

// 客户经理 x 险种交叉表
type TypeMatrix struct {
	Managers []string `json:"managers"`
	Types    []string `json:"types"`
	Counts   [][]int  `json:"counts"` // Counts[i][j] 为 Managers[i] 在 Types[j] 下的保单数
}

// 客户经理明细
type ManagerDetail struct {
	Manager            string     `json:"manager"`
	TotalPolicies      int        `json:"totalPolicies"`
	PolicyTypes        int        `json:"policyTypes"`
	UniqueAccounts     int        `json:"uniqueAccounts"`
	EarliestExpiration *time.Time `json:"earliestExpiration,omitempty"`
	LatestExpiration   *time.Time `json:"latestExpiration,omitempty"`
}

// 到期时间线
type TimelinePoint struct {
	Month            string `json:"month"` // YYYY-MM
	PoliciesExpiring int    `json:"policiesExpiring"`
	ManagersAffected int    `json:"managersAffected"`
}

// 核心险种工作量
type CoreLinesRow struct {
	Manager           string         `json:"manager"`
	TotalPolicies     int            `json:"totalPolicies"`
	WeightedTotal     float64        `json:"weightedTotal"`
	WorkloadReduction float64        `json:"workloadReduction"`
	ByType            map[string]int `json:"byType"`
}

// 周期汇总点
type PeriodPoint struct {
	Start       time.Time `json:"start"`
	Label       string    `json:"label"`
	PolicyCount int       `json:"policyCount"`
	Premium     float64   `json:"premium"`
}

// 分层排名项
type RankedEntity struct {
	Rank int    `json:"rank"`
	Tier string `json:"tier"`
}

// 业务员业绩
type ProducerStat struct {
	RankedEntity
	Producer     string  `json:"producer"`
	Policies     int     `json:"policies"`
	TotalPremium float64 `json:"totalPremium"`
	AvgPremium   float64 `json:"avgPremium"`
	PolicyTypes  int     `json:"policyTypes"`
}

// 续保承保商成交率
type CarrierStat struct {
	RankedEntity
	Carrier     string  `json:"carrier"`
	TotalQuotes int     `json:"totalQuotes"`
	WonQuotes   int     `json:"wonQuotes"`
	CloseRate   float64 `json:"closeRate"` // 百分比
}

// 出单承保商业绩
type WritingCarrierStat struct {
	RankedEntity
	Carrier      string  `json:"carrier"`
	PolicyCount  int     `json:"policyCount"`
	TotalPremium float64 `json:"totalPremium"`
	AvgPremium   float64 `json:"avgPremium"`
}

// 商机阶段占比
type StageShare struct {
	Stage      string        `json:"stage"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
	Category   StageCategory `json:"category"`
}

// 转介绍人统计
type ReferrerCount struct {
	Referrer    string `json:"referrer"`
	PolicyCount int    `json:"policyCount"`
}

// 保费汇总
type PremiumSummary struct {
	TotalPremium float64 `json:"totalPremium"`
	PolicyCount  int     `json:"policyCount"`
	AvgPremium   float64 `json:"avgPremium"`
}

// 险种保费及占比
type TypePremium struct {
	PolicyType string  `json:"policyType"`
	Premium    float64 `json:"premium"`
	Share      float64 `json:"share"` // 百分比
}

// 按险种的周趋势
type TypeTrend struct {
	PolicyType string        `json:"policyType"`
	Points     []PeriodPoint `json:"points"`
}

// 业务员详情
type ProducerDetail struct {
	Producer         string          `json:"producer"`
	Summary          PremiumSummary  `json:"summary"`
	PolicyTypes      []ChartDataItem `json:"policyTypes"`
	PremiumByType    []TypePremium   `json:"premiumByType"`
	TopSpecialties   []TypePremium   `json:"topSpecialties"`
	RecentPolicies   []PolicyRecord  `json:"recentPolicies"`
	WeeklyPremium    []PeriodPoint   `json:"weeklyPremium"`
	Trends           []TypeTrend     `json:"trends"`
	LeastActiveTypes []ChartDataItem `json:"leastActiveTypes"`
}

// 数据看板响应结构
type WorkloadOverviewResponse struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Summary      PortfolioSummary `json:"summary"`
	Buckets      []WorkloadBucket `json:"buckets"`
	Distribution []ChartDataItem  `json:"distribution"`
	Stats        WorkloadStats    `json:"stats"`
	Diagnostics  []string         `json:"diagnostics,omitempty"`
}

type PolicyTypeResponse struct {
	Counts      []ChartDataItem `json:"counts"`
	Matrix      TypeMatrix      `json:"matrix"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type ManagerDetailsResponse struct {
	Managers    []string        `json:"managers"`
	Details     []ManagerDetail `json:"details"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type TimelineResponse struct {
	Timeline    []TimelinePoint `json:"timeline"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type CoreLinesResponse struct {
	Managers    []ManagerWorkload `json:"managers"`
	Rows        []CoreLinesRow    `json:"rows"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
}

type ProducerPerformanceResponse struct {
	Producers   []ProducerStat  `json:"producers"`
	PolicyTypes []ChartDataItem `json:"policyTypes"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type ProducerDetailResponse struct {
	Detail      *ProducerDetail `json:"detail"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type CarrierPerformanceResponse struct {
	Carriers    []CarrierStat `json:"carriers"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

type WritingCarrierResponse struct {
	Carriers    []WritingCarrierStat `json:"carriers"`
	Diagnostics []string             `json:"diagnostics,omitempty"`
}

type StageDistributionResponse struct {
	Stages      []StageShare `json:"stages"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
}

type PremiumTrendResponse struct {
	Period      string        `json:"period"`
	Points      []PeriodPoint `json:"points"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

// 总览页
type OverviewResponse struct {
	NewQuoteRequests int64           `json:"newQuoteRequests"`
	TopReferrer      *ReferrerCount  `json:"topReferrer,omitempty"`
	TopCarrier       *CarrierStat    `json:"topCarrier,omitempty"`
	Premium          PremiumSummary  `json:"premium"`
	WeeklyPremium    []PeriodPoint   `json:"weeklyPremium"`
	Stages           []StageShare    `json:"stages"`
	Referrers        []ReferrerCount `json:"referrers"`
	Diagnostics      []string        `json:"diagnostics,omitempty"`
}
