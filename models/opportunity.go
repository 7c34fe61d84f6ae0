package models

// StageCategory 商机阶段分类
type StageCategory string

const (
	StageCategoryOpen    StageCategory = "Open"
	StageCategoryWon     StageCategory = "Won"
	StageCategoryLost    StageCategory = "Lost"
	StageCategoryUnknown StageCategory = "Unknown"
)

// StageClosedWon 成交阶段
const StageClosedWon = "Closed Won"

// StageCategories 商机阶段 -> 分类
var StageCategories = map[string]StageCategory{
	"Prospect":             StageCategoryOpen,
	"Qualification":        StageCategoryOpen,
	"Needs Analysis":       StageCategoryOpen,
	"Value Proposition":    StageCategoryOpen,
	"Id. Decision Makers":  StageCategoryOpen,
	"Proposal/Price Quote": StageCategoryOpen,
	"Negotiation/Review":   StageCategoryOpen,
	StageClosedWon:         StageCategoryWon,
	"Closed Lost":          StageCategoryLost,
}

// NewBusinessQuoteTypes 计入新报价请求的商机类型
var NewBusinessQuoteTypes = []string{
	"Personal Lines - New Business",
	"Commercial Lines - New Business",
}

// ReferralSources 视为外部转介绍的客户来源
var ReferralSources = []string{
	"Boat Dealer", "Employee Referral", "Existing Client",
	"Financial Advisor / Estate Planner", "Friend or Relative",
	"Influencer", "Inspector", "Lender", "MM Lead", "Marina",
	"Organically Prospected", "Other", "Other Insurance Agent", "Realtor",
}

// StageCount 商机阶段计数
type StageCount struct {
	Stage string `json:"stage" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// CarrierStageCount 续保承保商在某阶段的商机数
type CarrierStageCount struct {
	CarrierID   string `json:"carrierId"`
	CarrierName string `json:"carrierName"`
	Stage       string `json:"stage"`
	Count       int    `json:"count"`
}

// Referral 客户的转介绍人
type Referral struct {
	AccountID    string `json:"accountId"`
	ReferrerName string `json:"referrerName"`
}

// Producer 业务员
type Producer struct {
	ID   string `json:"id" bson:"Id"`
	Name string `json:"name" bson:"Name"`
}
