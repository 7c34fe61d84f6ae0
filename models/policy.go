package models

import "time"

// Row 数据源返回的原始记录，嵌套关联以嵌套map表示，字段可能缺失或为nil
type Row = map[string]interface{}

// PolicyType 保单类型
type PolicyType string

const (
	PolicyTypePersonalAuto   PolicyType = "Personal Auto"
	PolicyTypeCommercialAuto PolicyType = "Commercial Auto"
	PolicyTypeFlood          PolicyType = "Flood"
	PolicyTypeFloodCL        PolicyType = "Flood - CL"
	PolicyTypeFloodPL        PolicyType = "Flood - PL"
	PolicyTypeHomeowners     PolicyType = "Homeowners"
	PolicyTypeUmbrella       PolicyType = "Umbrella"
)

// CorePolicyTypes 核心险种
var CorePolicyTypes = []PolicyType{
	PolicyTypePersonalAuto,
	PolicyTypeCommercialAuto,
	PolicyTypeFlood,
	PolicyTypeFloodCL,
	PolicyTypeFloodPL,
	PolicyTypeHomeowners,
	PolicyTypeUmbrella,
}

// IsCore 是否核心险种
func (t PolicyType) IsCore() bool {
	for _, c := range CorePolicyTypes {
		if c == t {
			return true
		}
	}
	return false
}

// IsFlood 洪水类保单按半单计算工作量
func (t PolicyType) IsFlood() bool {
	return t == PolicyTypeFlood || t == PolicyTypeFloodCL || t == PolicyTypeFloodPL
}

// 缺省值
const (
	NotAssigned     = "Not Assigned"
	UnknownProducer = "Unknown Producer"
	UnknownAccount  = "Unknown Account"
	UnknownCarrier  = "Unknown Carrier"
	UnknownPolicy   = "Unknown Policy"
	UnknownStatus   = "Unknown"
	NotSpecified    = "Not Specified"
)

// PolicyStatus 保单状态
const (
	PolicyStatusActive = "Active"
)

// WorkloadStatuses 计入客户经理工作量的保单状态
var WorkloadStatuses = []string{
	"Active", "Renewing", "Pending Cancellation", "Non-Renewal", "Reinstating", "Reinstated",
}

// BusinessTypeNew 新业务
const BusinessTypeNew = "New Business"

// PolicyRecord 保单记录
type PolicyRecord struct {
	ID              string     `json:"id"`
	Number          string     `json:"number"`
	Name            string     `json:"name"`
	Type            PolicyType `json:"type"`
	Status          string     `json:"status"`
	EffectiveDate   *time.Time `json:"effectiveDate,omitempty"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	AccountID       string     `json:"accountId"`
	AccountName     string     `json:"accountName"`
	AccountManager  string     `json:"accountManager"`
	Producer        string     `json:"producer"`
	WritingCarrier  string     `json:"writingCarrier"`
	PremiumAmount   float64    `json:"premiumAmount"`
	TaxesSurcharges float64    `json:"taxesSurcharges"`
	TotalPremium    float64    `json:"totalPremium"`
}

// DateField 日期字段选择
type DateField string

const (
	DateFieldEffective  DateField = "EffectiveDate"
	DateFieldExpiration DateField = "ExpirationDate"
)

// Date 返回指定日期字段，缺失时返回nil
func (p PolicyRecord) Date(field DateField) *time.Time {
	switch field {
	case DateFieldEffective:
		return p.EffectiveDate
	case DateFieldExpiration:
		return p.ExpirationDate
	}
	return nil
}

// PolicyFilter 保单查询条件
type PolicyFilter struct {
	From          time.Time
	To            time.Time
	DateField     DateField
	Statuses      []string
	BusinessType  string
	ProducerIDs   []string
	ProducerNames []string
}
