package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_workload/models"
)

// Optional 可能缺失的字段值
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some 构造存在的值
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// OrElse 缺失时返回fallback
func (o Optional[T]) OrElse(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// Lookup 按点分路径读取嵌套字段，如 "NameInsured.Account_Manager__r.Name"。
// 任意一层缺失、为nil或不是map时返回 false。
func Lookup(row models.Row, path string) (interface{}, bool) {
	if row == nil || path == "" {
		return nil, false
	}
	var current interface{} = row
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// LookupString 读取字符串字段，空串视为缺失
func LookupString(row models.Row, path string) Optional[string] {
	v, ok := Lookup(row, path)
	if !ok {
		return Optional[string]{}
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return Optional[string]{}
	}
	return Some(s)
}

// LookupFloat 读取数值字段，数字字符串也会被解析
func LookupFloat(row models.Row, path string) Optional[float64] {
	v, ok := Lookup(row, path)
	if !ok {
		return Optional[float64]{}
	}
	switch n := v.(type) {
	case float64:
		return Some(n)
	case float32:
		return Some(float64(n))
	case int:
		return Some(float64(n))
	case int32:
		return Some(float64(n))
	case int64:
		return Some(float64(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return Optional[float64]{}
		}
		return Some(f)
	}
	return Optional[float64]{}
}

// 数据源中出现过的日期格式
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// LookupTime 读取日期字段，无法解析时视为缺失
func LookupTime(row models.Row, path string) Optional[time.Time] {
	v, ok := Lookup(row, path)
	if !ok {
		return Optional[time.Time]{}
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return Optional[time.Time]{}
		}
		return Some(t.UTC())
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return Some(parsed.UTC())
			}
		}
	}
	return Optional[time.Time]{}
}

// firstString 依次尝试多个路径
func firstString(row models.Row, fallback string, paths ...string) string {
	for _, p := range paths {
		if s := LookupString(row, p); s.Valid {
			return s.Value
		}
	}
	return fallback
}

func optionalTime(o Optional[time.Time]) *time.Time {
	if !o.Valid {
		return nil
	}
	t := o.Value
	return &t
}

// DecodePolicy 将原始记录转换为保单。managers 为客户ID到客户经理的映射，
// 仅在保单自身未带出客户经理时使用，可以为nil。
func DecodePolicy(row models.Row, managers map[string]string) models.PolicyRecord {
	p := models.PolicyRecord{
		ID:             LookupString(row, "Id").OrElse(""),
		Number:         LookupString(row, "Name").OrElse(models.UnknownPolicy),
		Type:           models.PolicyType(LookupString(row, "PolicyType").OrElse(models.NotSpecified)),
		Status:         LookupString(row, "Status").OrElse(models.UnknownStatus),
		EffectiveDate:  optionalTime(LookupTime(row, "EffectiveDate")),
		ExpirationDate: optionalTime(LookupTime(row, "ExpirationDate")),
		AccountID:      LookupString(row, "NameInsuredId").OrElse(""),
		AccountName:    LookupString(row, "NameInsured.Name").OrElse(models.UnknownAccount),
		Producer:       firstString(row, models.UnknownProducer, "Producer.Name", "Producer_2__r.Name"),
		WritingCarrier: LookupString(row, "WritingCarrierAccount.Name").OrElse(models.UnknownCarrier),
	}
	p.Name = firstString(row, p.Number, "PolicyName")

	p.AccountManager = models.NotAssigned
	if m := LookupString(row, "NameInsured.Account_Manager__r.Name"); m.Valid {
		p.AccountManager = m.Value
	} else if name, ok := managers[p.AccountID]; ok && p.AccountID != "" && name != "" {
		p.AccountManager = name
	}

	p.PremiumAmount = LookupFloat(row, "PremiumAmount").OrElse(0)
	p.TaxesSurcharges = LookupFloat(row, "TaxesSurcharges").OrElse(0)
	p.TotalPremium = LookupFloat(row, "Total_Policy_Premium__c").OrElse(p.PremiumAmount + p.TaxesSurcharges)
	return p
}

// DecodePolicies 批量转换，nil记录被跳过
func DecodePolicies(rows []models.Row, managers map[string]string) []models.PolicyRecord {
	out := make([]models.PolicyRecord, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, DecodePolicy(row, managers))
	}
	return out
}
