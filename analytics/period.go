package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_workload/models"
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Period 汇总周期
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod 空串默认为 week
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// PeriodStart 周期起点：ISO周的周一零点，或当月1日零点（UTC）
func PeriodStart(t time.Time, p Period) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if p == PeriodMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	// Weekday: Sunday=0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func periodLabel(start time.Time, p Period) string {
	if p == PeriodMonth {
		return start.Format("2006-01")
	}
	return start.Format("Week of Jan 02")
}

// AggregateByPeriod 按周期汇总保费，按时间升序；缺少日期的记录不计入
func AggregateByPeriod(records []models.PolicyRecord, field models.DateField, p Period) ([]models.PeriodPoint, error) {
	if p != PeriodWeek && p != PeriodMonth {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
	}
	type bucket struct {
		start time.Time
		sum   premiumSum
	}
	buckets := make(map[time.Time]*bucket)
	for _, r := range records {
		d := r.Date(field)
		if d == nil {
			continue
		}
		start := PeriodStart(*d, p)
		b, ok := buckets[start]
		if !ok {
			b = &bucket{start: start}
			buckets[start] = b
		}
		b.sum.Add(r.TotalPremium)
	}

	out := make([]models.PeriodPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.PeriodPoint{
			Start:       b.start,
			Label:       periodLabel(b.start, p),
			PolicyCount: b.sum.n,
			Premium:     b.sum.Total(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// 预设时间范围
const (
	RangeNext30Days     = "next_30_days"
	RangeNext60Days     = "next_60_days"
	RangeNext90Days     = "next_90_days"
	RangeCurrentQuarter = "current_quarter"
	RangeNextQuarter    = "next_quarter"
	RangeCurrentYear    = "current_year"
	RangeLast30Days     = "last_30_days"
	RangeCustom         = "custom"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

func quarterStart(year int, quarter int) time.Time {
	return time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// ResolveRange 将预设名称解析为 [from, to]，to 为当日最后一刻
func ResolveRange(name string, today time.Time) (time.Time, time.Time, error) {
	today = startOfDay(today.UTC())
	quarter := (int(today.Month())-1)/3 + 1
	switch name {
	case RangeNext30Days:
		return today, endOfDay(today.AddDate(0, 0, 30)), nil
	case RangeNext60Days:
		return today, endOfDay(today.AddDate(0, 0, 60)), nil
	case RangeNext90Days:
		return today, endOfDay(today.AddDate(0, 0, 90)), nil
	case RangeLast30Days:
		return today.AddDate(0, 0, -30), endOfDay(today), nil
	case RangeCurrentQuarter:
		start := quarterStart(today.Year(), quarter)
		return start, endOfDay(start.AddDate(0, 3, -1)), nil
	case RangeNextQuarter:
		year, next := today.Year(), quarter+1
		if next > 4 {
			year, next = year+1, 1
		}
		start := quarterStart(year, next)
		return start, endOfDay(start.AddDate(0, 3, -1)), nil
	case RangeCurrentYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, endOfDay(time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC)), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown range %q", ErrInvalidRange, name)
}

// CustomRange 自定义范围，起止颠倒时交换
func CustomRange(start, end time.Time) (time.Time, time.Time) {
	if start.After(end) {
		start, end = end, start
	}
	return startOfDay(start.UTC()), endOfDay(end.UTC())
}
