package analytics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/models"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
	return &t
}

func effective(at *time.Time, premium float64) models.PolicyRecord {
	return models.PolicyRecord{EffectiveDate: at, TotalPremium: premium}
}

func TestParsePeriod(t *testing.T) {
	Convey("Periods parse case-insensitively with week as default", t, func() {
		p, err := analytics.ParsePeriod("")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, analytics.PeriodWeek)

		p, err = analytics.ParsePeriod(" MONTH ")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, analytics.PeriodMonth)

		_, err = analytics.ParsePeriod("day")
		So(errors.Is(err, analytics.ErrInvalidPeriod), ShouldBeTrue)
	})
}

func TestPeriodStart(t *testing.T) {
	Convey("Weeks start on Monday", t, func() {
		monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		So(analytics.PeriodStart(*day(2024, 1, 1), analytics.PeriodWeek), ShouldEqual, monday)
		So(analytics.PeriodStart(*day(2024, 1, 3), analytics.PeriodWeek), ShouldEqual, monday)
		So(analytics.PeriodStart(*day(2024, 1, 7), analytics.PeriodWeek), ShouldEqual, monday)
		So(analytics.PeriodStart(*day(2024, 1, 8), analytics.PeriodWeek), ShouldEqual, monday.AddDate(0, 0, 7))
	})

	Convey("Months start on the first", t, func() {
		So(analytics.PeriodStart(*day(2024, 2, 29), analytics.PeriodMonth), ShouldEqual,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	})
}

func TestAggregateByPeriod(t *testing.T) {
	Convey("Given policies around the first week of 2024", t, func() {
		records := []models.PolicyRecord{
			effective(day(2024, 1, 8), 25),
			effective(day(2024, 1, 1), 100),
			effective(nil, 999),
			effective(day(2024, 1, 7), 50.25),
			effective(day(2024, 2, 29), 10),
		}

		Convey("Weekly buckets are keyed by Monday and sorted", func() {
			points, err := analytics.AggregateByPeriod(records, models.DateFieldEffective, analytics.PeriodWeek)
			So(err, ShouldBeNil)
			So(points, ShouldHaveLength, 3)
			So(points[0].Label, ShouldEqual, "Week of Jan 01")
			So(points[0].PolicyCount, ShouldEqual, 2)
			So(points[0].Premium, ShouldEqual, 150.25)
			So(points[1].Label, ShouldEqual, "Week of Jan 08")
			So(points[1].Premium, ShouldEqual, 25.0)
			So(points[2].Start, ShouldEqual, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC))
		})

		Convey("Monthly buckets use the calendar month", func() {
			points, err := analytics.AggregateByPeriod(records, models.DateFieldEffective, analytics.PeriodMonth)
			So(err, ShouldBeNil)
			So(points, ShouldHaveLength, 2)
			So(points[0].Label, ShouldEqual, "2024-01")
			So(points[0].PolicyCount, ShouldEqual, 3)
			So(points[0].Premium, ShouldEqual, 175.25)
			So(points[1].Label, ShouldEqual, "2024-02")
		})

		Convey("Records missing the chosen date are excluded", func() {
			points, err := analytics.AggregateByPeriod(records, models.DateFieldExpiration, analytics.PeriodWeek)
			So(err, ShouldBeNil)
			So(points, ShouldBeEmpty)
		})

		Convey("Unknown periods are rejected", func() {
			_, err := analytics.AggregateByPeriod(records, models.DateFieldEffective, analytics.Period("day"))
			So(errors.Is(err, analytics.ErrInvalidPeriod), ShouldBeTrue)
		})
	})
}

func TestResolveRange(t *testing.T) {
	endOf := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 999999999, time.UTC)
	}
	today := time.Date(2024, 5, 15, 14, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	Convey("Rolling windows are anchored at today", t, func() {
		from, to, err := analytics.ResolveRange(analytics.RangeNext30Days, today)
		So(err, ShouldBeNil)
		So(from, ShouldEqual, midnight)
		So(to, ShouldEqual, endOf(2024, 6, 14))

		from, to, err = analytics.ResolveRange(analytics.RangeLast30Days, today)
		So(err, ShouldBeNil)
		So(from, ShouldEqual, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
		So(to, ShouldEqual, endOf(2024, 5, 15))
	})

	Convey("Quarters cover three calendar months", t, func() {
		from, to, err := analytics.ResolveRange(analytics.RangeCurrentQuarter, today)
		So(err, ShouldBeNil)
		So(from, ShouldEqual, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
		So(to, ShouldEqual, endOf(2024, 6, 30))

		from, to, err = analytics.ResolveRange(analytics.RangeNextQuarter, time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC))
		So(err, ShouldBeNil)
		So(from, ShouldEqual, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		So(to, ShouldEqual, endOf(2025, 3, 31))
	})

	Convey("The current year ends on Dec 31", t, func() {
		from, to, err := analytics.ResolveRange(analytics.RangeCurrentYear, today)
		So(err, ShouldBeNil)
		So(from, ShouldEqual, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		So(to, ShouldEqual, endOf(2024, 12, 31))
	})

	Convey("Unknown names are rejected", t, func() {
		_, _, err := analytics.ResolveRange("next_decade", today)
		So(errors.Is(err, analytics.ErrInvalidRange), ShouldBeTrue)
	})

	Convey("Custom ranges swap reversed bounds", t, func() {
		from, to := analytics.CustomRange(*day(2024, 3, 10), *day(2024, 3, 1))
		So(from, ShouldEqual, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		So(to, ShouldEqual, endOf(2024, 3, 10))
	})
}
