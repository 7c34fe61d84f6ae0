package analytics_test

import (
	"testing"
	"time"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/models"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicyTypeBreakdown(t *testing.T) {
	Convey("Given policies across managers and types", t, func() {
		records := append(repeat(3, policy("A", models.PolicyTypeHomeowners)),
			policy("A", models.PolicyTypeUmbrella),
			policy("B", models.PolicyTypeHomeowners),
			policy("C", models.PolicyTypeFlood),
			policy("C", models.PolicyTypeFlood),
		)

		Convey("Type counts are sorted descending", func() {
			So(analytics.PolicyTypeCounts(records), ShouldResemble, []models.ChartDataItem{
				{Name: "Homeowners", Value: 4},
				{Name: "Flood", Value: 2},
				{Name: "Umbrella", Value: 1},
			})
		})

		Convey("The matrix is limited to the top managers and types", func() {
			m := analytics.ManagerTypeMatrix(records, 2, 2)
			So(m.Managers, ShouldResemble, []string{"A", "C"})
			So(m.Types, ShouldResemble, []string{"Homeowners", "Flood"})
			So(m.Counts, ShouldResemble, [][]int{{3, 0}, {0, 2}})
		})

		Convey("An empty table gives an empty matrix", func() {
			m := analytics.ManagerTypeMatrix(nil, 10, 8)
			So(m.Managers, ShouldBeEmpty)
			So(m.Counts, ShouldBeEmpty)
		})
	})
}

func TestManagerDetails(t *testing.T) {
	Convey("Given policies with expiration dates", t, func() {
		records := []models.PolicyRecord{
			{AccountManager: "Zed", AccountID: "1", Type: models.PolicyTypeFlood, ExpirationDate: day(2024, 9, 1)},
			{AccountManager: "Amy", AccountID: "2", Type: models.PolicyTypeFlood, ExpirationDate: day(2024, 7, 1)},
			{AccountManager: "Amy", AccountID: "2", Type: models.PolicyTypeUmbrella, ExpirationDate: day(2024, 3, 1)},
			{AccountManager: "Amy", AccountID: "3", Type: models.PolicyTypeUmbrella},
			{AccountManager: "Bo", AccountID: "4", Type: models.PolicyTypeFlood},
		}

		Convey("Only the selected managers appear, sorted by name", func() {
			details := analytics.ManagerDetails(records, []string{"Zed", "Amy", "Nobody"})
			So(details, ShouldHaveLength, 2)
			So(details[0].Manager, ShouldEqual, "Amy")
			So(details[0].TotalPolicies, ShouldEqual, 3)
			So(details[0].PolicyTypes, ShouldEqual, 2)
			So(details[0].UniqueAccounts, ShouldEqual, 2)
			So(*details[0].EarliestExpiration, ShouldEqual, *day(2024, 3, 1))
			So(*details[0].LatestExpiration, ShouldEqual, *day(2024, 7, 1))
			So(details[1].Manager, ShouldEqual, "Zed")
		})

		Convey("Manager names are unique and sorted", func() {
			So(analytics.ManagerNames(records), ShouldResemble, []string{"Amy", "Bo", "Zed"})
		})

		Convey("The timeline groups by expiration month", func() {
			So(analytics.ExpirationTimeline(records), ShouldResemble, []models.TimelinePoint{
				{Month: "2024-03", PoliciesExpiring: 1, ManagersAffected: 1},
				{Month: "2024-07", PoliciesExpiring: 1, ManagersAffected: 1},
				{Month: "2024-09", PoliciesExpiring: 1, ManagersAffected: 1},
			})
		})
	})
}

func TestStageDistribution(t *testing.T) {
	Convey("Given stage counts", t, func() {
		shares := analytics.StageDistribution([]models.StageCount{
			{Stage: "Prospect", Count: 2},
			{Stage: models.StageClosedWon, Count: 1},
			{Stage: "Mystery", Count: 1},
		})
		So(shares[0].Percentage, ShouldEqual, 50.0)
		So(shares[0].Category, ShouldEqual, models.StageCategoryOpen)
		So(shares[1].Category, ShouldEqual, models.StageCategoryWon)
		So(shares[2].Category, ShouldEqual, models.StageCategoryUnknown)
		So(shares[2].Percentage, ShouldEqual, 25.0)
	})

	Convey("Zero totals do not divide", t, func() {
		shares := analytics.StageDistribution([]models.StageCount{{Stage: "Prospect"}})
		So(shares[0].Percentage, ShouldEqual, 0.0)
	})
}

func TestTopReferrers(t *testing.T) {
	Convey("Given referrals", t, func() {
		referrals := []models.Referral{
			{AccountID: "1", ReferrerName: "Realtor Rae"},
			{AccountID: "2", ReferrerName: "Lender Lou"},
			{AccountID: "3", ReferrerName: "Lender Lou"},
			{AccountID: "4", ReferrerName: ""},
		}
		So(analytics.TopReferrers(referrals, 1), ShouldResemble, []models.ReferrerCount{
			{Referrer: "Lender Lou", PolicyCount: 2},
		})
		So(analytics.TopReferrers(referrals, 10), ShouldHaveLength, 2)
		So(analytics.TopReferrers(nil, 10), ShouldBeEmpty)
	})
}

func TestBuildProducerDetail(t *testing.T) {
	Convey("Given one producer's policies", t, func() {
		records := []models.PolicyRecord{
			{Producer: "Pat", Type: models.PolicyTypeHomeowners, TotalPremium: 600, EffectiveDate: day(2024, 1, 2)},
			{Producer: "Pat", Type: models.PolicyTypeHomeowners, TotalPremium: 150, EffectiveDate: day(2024, 1, 9)},
			{Producer: "Pat", Type: models.PolicyTypeFlood, TotalPremium: 250, EffectiveDate: day(2024, 1, 3)},
			{Producer: "Sam", Type: models.PolicyTypeFlood, TotalPremium: 5000, EffectiveDate: day(2024, 1, 3)},
		}
		d := analytics.BuildProducerDetail(records, "Pat")

		So(d, ShouldNotBeNil)
		So(d.Summary, ShouldResemble, models.PremiumSummary{TotalPremium: 1000, PolicyCount: 3, AvgPremium: 333.33})
		So(d.PremiumByType, ShouldResemble, []models.TypePremium{
			{PolicyType: "Homeowners", Premium: 750, Share: 75},
			{PolicyType: "Flood", Premium: 250, Share: 25},
		})
		So(d.TopSpecialties, ShouldHaveLength, 2)
		So(d.RecentPolicies[0].EffectiveDate.Day(), ShouldEqual, 9)
		So(d.WeeklyPremium, ShouldHaveLength, 2)
		So(d.WeeklyPremium[0].Premium, ShouldEqual, 850.0)
		So(d.Trends, ShouldHaveLength, 2)
		So(d.Trends[0].PolicyType, ShouldEqual, "Homeowners")
		So(d.LeastActiveTypes, ShouldHaveLength, 2)
	})

	Convey("Unknown producers have no detail", t, func() {
		So(analytics.BuildProducerDetail(nil, "Nobody"), ShouldBeNil)
	})

	Convey("Recent policies put undated records last", t, func() {
		records := []models.PolicyRecord{
			{Producer: "Pat", Number: "undated"},
			{Producer: "Pat", Number: "dated", EffectiveDate: func() *time.Time { d := time.Now(); return &d }()},
		}
		d := analytics.BuildProducerDetail(records, "Pat")
		So(d.RecentPolicies[0].Number, ShouldEqual, "dated")
	})
}
