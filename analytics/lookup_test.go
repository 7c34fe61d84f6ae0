package analytics_test

import (
	"testing"
	"time"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/models"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLookup(t *testing.T) {
	Convey("Given a row with nested relations", t, func() {
		row := models.Row{
			"Name":        "POL-1",
			"NameInsured": map[string]interface{}{
				"AnnualRevenue":      "1250.5",
				"Account_Manager__r": nil,
				"Account_Manager__c": 42,
				"LastActivity":       "2024-03-05",
				"CreatedDate":        "2024-03-05T08:15:00.000+0000",
				"Employees":          int32(12),
				"Website":            "   ",
				"Name":               "Acme LLC",
			},
		}

		Convey("Present paths resolve", func() {
			So(analytics.LookupString(row, "NameInsured.Name").OrElse(""), ShouldEqual, "Acme LLC")
			So(analytics.LookupFloat(row, "NameInsured.AnnualRevenue").Value, ShouldEqual, 1250.5)
			So(analytics.LookupFloat(row, "NameInsured.Employees").Value, ShouldEqual, 12.0)
		})

		Convey("Nil, missing and non-map segments fall back", func() {
			So(analytics.LookupString(row, "NameInsured.Account_Manager__r.Name").OrElse(models.NotAssigned),
				ShouldEqual, models.NotAssigned)
			So(analytics.LookupString(row, "Missing.Path").Valid, ShouldBeFalse)
			So(analytics.LookupString(row, "Name.Deeper").Valid, ShouldBeFalse)
			So(analytics.LookupString(row, "NameInsured.Website").Valid, ShouldBeFalse)
			So(analytics.LookupString(row, "NameInsured.Account_Manager__c").Valid, ShouldBeFalse)
			So(analytics.LookupString(nil, "Name").Valid, ShouldBeFalse)
		})

		Convey("Dates parse from the supported layouts", func() {
			d := analytics.LookupTime(row, "NameInsured.LastActivity")
			So(d.Valid, ShouldBeTrue)
			So(d.Value, ShouldEqual, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

			c := analytics.LookupTime(row, "NameInsured.CreatedDate")
			So(c.Valid, ShouldBeTrue)
			So(c.Value, ShouldEqual, time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC))

			So(analytics.LookupTime(row, "NameInsured.Name").Valid, ShouldBeFalse)
		})
	})
}

func TestDecodePolicy(t *testing.T) {
	Convey("Given a fully populated row", t, func() {
		row := models.Row{
			"Id":                      "a0P1",
			"Name":                    "POL-1",
			"PolicyName":              "Acme Auto",
			"PolicyType":              "Personal Auto",
			"Status":                  "Active",
			"EffectiveDate":           "2024-01-15",
			"ExpirationDate":          "2025-01-15",
			"NameInsuredId":           "001A",
			"NameInsured":             map[string]interface{}{"Name": "Acme", "Account_Manager__r": map[string]interface{}{"Name": "Mia"}},
			"Producer":                map[string]interface{}{"Name": "Pat"},
			"WritingCarrierAccount":   map[string]interface{}{"Name": "Carrier One"},
			"PremiumAmount":           1000.0,
			"TaxesSurcharges":         50.0,
			"Total_Policy_Premium__c": 1075.0,
		}
		p := analytics.DecodePolicy(row, map[string]string{"001A": "Someone Else"})

		So(p.ID, ShouldEqual, "a0P1")
		So(p.Number, ShouldEqual, "POL-1")
		So(p.Name, ShouldEqual, "Acme Auto")
		So(p.Type, ShouldEqual, models.PolicyTypePersonalAuto)
		So(p.AccountManager, ShouldEqual, "Mia")
		So(p.Producer, ShouldEqual, "Pat")
		So(p.WritingCarrier, ShouldEqual, "Carrier One")
		So(*p.EffectiveDate, ShouldEqual, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		So(p.TotalPremium, ShouldEqual, 1075.0)
	})

	Convey("Given a sparse row", t, func() {
		row := models.Row{
			"NameInsuredId":   "001B",
			"NameInsured":     nil,
			"Producer":        nil,
			"Producer_2__r":   map[string]interface{}{"Name": "Quinn"},
			"PremiumAmount":   100,
			"TaxesSurcharges": "12.5",
		}

		Convey("Sentinels fill the gaps", func() {
			p := analytics.DecodePolicy(row, nil)
			So(p.Number, ShouldEqual, models.UnknownPolicy)
			So(p.Name, ShouldEqual, models.UnknownPolicy)
			So(string(p.Type), ShouldEqual, models.NotSpecified)
			So(p.Status, ShouldEqual, models.UnknownStatus)
			So(p.AccountName, ShouldEqual, models.UnknownAccount)
			So(p.AccountManager, ShouldEqual, models.NotAssigned)
			So(p.WritingCarrier, ShouldEqual, models.UnknownCarrier)
			So(p.EffectiveDate, ShouldBeNil)
		})

		Convey("The secondary producer is used", func() {
			So(analytics.DecodePolicy(row, nil).Producer, ShouldEqual, "Quinn")
		})

		Convey("The account map supplies the manager", func() {
			p := analytics.DecodePolicy(row, map[string]string{"001B": "Lee"})
			So(p.AccountManager, ShouldEqual, "Lee")
		})

		Convey("Total premium falls back to premium plus taxes", func() {
			So(analytics.DecodePolicy(row, nil).TotalPremium, ShouldEqual, 112.5)
		})
	})

	Convey("Nil rows are skipped in bulk decoding", t, func() {
		records := analytics.DecodePolicies([]models.Row{nil, {"Name": "X"}}, nil)
		So(records, ShouldHaveLength, 1)
		So(records[0].Producer, ShouldEqual, models.UnknownProducer)
	})
}

func TestOptional(t *testing.T) {
	Convey("OrElse returns the value only when valid", t, func() {
		So(analytics.Some(3).OrElse(7), ShouldEqual, 3)
		So(analytics.Optional[int]{}.OrElse(7), ShouldEqual, 7)
	})
}
