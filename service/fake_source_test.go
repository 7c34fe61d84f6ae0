package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BerniceZTT/crm_workload/models"
)

var errUnavailable = errors.New("connection refused")

// fakeSource 内存数据源，fail 中的数据集返回错误
type fakeSource struct {
	mu         sync.Mutex
	producers  []models.Producer
	policies   []models.Row
	managers   map[string]string
	stages     []models.StageCount
	carriers   []models.CarrierStageCount
	quotes     int64
	referrals  []models.Referral
	fail       map[string]bool
	filters    []models.PolicyFilter
	stageFrom  time.Time
	referralIn []string
}

func (f *fakeSource) failing(dataset string) error {
	if f.fail[dataset] {
		return errUnavailable
	}
	return nil
}

func (f *fakeSource) FetchProducers(ctx context.Context) ([]models.Producer, error) {
	if err := f.failing("producers"); err != nil {
		return nil, err
	}
	return f.producers, nil
}

func (f *fakeSource) FetchPolicies(ctx context.Context, filter models.PolicyFilter) ([]models.Row, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if err := f.failing("policies"); err != nil {
		return nil, err
	}
	return f.policies, nil
}

func (f *fakeSource) FetchAccountManagers(ctx context.Context) (map[string]string, error) {
	if err := f.failing("accounts"); err != nil {
		return nil, err
	}
	return f.managers, nil
}

func (f *fakeSource) FetchStageCounts(ctx context.Context, from, to time.Time) ([]models.StageCount, error) {
	f.mu.Lock()
	f.stageFrom = from
	f.mu.Unlock()
	if err := f.failing("stages"); err != nil {
		return nil, err
	}
	return f.stages, nil
}

func (f *fakeSource) FetchCarrierStageCounts(ctx context.Context, from, to time.Time) ([]models.CarrierStageCount, error) {
	if err := f.failing("carriers"); err != nil {
		return nil, err
	}
	return f.carriers, nil
}

func (f *fakeSource) FetchQuoteRequests(ctx context.Context, from, to time.Time) (int64, error) {
	if err := f.failing("quotes"); err != nil {
		return 0, err
	}
	return f.quotes, nil
}

func (f *fakeSource) FetchReferrals(ctx context.Context, accountIDs []string) ([]models.Referral, error) {
	f.mu.Lock()
	f.referralIn = accountIDs
	f.mu.Unlock()
	if err := f.failing("referrals"); err != nil {
		return nil, err
	}
	return f.referrals, nil
}

func policyRow(name, manager, producer, policyType string, premium float64, effective string) models.Row {
	return models.Row{
		"Id":             name,
		"Name":           name,
		"PolicyType":     policyType,
		"Status":         "Active",
		"EffectiveDate":  effective,
		"ExpirationDate": effective,
		"NameInsuredId":  "acc-" + name,
		"NameInsured": models.Row{
			"Name":               "Account " + name,
			"Account_Manager__r": models.Row{"Name": manager},
		},
		"Producer":              models.Row{"Name": producer},
		"WritingCarrierAccount": models.Row{"Name": "Carrier"},
		"PremiumAmount":         premium,
	}
}
