package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BerniceZTT/crm_workload/metrics"
	"github.com/BerniceZTT/crm_workload/models"
	"github.com/BerniceZTT/crm_workload/utils"
)

// ProducerSource 业务员数据来源
type ProducerSource interface {
	FetchProducers(ctx context.Context) ([]models.Producer, error)
}

// ProducerRegistry 业务员名称 -> 记录ID，由调用方创建并负责刷新
type ProducerRegistry struct {
	mu        sync.RWMutex
	ids       map[string]string
	refreshed time.Time
}

// NewProducerRegistry 空注册表
func NewProducerRegistry() *ProducerRegistry {
	return &ProducerRegistry{ids: make(map[string]string)}
}

// Refresh 从数据源整体替换注册表；失败时保留原内容
func (r *ProducerRegistry) Refresh(ctx context.Context, source ProducerSource) error {
	producers, err := source.FetchProducers(ctx)
	if err != nil {
		metrics.RecordRegistryRefresh(0, err)
		utils.Logger.Error().Err(err).Msg("刷新业务员注册表失败")
		return err
	}

	ids := make(map[string]string, len(producers))
	for _, p := range producers {
		if p.Name == "" || p.ID == "" {
			continue
		}
		ids[p.Name] = p.ID
	}

	r.mu.Lock()
	r.ids = ids
	r.refreshed = time.Now()
	r.mu.Unlock()

	metrics.RecordRegistryRefresh(len(ids), nil)
	utils.Logger.Info().Int("producers", len(ids)).Msg("业务员注册表已刷新")
	return nil
}

// Invalidate 清空注册表，直到下一次 Refresh
func (r *ProducerRegistry) Invalidate() {
	r.mu.Lock()
	r.ids = make(map[string]string)
	r.refreshed = time.Time{}
	r.mu.Unlock()
	utils.Logger.Info().Msg("业务员注册表已清空")
}

// IDs 返回已知名称对应的ID，未知名称被忽略
func (r *ProducerRegistry) IDs(names []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(names))
	for _, n := range names {
		if id, ok := r.ids[n]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Names 全部业务员名称，按名称排序
func (r *ProducerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.ids))
	for n := range r.ids {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Loaded 是否至少成功刷新过一次且未被清空
func (r *ProducerRegistry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.refreshed.IsZero()
}

// RefreshedAt 最近一次成功刷新的时间
func (r *ProducerRegistry) RefreshedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshed
}
