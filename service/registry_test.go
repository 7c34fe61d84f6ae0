package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/crm_workload/models"
)

func TestProducerRegistryRefresh(t *testing.T) {
	src := &fakeSource{producers: []models.Producer{
		{ID: "p2", Name: "Zoe"},
		{ID: "p1", Name: "Adam"},
		{ID: "", Name: "No Id"},
		{ID: "p3", Name: ""},
	}}
	r := NewProducerRegistry()
	assert.False(t, r.Loaded())

	require.NoError(t, r.Refresh(context.Background(), src))
	assert.True(t, r.Loaded())
	assert.False(t, r.RefreshedAt().IsZero())
	assert.Equal(t, []string{"Adam", "Zoe"}, r.Names())
	assert.Equal(t, []string{"p2", "p1"}, r.IDs([]string{"Zoe", "Ghost", "Adam"}))
	assert.Empty(t, r.IDs([]string{"Ghost"}))
}

func TestProducerRegistryKeepsContentsOnFailure(t *testing.T) {
	src := &fakeSource{producers: []models.Producer{{ID: "p1", Name: "Adam"}}}
	r := NewProducerRegistry()
	require.NoError(t, r.Refresh(context.Background(), src))
	at := r.RefreshedAt()

	src.fail = map[string]bool{"producers": true}
	assert.ErrorIs(t, r.Refresh(context.Background(), src), errUnavailable)
	assert.Equal(t, []string{"Adam"}, r.Names())
	assert.Equal(t, at, r.RefreshedAt())
}

func TestProducerRegistryInvalidate(t *testing.T) {
	src := &fakeSource{producers: []models.Producer{{ID: "p1", Name: "Adam"}}}
	r := NewProducerRegistry()
	require.NoError(t, r.Refresh(context.Background(), src))

	r.Invalidate()
	assert.False(t, r.Loaded())
	assert.Empty(t, r.Names())
	assert.Empty(t, r.IDs([]string{"Adam"}))

	require.NoError(t, r.Refresh(context.Background(), src))
	assert.Equal(t, []string{"p1"}, r.IDs([]string{"Adam"}))
}
