package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRunAt(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2024, 3, 1, 1, 0, 0, 0, loc), time.Date(2024, 3, 1, 2, 0, 0, 0, loc)},
		{"already passed", time.Date(2024, 3, 1, 3, 0, 0, 0, loc), time.Date(2024, 3, 2, 2, 0, 0, 0, loc)},
		{"exactly now", time.Date(2024, 3, 1, 2, 0, 0, 0, loc), time.Date(2024, 3, 2, 2, 0, 0, 0, loc)},
		{"month end", time.Date(2024, 2, 29, 23, 0, 0, 0, loc), time.Date(2024, 3, 1, 2, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextRunAt(tt.now, 2, 0, 0))
		})
	}
}

func TestScheduleDailyTaskAtStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	next := time.Now().Add(time.Hour)
	ScheduleDailyTaskAt(ctx, next.Hour(), next.Minute(), next.Second(), func(context.Context) {
		ran <- struct{}{}
	})
	cancel()

	select {
	case <-ran:
		t.Fatal("task ran after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}
