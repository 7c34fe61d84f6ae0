package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/crm_workload/utils"
)

// nextRunAt 下一次在 hour:min:sec 执行的时间
func nextRunAt(now time.Time, hour, min, sec int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleDailyTaskAt 每天指定时间执行任务，ctx 取消后退出
func ScheduleDailyTaskAt(ctx context.Context, hour, min, sec int, task func(context.Context)) {
	go func() {
		for {
			next := nextRunAt(time.Now(), hour, min, sec)
			utils.Logger.Debug().Time("next", next).Msg("定时任务已排期")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			task(ctx)
		}
	}()
}
