package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_workload/analytics"
	"github.com/BerniceZTT/crm_workload/utils"
)

// 查询参数中的日期格式
const dateLayout = "2006-01-02"

// 未配置时的请求超时
const defaultRequestTimeout = 30 * time.Second

// parseDateRange 解析 range / startDate / endDate。
// 给出 startDate 或 endDate 时视为自定义范围，两者缺一不可
func parseDateRange(c *gin.Context, defaultRange string, now time.Time) (time.Time, time.Time, error) {
	name := c.Query("range")
	start, end := c.Query("startDate"), c.Query("endDate")

	if name == analytics.RangeCustom || (name == "" && (start != "" || end != "")) {
		if start == "" || end == "" {
			return time.Time{}, time.Time{}, utils.CreateBadRequestError("自定义范围需要同时提供 startDate 和 endDate")
		}
		s, err := time.Parse(dateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, utils.CreateBadRequestError("startDate 格式应为 YYYY-MM-DD")
		}
		e, err := time.Parse(dateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, utils.CreateBadRequestError("endDate 格式应为 YYYY-MM-DD")
		}
		from, to := analytics.CustomRange(s, e)
		return from, to, nil
	}

	if name == "" {
		name = defaultRange
	}
	from, to, err := analytics.ResolveRange(name, now)
	if err != nil {
		return time.Time{}, time.Time{}, utils.CreateBadRequestError(err.Error())
	}
	return from, to, nil
}

// parseBool 缺省为 false
func parseBool(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, utils.CreateBadRequestError(key + " 应为布尔值")
	}
	return b, nil
}

// queryList 支持重复参数与逗号分隔
func queryList(c *gin.Context, key string) []string {
	return utils.SplitList(c.QueryArray(key))
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
