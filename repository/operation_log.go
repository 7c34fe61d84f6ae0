package repository

import (
	"context"
	"errors"

	"github.com/BerniceZTT/crm_workload/models"
)

// SaveOperationLog 保存操作日志
func SaveOperationLog(ctx context.Context, log *models.OperationLog) error {
	if db == nil {
		return errors.New("数据库未连接")
	}
	_, err := db.Collection(ApiOperationLogsCollection).InsertOne(ctx, *log)
	return err
}
