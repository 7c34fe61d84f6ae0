package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_workload/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	PoliciesCollection         = "insurance_policies"
	AccountsCollection         = "accounts"
	ProducersCollection        = "producers"
	OpportunitiesCollection    = "opportunities"
	ApiOperationLogsCollection = "apiOperationLogs"
)

// 服务启动时确保存在的集合
var managedCollections = []string{
	PoliciesCollection,
	AccountsCollection,
	ProducersCollection,
	OpportunitiesCollection,
	ApiOperationLogsCollection,
}

// 默认重试次数
const DefaultRetries = 3

var (
	client *mongo.Client
	db     *mongo.Database
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(ctx context.Context, uri, dbName string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("连接MongoDB失败: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB失败: %w", err)
	}

	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// DB 返回已连接的数据库，未连接时为nil
func DB() *mongo.Database {
	return db
}

// ExecuteDbOperation 执行数据库操作，可重试的错误按递增间隔重试
func ExecuteDbOperation[T any](ctx context.Context, operation func(context.Context) (T, error), retries int) (T, error) {
	if retries <= 0 {
		retries = DefaultRetries
	}

	var zero T
	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		if !isRetryableError(err) || i == retries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(retryDelay(i)):
		}
	}

	return zero, lastErr
}

// retryDelay 第 attempt 次失败后的等待时间
var retryDelay = func(attempt int) time.Duration {
	return time.Duration(500*(attempt+1)) * time.Millisecond
}

// MongoDB可重试错误代码
var retryableCodes = map[int32]bool{
	6:     true, // HostUnreachable
	7:     true, // HostNotFound
	89:    true, // NetworkTimeout
	91:    true, // ShutdownInProgress
	189:   true, // PrimarySteppedDown
	10107: true, // NotMaster
	13436: true, // NotMasterNoSlaveOk
	11600: true, // InterruptedAtShutdown
	11602: true, // InterruptedDueToReplStateChange
	10058: true, // ConnectionReset
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return isNetworkError(err)
}

// 常见网络错误
var networkErrors = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"no reachable servers",
	"timeout",
	"context deadline exceeded",
	"server selection error",
}

// isNetworkError 按错误信息识别网络错误
func isNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, ne := range networkErrors {
		if strings.Contains(msg, ne) {
			return true
		}
	}
	return false
}

// InitializeCollections 初始化数据库集合
func InitializeCollections(ctx context.Context) error {
	for _, collName := range managedCollections {
		exists, err := CollectionExists(ctx, collName)
		if err != nil {
			return fmt.Errorf("检查集合失败: %w", err)
		}
		if exists {
			utils.Logger.Debug().Str("collection", collName).Msg("集合已存在")
			continue
		}
		if err := db.CreateCollection(ctx, collName); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}
	return nil
}

// CollectionExists 检查集合是否存在
func CollectionExists(ctx context.Context, collName string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": collName})
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == collName {
			return true, nil
		}
	}
	return false, nil
}

// GetDatabaseStatus 各集合的文档数
func GetDatabaseStatus(ctx context.Context) (map[string]interface{}, error) {
	if db == nil {
		return nil, errors.New("数据库未连接")
	}

	result := make(map[string]interface{})
	for _, collName := range managedCollections {
		count, err := db.Collection(collName).EstimatedDocumentCount(ctx)
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[collName] = map[string]interface{}{"count": count}
	}
	return result, nil
}

// Collection 返回指定名称的集合
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}
