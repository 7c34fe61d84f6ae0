package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BerniceZTT/crm_workload/models"
)

// NormalizeDocument 将驱动解码出的BSON类型转换为普通Go值：
// 嵌套文档为 map[string]interface{}，数组为 []interface{}，
// 日期为 time.Time，ObjectID 与 Decimal128 为字符串
func NormalizeDocument(doc bson.M) models.Row {
	if doc == nil {
		return nil
	}
	out := make(models.Row, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.M:
		return NormalizeDocument(bson.M(t))
	case map[string]interface{}:
		return NormalizeDocument(t)
	case primitive.D:
		return NormalizeDocument(bson.M(t.Map()))
	case primitive.A:
		return normalizeSlice(t)
	case []interface{}:
		return normalizeSlice(t)
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}

func normalizeSlice(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = normalizeValue(item)
	}
	return out
}
