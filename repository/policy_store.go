package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BerniceZTT/crm_workload/models"
	"github.com/BerniceZTT/crm_workload/utils"
)

// 默认每批查询的客户ID数量
const DefaultReferralChunkSize = 200

// PolicyStore 以MongoDB中的CRM文档为数据源，文档保留CRM的字段名与嵌套关联
type PolicyStore struct {
	db        *mongo.Database
	chunkSize int
	retries   int
}

// NewPolicyStore chunkSize <= 0 时使用默认值
func NewPolicyStore(db *mongo.Database, chunkSize int) *PolicyStore {
	if chunkSize <= 0 {
		chunkSize = DefaultReferralChunkSize
	}
	return &PolicyStore{db: db, chunkSize: chunkSize, retries: DefaultRetries}
}

// dateRange 同时匹配BSON日期与 YYYY-MM-DD 开头的字符串日期
func dateRange(field string, from, to time.Time) bson.M {
	var clauses bson.A
	dates := bson.M{}
	strs := bson.M{}
	if !from.IsZero() {
		dates["$gte"] = from
		strs["$gte"] = from.UTC().Format("2006-01-02")
	}
	if !to.IsZero() {
		dates["$lte"] = to
		// 当天任意时刻的字符串都排在 "YYYY-MM-DD~" 之前
		strs["$lte"] = to.UTC().Format("2006-01-02") + "~"
	}
	if len(dates) == 0 {
		return bson.M{field: bson.M{"$ne": nil}}
	}
	clauses = append(clauses, bson.M{field: dates}, bson.M{field: strs})
	return bson.M{"$or": clauses}
}

// PolicyQuery 将查询条件转换为MongoDB过滤器
func PolicyQuery(f models.PolicyFilter) bson.M {
	field := string(f.DateField)
	if field == "" {
		field = string(models.DateFieldExpiration)
	}
	and := bson.A{dateRange(field, f.From, f.To)}

	if len(f.Statuses) > 0 {
		and = append(and, bson.M{"Status": bson.M{"$in": f.Statuses}})
	}
	if f.BusinessType != "" {
		and = append(and, bson.M{"Business_Type_Reporting__c": f.BusinessType})
	}
	switch {
	case len(f.ProducerIDs) > 0:
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"ProducerId": bson.M{"$in": f.ProducerIDs}},
			bson.M{"Producer_2__c": bson.M{"$in": f.ProducerIDs}},
		}})
	case len(f.ProducerNames) > 0:
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"Producer.Name": bson.M{"$in": f.ProducerNames}},
			bson.M{"Producer_2__r.Name": bson.M{"$in": f.ProducerNames}},
		}})
	}
	return bson.M{"$and": and}
}

// findRows 查询并转换为普通记录
func (s *PolicyStore) findRows(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) ([]models.Row, error) {
	return ExecuteDbOperation(ctx, func(ctx context.Context) ([]models.Row, error) {
		cursor, err := s.db.Collection(collection).Find(ctx, filter, opts...)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, err
		}
		rows := make([]models.Row, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, NormalizeDocument(d))
		}
		utils.LogDbOperation("find", collection, filter, len(rows))
		return rows, nil
	}, s.retries)
}

// FetchPolicies 查询保单原始记录
func (s *PolicyStore) FetchPolicies(ctx context.Context, f models.PolicyFilter) ([]models.Row, error) {
	field := string(f.DateField)
	if field == "" {
		field = string(models.DateFieldExpiration)
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}})
	rows, err := s.findRows(ctx, PoliciesCollection, PolicyQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("查询保单失败: %w", err)
	}
	return rows, nil
}

// FetchAccountManagers 客户ID -> 客户经理姓名
func (s *PolicyStore) FetchAccountManagers(ctx context.Context) (map[string]string, error) {
	filter := bson.M{"Account_Manager__c": bson.M{"$ne": nil}}
	opts := options.Find().SetProjection(bson.M{"Id": 1, "Account_Manager__r.Name": 1})
	rows, err := s.findRows(ctx, AccountsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("查询客户经理失败: %w", err)
	}

	managers := make(map[string]string, len(rows))
	for _, row := range rows {
		id, _ := row["Id"].(string)
		if id == "" {
			continue
		}
		name := models.NotAssigned
		if rel, ok := row["Account_Manager__r"].(map[string]interface{}); ok {
			if n, ok := rel["Name"].(string); ok && n != "" {
				name = n
			}
		}
		managers[id] = name
	}
	return managers, nil
}

// FetchProducers 全部业务员，按名称排序
func (s *PolicyStore) FetchProducers(ctx context.Context) ([]models.Producer, error) {
	producers, err := ExecuteDbOperation(ctx, func(ctx context.Context) ([]models.Producer, error) {
		opts := options.Find().
			SetProjection(bson.M{"Id": 1, "Name": 1}).
			SetSort(bson.D{{Key: "Name", Value: 1}})
		cursor, err := s.db.Collection(ProducersCollection).Find(ctx, bson.M{"Name": bson.M{"$ne": nil}}, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		out := make([]models.Producer, 0)
		if err := cursor.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}, s.retries)
	if err != nil {
		return nil, fmt.Errorf("查询业务员失败: %w", err)
	}
	return producers, nil
}

// FetchStageCounts 创建时间在范围内的商机按阶段计数，数量降序
func (s *PolicyStore) FetchStageCounts(ctx context.Context, from, to time.Time) ([]models.StageCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: dateRange("CreatedDate", from, to)}},
		{{Key: "$group", Value: bson.M{"_id": "$StageName", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	counts, err := ExecuteDbOperation(ctx, func(ctx context.Context) ([]models.StageCount, error) {
		cursor, err := s.db.Collection(OpportunitiesCollection).Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		out := make([]models.StageCount, 0)
		if err := cursor.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}, s.retries)
	if err != nil {
		return nil, fmt.Errorf("统计商机阶段失败: %w", err)
	}
	for i := range counts {
		if counts[i].Stage == "" {
			counts[i].Stage = models.UnknownStatus
		}
	}
	return counts, nil
}

type carrierStageGroup struct {
	ID struct {
		Carrier string `bson:"carrier"`
		Stage   string `bson:"stage"`
	} `bson:"_id"`
	Count int `bson:"count"`
}

// FetchCarrierStageCounts 关闭时间在范围内、带续保承保商的商机按承保商与阶段计数
func (s *PolicyStore) FetchCarrierStageCounts(ctx context.Context, from, to time.Time) ([]models.CarrierStageCount, error) {
	match := bson.M{"$and": bson.A{
		bson.M{"Renewing_Carrier__c": bson.M{"$ne": nil}},
		dateRange("CloseDate", from, to),
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"carrier": "$Renewing_Carrier__c", "stage": "$StageName"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.carrier", Value: 1}, {Key: "_id.stage", Value: 1}}}},
	}
	groups, err := ExecuteDbOperation(ctx, func(ctx context.Context) ([]carrierStageGroup, error) {
		cursor, err := s.db.Collection(OpportunitiesCollection).Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		out := make([]carrierStageGroup, 0)
		if err := cursor.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}, s.retries)
	if err != nil {
		return nil, fmt.Errorf("统计承保商商机失败: %w", err)
	}

	ids := make([]string, 0, len(groups))
	seen := make(map[string]bool)
	for _, g := range groups {
		if !seen[g.ID.Carrier] {
			seen[g.ID.Carrier] = true
			ids = append(ids, g.ID.Carrier)
		}
	}
	names, err := s.accountNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CarrierStageCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.CarrierStageCount{
			CarrierID:   g.ID.Carrier,
			CarrierName: names[g.ID.Carrier],
			Stage:       g.ID.Stage,
			Count:       g.Count,
		})
	}
	return out, nil
}

// accountNames 客户ID -> 名称，按批查询
func (s *PolicyStore) accountNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	for _, chunk := range chunkStrings(ids, s.chunkSize) {
		opts := options.Find().SetProjection(bson.M{"Id": 1, "Name": 1})
		rows, err := s.findRows(ctx, AccountsCollection, bson.M{"Id": bson.M{"$in": chunk}}, opts)
		if err != nil {
			return nil, fmt.Errorf("查询承保商名称失败: %w", err)
		}
		for _, row := range rows {
			id, _ := row["Id"].(string)
			name, _ := row["Name"].(string)
			if id != "" {
				names[id] = name
			}
		}
	}
	return names, nil
}

// FetchQuoteRequests 范围内新建的新业务报价请求数
func (s *PolicyStore) FetchQuoteRequests(ctx context.Context, from, to time.Time) (int64, error) {
	filter := bson.M{"$and": bson.A{
		dateRange("CreatedDate", from, to),
		bson.M{"New_Business_or_Renewal__c": bson.M{"$in": models.NewBusinessQuoteTypes}},
	}}
	count, err := ExecuteDbOperation(ctx, func(ctx context.Context) (int64, error) {
		return s.db.Collection(OpportunitiesCollection).CountDocuments(ctx, filter)
	}, s.retries)
	if err != nil {
		return 0, fmt.Errorf("统计报价请求失败: %w", err)
	}
	return count, nil
}

// FetchReferrals 指定客户中来源为外部转介绍且有转介绍人的记录，按批查询
func (s *PolicyStore) FetchReferrals(ctx context.Context, accountIDs []string) ([]models.Referral, error) {
	out := make([]models.Referral, 0)
	for _, chunk := range chunkStrings(accountIDs, s.chunkSize) {
		filter := bson.M{"Id": bson.M{"$in": chunk}}
		filter["AccountSource"] = bson.M{"$in": models.ReferralSources}
		filter["FinServ__ReferredByContact__c"] = bson.M{"$ne": nil}
		opts := options.Find().SetProjection(bson.M{"Id": 1, "FinServ__ReferredByContact__r.Name": 1})
		rows, err := s.findRows(ctx, AccountsCollection, filter, opts)
		if err != nil {
			return nil, fmt.Errorf("查询转介绍人失败: %w", err)
		}
		for _, row := range rows {
			rel, _ := row["FinServ__ReferredByContact__r"].(map[string]interface{})
			name, _ := rel["Name"].(string)
			if name == "" {
				continue
			}
			id, _ := row["Id"].(string)
			out = append(out, models.Referral{AccountID: id, ReferrerName: name})
		}
	}
	return out, nil
}

// chunkStrings 去重后按 size 分批，保持首次出现顺序
func chunkStrings(items []string, size int) [][]string {
	seen := make(map[string]bool, len(items))
	unique := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" && !seen[it] {
			seen[it] = true
			unique = append(unique, it)
		}
	}
	if size <= 0 {
		size = DefaultReferralChunkSize
	}
	chunks := make([][]string, 0, (len(unique)+size-1)/size)
	for start := 0; start < len(unique); start += size {
		end := start + size
		if end > len(unique) {
			end = len(unique)
		}
		chunks = append(chunks, unique[start:end])
	}
	return chunks
}
