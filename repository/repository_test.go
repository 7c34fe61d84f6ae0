package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BerniceZTT/crm_workload/models"
)

func TestNormalizeDocument(t *testing.T) {
	when := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()
	dec, err := primitive.ParseDecimal128("1075.50")
	require.NoError(t, err)

	doc := bson.M{
		"_id":            oid,
		"ExpirationDate": primitive.NewDateTimeFromTime(when),
		"Total":          dec,
		"NameInsured": primitive.M{
			"Name":               "Acme",
			"Account_Manager__r": primitive.D{{Key: "Name", Value: "Mia"}},
		},
		"Tags":     primitive.A{"a", primitive.M{"k": int32(1)}},
		"Producer": primitive.Null{},
	}

	row := NormalizeDocument(doc)

	assert.Equal(t, oid.Hex(), row["_id"])
	assert.Equal(t, when, row["ExpirationDate"])
	assert.Equal(t, "1075.50", row["Total"])
	assert.Nil(t, row["Producer"])

	insured, ok := row["NameInsured"].(map[string]interface{})
	require.True(t, ok)
	manager, ok := insured["Account_Manager__r"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Mia", manager["Name"])

	tags, ok := row["Tags"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"k": int32(1)}, tags[1])

	assert.Nil(t, NormalizeDocument(nil))
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"primary stepped down", mongo.CommandError{Code: 189, Message: "stepped down"}, true},
		{"wrapped network timeout", fmt.Errorf("find: %w", mongo.CommandError{Code: 89}), true},
		{"duplicate key", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"connection refused text", errors.New("dial tcp: Connection Refused"), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("bad filter"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestExecuteDbOperation(t *testing.T) {
	orig := retryDelay
	retryDelay = func(int) time.Duration { return time.Millisecond }
	defer func() { retryDelay = orig }()

	ctx := context.Background()

	t.Run("retries retryable errors until success", func(t *testing.T) {
		calls := 0
		got, err := ExecuteDbOperation(ctx, func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("server selection error")
			}
			return 42, nil
		}, 3)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable errors", func(t *testing.T) {
		calls := 0
		_, err := ExecuteDbOperation(ctx, func(context.Context) (string, error) {
			calls++
			return "", errors.New("bad filter")
		}, 5)
		assert.EqualError(t, err, "bad filter")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		calls := 0
		_, err := ExecuteDbOperation(ctx, func(context.Context) (int, error) {
			calls++
			return 0, errors.New("connection reset by peer")
		}, 0)
		assert.Error(t, err)
		assert.Equal(t, DefaultRetries, calls)
	})

	t.Run("honours cancellation between attempts", func(t *testing.T) {
		retryDelay = func(int) time.Duration { return time.Hour }
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		_, err := ExecuteDbOperation(cctx, func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("timeout")
		}, 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestChunkStrings(t *testing.T) {
	ids := make([]string, 0, 450)
	for i := 0; i < 450; i++ {
		ids = append(ids, fmt.Sprintf("acc-%03d", i))
	}
	ids = append(ids, "acc-000", "")

	chunks := chunkStrings(ids, 200)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 200)
	assert.Len(t, chunks[2], 50)
	assert.Equal(t, "acc-200", chunks[1][0])

	assert.Empty(t, chunkStrings(nil, 200))
}

func TestPolicyQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	t.Run("producer ids take precedence over names", func(t *testing.T) {
		q := PolicyQuery(models.PolicyFilter{
			From:          from,
			To:            to,
			DateField:     models.DateFieldEffective,
			Statuses:      []string{models.PolicyStatusActive},
			BusinessType:  models.BusinessTypeNew,
			ProducerIDs:   []string{"P1"},
			ProducerNames: []string{"Pat"},
		})
		and := q["$and"].(bson.A)
		require.Len(t, and, 4)

		dates := and[0].(bson.M)["$or"].(bson.A)
		assert.Equal(t, bson.M{"EffectiveDate": bson.M{"$gte": from, "$lte": to}}, dates[0])
		assert.Equal(t, bson.M{"EffectiveDate": bson.M{"$gte": "2024-01-01", "$lte": "2024-03-31~"}}, dates[1])
		assert.Equal(t, bson.M{"Business_Type_Reporting__c": "New Business"}, and[2])

		producers := and[3].(bson.M)["$or"].(bson.A)
		assert.Equal(t, bson.M{"ProducerId": bson.M{"$in": []string{"P1"}}}, producers[0])
	})

	t.Run("names are used when no ids are known", func(t *testing.T) {
		q := PolicyQuery(models.PolicyFilter{ProducerNames: []string{"Pat"}})
		and := q["$and"].(bson.A)
		require.Len(t, and, 2)
		assert.Equal(t, bson.M{"ExpirationDate": bson.M{"$ne": nil}}, and[0])
		producers := and[1].(bson.M)["$or"].(bson.A)
		assert.Equal(t, bson.M{"Producer_2__r.Name": bson.M{"$in": []string{"Pat"}}}, producers[1])
	})
}
