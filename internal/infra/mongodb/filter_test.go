package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

func TestBuildFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.D{}, buildFilter(query.Filter{}))
}

func TestBuildFilterEscapesSearch(t *testing.T) {
	f, err := query.BuildFilter(query.Criteria{Search: "a.c+me"})
	require.NoError(t, err)

	got := buildFilter(f)
	require.Len(t, got, 1)
	assert.Equal(t, "$or", got[0].Key)

	clauses := got[0].Value.(bson.A)
	require.Len(t, clauses, 4)
	first := clauses[0].(bson.D)
	assert.Equal(t, "firstName", first[0].Key)
	re := first[0].Value.(bson.D)
	assert.Equal(t, `a\.c\+me`, re[0].Value)
	assert.Equal(t, "i", re[1].Value)
}

func TestBuildFilterRanges(t *testing.T) {
	lo := 10.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	f, err := query.BuildFilter(query.Criteria{
		Stage:      "Proposal",
		AssignedTo: "Carla",
		MinValue:   &lo,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)

	want := bson.D{
		{Key: "stage", Value: "Proposal"},
		{Key: "assignedTo", Value: "Carla"},
		{Key: "value", Value: bson.D{{Key: "$gte", Value: 10.0}}},
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}},
	}
	assert.Equal(t, want, buildFilter(f))
}

func TestBuildSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
		buildSort(query.DefaultSort))
	assert.Equal(t,
		bson.D{{Key: "_id", Value: -1}},
		buildSort(query.Sort{Field: query.FieldID, Direction: query.Desc}))
	assert.Equal(t,
		bson.D{{Key: "stage", Value: 1}, {Key: "_id", Value: 1}},
		buildSort(query.Sort{Field: query.FieldStage, Direction: query.Asc}))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.True(t, entity.IsStoreUnavailable(classify(context.DeadlineExceeded)))

	dup := errors.New("E11000 duplicate key error")
	assert.False(t, entity.IsStoreUnavailable(classify(dup)))
}
