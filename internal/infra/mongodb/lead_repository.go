// Package mongodb stores leads in a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

const (
	CollectionLeads = "leads"
	storeName       = "mongo"
)

// Connect opens a client and pings the primary within timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, classify(err)
	}
	return client, nil
}

type LeadRepository struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

func NewLeadRepository(db *mongo.Database, timeout time.Duration) *LeadRepository {
	return &LeadRepository{Collection: db.Collection(CollectionLeads), Timeout: timeout}
}

// EnsureIndexes creates the indexes backing the default sort and the enum filters.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "stage", Value: 1}}},
		{Keys: bson.D{{Key: "source", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
	})
	return classify(err)
}

func (r *LeadRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *LeadRepository) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]*entity.Lead, error) {
	if skip < 0 {
		return []*entity.Lead{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(buildSort(sort)).SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.Collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, classify(fmt.Errorf("find leads: %w", err))
	}
	defer cursor.Close(ctx)

	leads := []*entity.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, classify(err)
	}
	return leads, nil
}

func (r *LeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.Collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, classify(fmt.Errorf("count leads: %w", err))
	}
	return n, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var l entity.Lead
	err := r.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return &l, nil
}

func (r *LeadRepository) Insert(ctx context.Context, l *entity.Lead) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.Collection.InsertOne(ctx, l)
	return classify(err)
}

// Update runs as a pipeline so updatedAt can be clamped to createdAt
// server-side. Values are wrapped in $literal so strings starting with "$"
// are not read as field paths.
func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := bson.D{}
	for _, c := range patch.Changes() {
		set = append(set, bson.E{Key: c.Field, Value: bson.D{{Key: "$literal", Value: c.Value}}})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{entity.Now(), "$createdAt"}}}})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var l entity.Lead
	err := r.Collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		mongo.Pipeline{{{Key: "$set", Value: set}}},
		opts,
	).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return &l, nil
}

func (r *LeadRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, classify(err)
	}
	return res.DeletedCount > 0, nil
}

func (r *LeadRepository) Buckets(ctx context.Context) ([]analytics.Bucket, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "stage", Value: "$stage"}, {Key: "source", Value: "$source"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "value", Value: bson.D{{Key: "$sum", Value: "$value"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "stage", Value: "$_id.stage"},
			{Key: "source", Value: "$_id.source"},
			{Key: "count", Value: 1},
			{Key: "value", Value: 1},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify(fmt.Errorf("aggregate leads: %w", err))
	}
	defer cursor.Close(ctx)

	var out []analytics.Bucket
	if err := cursor.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// DeleteAll empties the collection.
func (r *LeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, classify(err)
	}
	return res.DeletedCount, nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return classify(r.Collection.Database().Client().Ping(ctx, nil))
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		strings.Contains(err.Error(), "server selection") {
		return &entity.StoreUnavailableError{Store: storeName, Err: err}
	}
	return err
}
