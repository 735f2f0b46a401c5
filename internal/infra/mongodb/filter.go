package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xavierca1/ligue-leads/internal/query"
)

// buildFilter translates the typed criteria into a BSON conjunction.
func buildFilter(f query.Filter) bson.D {
	filter := bson.D{}

	if f.Search != "" {
		re := bson.D{{Key: "$regex", Value: regexp.QuoteMeta(f.Search)}, {Key: "$options", Value: "i"}}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "firstName", Value: re}},
			bson.D{{Key: "lastName", Value: re}},
			bson.D{{Key: "email", Value: re}},
			bson.D{{Key: "company", Value: re}},
		}})
	}
	if f.Stage != nil {
		filter = append(filter, bson.E{Key: "stage", Value: string(*f.Stage)})
	}
	if f.Source != nil {
		filter = append(filter, bson.E{Key: "source", Value: string(*f.Source)})
	}
	if f.AssignedTo != "" {
		filter = append(filter, bson.E{Key: "assignedTo", Value: f.AssignedTo})
	}

	if value := rangeOf(f.MinValue, f.MaxValue); value != nil {
		filter = append(filter, bson.E{Key: "value", Value: value})
	}

	created := bson.D{}
	if f.StartDate != nil {
		created = append(created, bson.E{Key: "$gte", Value: *f.StartDate})
	}
	if f.EndDate != nil {
		created = append(created, bson.E{Key: "$lte", Value: *f.EndDate})
	}
	if len(created) > 0 {
		filter = append(filter, bson.E{Key: "createdAt", Value: created})
	}

	return filter
}

func rangeOf(lo, hi *float64) bson.D {
	var r bson.D
	if lo != nil {
		r = append(r, bson.E{Key: "$gte", Value: *lo})
	}
	if hi != nil {
		r = append(r, bson.E{Key: "$lte", Value: *hi})
	}
	return r
}

// buildSort orders by the requested field then _id ascending.
func buildSort(s query.Sort) bson.D {
	key := string(s.Field)
	if key == string(query.FieldID) {
		key = "_id"
	}
	dir := 1
	if s.Direction == query.Desc {
		dir = -1
	}
	if key == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
}
