package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

// Store is what seeding needs from a lead repository.
type Store interface {
	Count(ctx context.Context, filter query.Filter) (int64, error)
	Insert(ctx context.Context, lead *entity.Lead) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Result struct {
	Action   string // "created" or "skip"
	Deleted  int64
	Existing int64
	Created  int
}

type Seeder struct {
	Store     Store
	Generator *Generator
	Log       logrus.FieldLogger
}

func NewSeeder(store Store, gen *Generator, log logrus.FieldLogger) *Seeder {
	return &Seeder{Store: store, Generator: gen, Log: log}
}

// Run inserts count leads. A non-empty store is left alone unless reset
// is set, in which case it is emptied first.
func (s *Seeder) Run(ctx context.Context, count int, reset bool) (Result, error) {
	var res Result
	if count < 0 {
		return res, fmt.Errorf("count must not be negative, got %d", count)
	}

	if reset {
		n, err := s.Store.DeleteAll(ctx)
		if err != nil {
			return res, fmt.Errorf("failed to clear leads: %w", err)
		}
		res.Deleted = n
		s.Log.WithField("deleted", n).Info("existing leads removed")
	}

	existing, err := s.Store.Count(ctx, query.Filter{})
	if err != nil {
		return res, fmt.Errorf("failed to count leads: %w", err)
	}
	if existing > 0 {
		res.Action = "skip"
		res.Existing = existing
		return res, nil
	}

	for i := 1; i <= count; i++ {
		if err := s.Store.Insert(ctx, s.Generator.Lead(i)); err != nil {
			return res, fmt.Errorf("failed to insert lead #%d: %w", i, err)
		}
		res.Created++
		if i%100 == 0 {
			s.Log.WithField("inserted", i).Debug("seeding")
		}
	}
	res.Action = "created"
	return res, nil
}
