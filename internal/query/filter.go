// Package query turns list criteria into a predicate, orders leads and
// slices them into pages. Stores use the typed fields of Filter to push the
// same criteria down into SQL or BSON; the in-memory store uses Match.
package query

import (
	"math"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Criteria is the raw list filter as supplied by a caller.
// Empty strings and nil pointers impose no constraint.
type Criteria struct {
	Search     string
	Stage      string
	Source     string
	AssignedTo string
	MinValue   *float64
	MaxValue   *float64
	StartDate  *time.Time
	EndDate    *time.Time
}

// Predicate reports whether a lead satisfies one criterion.
type Predicate func(*entity.Lead) bool

// Filter is the validated form of Criteria.
type Filter struct {
	Search     string
	Stage      *entity.Stage
	Source     *entity.Source
	AssignedTo string
	MinValue   *float64
	MaxValue   *float64
	StartDate  *time.Time
	EndDate    *time.Time

	predicates []Predicate
}

// BuildFilter validates c and returns the conjunction of its non-empty criteria.
func BuildFilter(c Criteria) (Filter, error) {
	var f Filter

	if s := strings.TrimSpace(c.Search); s != "" {
		f.Search = s
		f.add(searchPredicate(s))
	}

	if c.Stage != "" {
		stage, err := entity.ParseStage(c.Stage)
		if err != nil {
			return Filter{}, entity.NewInvalidQuery("stage", "%v", err)
		}
		f.Stage = &stage
		f.add(func(l *entity.Lead) bool { return l.Stage == stage })
	}

	if c.Source != "" {
		source, err := entity.ParseSource(c.Source)
		if err != nil {
			return Filter{}, entity.NewInvalidQuery("source", "%v", err)
		}
		f.Source = &source
		f.add(func(l *entity.Lead) bool { return l.Source == source })
	}

	if a := strings.TrimSpace(c.AssignedTo); a != "" {
		f.AssignedTo = a
		f.add(func(l *entity.Lead) bool { return l.AssignedTo == a })
	}

	if c.MinValue != nil && !finite(*c.MinValue) {
		return Filter{}, entity.NewInvalidQuery("minValue", "must be a finite number")
	}
	if c.MaxValue != nil && !finite(*c.MaxValue) {
		return Filter{}, entity.NewInvalidQuery("maxValue", "must be a finite number")
	}
	if c.MinValue != nil && c.MaxValue != nil && *c.MinValue > *c.MaxValue {
		return Filter{}, entity.NewInvalidQuery("minValue", "must not be greater than maxValue")
	}
	if c.MinValue != nil {
		lo := *c.MinValue
		f.MinValue = &lo
		f.add(func(l *entity.Lead) bool { return l.Value >= lo })
	}
	if c.MaxValue != nil {
		hi := *c.MaxValue
		f.MaxValue = &hi
		f.add(func(l *entity.Lead) bool { return l.Value <= hi })
	}

	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return Filter{}, entity.NewInvalidQuery("startDate", "must not be after endDate")
	}
	if c.StartDate != nil {
		start := c.StartDate.UTC()
		f.StartDate = &start
		f.add(func(l *entity.Lead) bool { return !l.CreatedAt.Before(start) })
	}
	if c.EndDate != nil {
		end := c.EndDate.UTC()
		f.EndDate = &end
		f.add(func(l *entity.Lead) bool { return !l.CreatedAt.After(end) })
	}

	return f, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f *Filter) add(p Predicate) {
	f.predicates = append(f.predicates, p)
}

// Match is the conjunction of every criterion; an empty filter matches all leads.
func (f Filter) Match(l *entity.Lead) bool {
	for _, p := range f.predicates {
		if !p(l) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return len(f.predicates) == 0
}

// Apply returns the leads of src that match, preserving order.
func (f Filter) Apply(src []*entity.Lead) []*entity.Lead {
	out := make([]*entity.Lead, 0, len(src))
	for _, l := range src {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func searchPredicate(term string) Predicate {
	needle := strings.ToLower(term)
	return func(l *entity.Lead) bool {
		for _, field := range [...]string{l.FirstName, l.LastName, l.Email, l.Company} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
}
