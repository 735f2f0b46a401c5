// Package analytics computes pipeline metrics over the whole lead collection.
//
// Stores hand the engine pre-grouped buckets, one per (stage, source) pair,
// so the engine's work depends on the number of enum combinations rather
// than on the number of leads.
package analytics

import (
	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Bucket is the count and value sum of the leads sharing a stage and source.
type Bucket struct {
	Stage  entity.Stage  `bson:"stage"`
	Source entity.Source `bson:"source"`
	Count  int64         `bson:"count"`
	Value  float64       `bson:"value"`
}

// StageTotals is one row of the funnel.
type StageTotals struct {
	Stage entity.Stage
	Count int64
	Value float64
}

// Aggregation holds the raw grouped totals before rounding and ordering rules.
type Aggregation struct {
	TotalLeads     int64
	TotalValue     float64
	ConvertedLeads int64
	TotalWonValue  float64
	ByStage        []StageTotals
	BySource       map[entity.Source]int64

	// Unrecognized is the buckets whose stage or source is outside the enums.
	// They are left out of every total.
	Unrecognized []Bucket
}

// Bucketize groups leads into buckets. Used by stores without a native GROUP BY.
func Bucketize(leads []*entity.Lead) []Bucket {
	type key struct {
		stage  entity.Stage
		source entity.Source
	}
	idx := make(map[key]int)
	var out []Bucket
	for _, l := range leads {
		k := key{l.Stage, l.Source}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Bucket{Stage: l.Stage, Source: l.Source})
		}
		out[i].Count++
		out[i].Value += l.Value
	}
	return out
}

// Aggregate folds buckets into collection-wide totals. Buckets are visited in
// stage then source enum order, so float sums do not depend on input order.
// Buckets with an unknown stage or source are reported in Unrecognized.
func Aggregate(buckets []Bucket) Aggregation {
	var unrecognized []Bucket
	grid := make([][]Bucket, len(entity.Stages))
	for i := range grid {
		grid[i] = make([]Bucket, len(entity.Sources))
	}
	for _, b := range buckets {
		si, ri := b.Stage.Index(), b.Source.Index()
		if si < 0 || ri < 0 {
			unrecognized = append(unrecognized, b)
			continue
		}
		grid[si][ri].Count += b.Count
		grid[si][ri].Value += b.Value
	}

	agg := Aggregation{
		ByStage:      make([]StageTotals, len(entity.Stages)),
		BySource:     make(map[entity.Source]int64, len(entity.Sources)),
		Unrecognized: unrecognized,
	}
	for si, stage := range entity.Stages {
		row := StageTotals{Stage: stage}
		for ri, source := range entity.Sources {
			cell := grid[si][ri]
			row.Count += cell.Count
			row.Value += cell.Value
			if cell.Count > 0 {
				agg.BySource[source] += cell.Count
			}
		}
		agg.ByStage[si] = row

		agg.TotalLeads += row.Count
		if stage != entity.StageLost {
			agg.TotalValue += row.Value
		}
		if stage == entity.StageWon {
			agg.ConvertedLeads = row.Count
			agg.TotalWonValue = row.Value
		}
	}
	return agg
}
