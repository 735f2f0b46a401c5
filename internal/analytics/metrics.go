package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type StageMetric struct {
	Stage entity.Stage `json:"stage"`
	Count int64        `json:"count"`
	Value float64      `json:"value"`
}

type SourceMetric struct {
	Source entity.Source `json:"source"`
	Count  int64         `json:"count"`
}

// Metrics is the analytics endpoint payload.
type Metrics struct {
	TotalLeads      int64          `json:"totalLeads"`
	TotalValue      float64        `json:"totalValue"`
	ConvertedLeads  int64          `json:"convertedLeads"`
	ConversionRate  float64        `json:"conversionRate"`
	LeadsByStage    []StageMetric  `json:"leadsByStage"`
	LeadsBySource   []SourceMetric `json:"leadsBySource"`
	AverageDealSize float64        `json:"averageDealSize"`
	TotalWonValue   float64        `json:"totalWonValue"`
}

// Compose turns an aggregation into the payload. Stages keep pipeline order;
// sources are sorted by count descending, ties in enum order.
func Compose(a Aggregation) Metrics {
	m := Metrics{
		TotalLeads:     a.TotalLeads,
		TotalValue:     a.TotalValue,
		ConvertedLeads: a.ConvertedLeads,
		TotalWonValue:  a.TotalWonValue,
		LeadsByStage:   make([]StageMetric, 0, len(a.ByStage)),
		LeadsBySource:  make([]SourceMetric, 0, len(a.BySource)),
	}

	if a.TotalLeads > 0 {
		m.ConversionRate = round2(float64(a.ConvertedLeads) / float64(a.TotalLeads) * 100)
	}
	if a.ConvertedLeads > 0 {
		m.AverageDealSize = a.TotalWonValue / float64(a.ConvertedLeads)
	}

	for _, s := range a.ByStage {
		m.LeadsByStage = append(m.LeadsByStage, StageMetric{Stage: s.Stage, Count: s.Count, Value: s.Value})
	}

	for _, source := range entity.Sources {
		if n := a.BySource[source]; n > 0 {
			m.LeadsBySource = append(m.LeadsBySource, SourceMetric{Source: source, Count: n})
		}
	}
	slices.SortStableFunc(m.LeadsBySource, func(x, y SourceMetric) int {
		return cmp.Compare(y.Count, x.Count)
	})

	return m
}

// Compute is Aggregate followed by Compose.
func Compute(buckets []Bucket) Metrics {
	return Compose(Aggregate(buckets))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
