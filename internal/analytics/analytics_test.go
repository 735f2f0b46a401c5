package analytics

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func oneLeadPerStage() []*entity.Lead {
	var leads []*entity.Lead
	for i, stage := range entity.Stages {
		leads = append(leads, &entity.Lead{Stage: stage, Source: entity.SourceWebsite, Value: float64((i + 1) * 100)})
	}
	return leads
}

func TestComputeOneLeadPerStage(t *testing.T) {
	m := Compute(Bucketize(oneLeadPerStage()))

	assert.Equal(t, int64(7), m.TotalLeads)
	assert.Equal(t, 2100.0, m.TotalValue)
	assert.Equal(t, int64(1), m.ConvertedLeads)
	assert.Equal(t, 14.29, m.ConversionRate)
	assert.Equal(t, 600.0, m.TotalWonValue)
	assert.Equal(t, 600.0, m.AverageDealSize)

	require.Len(t, m.LeadsByStage, 7)
	for i, sm := range m.LeadsByStage {
		assert.Equal(t, entity.Stages[i], sm.Stage)
		assert.Equal(t, int64(1), sm.Count)
		assert.Equal(t, float64((i+1)*100), sm.Value)
	}
	assert.Equal(t, []SourceMetric{{Source: entity.SourceWebsite, Count: 7}}, m.LeadsBySource)
}

func TestComputeEmptyCollection(t *testing.T) {
	m := Compute(nil)

	assert.Zero(t, m.TotalLeads)
	assert.Zero(t, m.TotalValue)
	assert.Zero(t, m.ConversionRate)
	assert.Zero(t, m.AverageDealSize)
	require.Len(t, m.LeadsByStage, len(entity.Stages))
	for _, sm := range m.LeadsByStage {
		assert.Zero(t, sm.Count)
	}
	assert.NotNil(t, m.LeadsBySource)
	assert.Empty(t, m.LeadsBySource)
}

func TestLeadsBySourceOrdersByCountThenEnum(t *testing.T) {
	m := Compute([]Bucket{
		{Stage: entity.StageNew, Source: entity.SourceOther, Count: 2},
		{Stage: entity.StageNew, Source: entity.SourceReferral, Count: 5},
		{Stage: entity.StageWon, Source: entity.SourceLinkedIn, Count: 2},
		{Stage: entity.StageLost, Source: entity.SourceReferral, Count: 1},
	})

	assert.Equal(t, []SourceMetric{
		{Source: entity.SourceReferral, Count: 6},
		{Source: entity.SourceLinkedIn, Count: 2},
		{Source: entity.SourceOther, Count: 2},
	}, m.LeadsBySource)
}

func TestStageCountsSumToTotal(t *testing.T) {
	m := Compute([]Bucket{
		{Stage: entity.StageQualified, Source: entity.SourceWebsite, Count: 3, Value: 30},
		{Stage: entity.StageWon, Source: entity.SourceWebsite, Count: 2, Value: 1000},
		{Stage: entity.StageWon, Source: entity.SourceReferral, Count: 1, Value: 500},
		{Stage: entity.StageLost, Source: entity.SourceOther, Count: 4, Value: 10000},
	})

	var sum int64
	for _, sm := range m.LeadsByStage {
		sum += sm.Count
	}
	assert.Equal(t, m.TotalLeads, sum)
	assert.Equal(t, int64(10), m.TotalLeads)
	assert.Equal(t, 1530.0, m.TotalValue)
	assert.Equal(t, 30.0, m.ConversionRate)
	assert.Equal(t, 500.0, m.AverageDealSize)
}

func TestAggregateIgnoresUnknownEnumsAndInputOrder(t *testing.T) {
	buckets := []Bucket{
		{Stage: entity.StageNew, Source: entity.SourceWebsite, Count: 1, Value: 0.1},
		{Stage: entity.StageProposal, Source: entity.SourceOther, Count: 1, Value: 0.2},
		{Stage: entity.StageWon, Source: entity.SourceColdCall, Count: 1, Value: 0.3},
		{Stage: entity.StageContacted, Source: entity.SourceLinkedIn, Count: 1, Value: 1e16},
		{Stage: "Archived", Source: entity.SourceWebsite, Count: 9, Value: 9},
	}
	want := Compute(buckets)
	assert.Equal(t, int64(4), want.TotalLeads)

	agg := Aggregate(buckets)
	require.Len(t, agg.Unrecognized, 1)
	assert.Equal(t, entity.Stage("Archived"), agg.Unrecognized[0].Stage)
	assert.Equal(t, int64(9), agg.Unrecognized[0].Count)
	assert.Empty(t, Aggregate(buckets[:4]).Unrecognized)

	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]Bucket(nil), buckets...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, Compute(shuffled))
	}
}

func TestAverageDealSizeIsNotRounded(t *testing.T) {
	m := Compute([]Bucket{{Stage: entity.StageWon, Source: entity.SourceWebsite, Count: 3, Value: 100}})
	assert.InDelta(t, 33.333333, m.AverageDealSize, 1e-6)
	assert.Equal(t, 100.0, m.ConversionRate)
}
