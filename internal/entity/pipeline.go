package entity

import (
	"fmt"
	"strings"
)

// Stage is the position of a lead in the sales funnel.
type Stage string

const (
	StageNew         Stage = "New"
	StageContacted   Stage = "Contacted"
	StageQualified   Stage = "Qualified"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageWon         Stage = "Won"
	StageLost        Stage = "Lost"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageNew,
	StageContacted,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// Source is the channel a lead was acquired through.
type Source string

const (
	SourceWebsite       Source = "Website"
	SourceLinkedIn      Source = "LinkedIn"
	SourceReferral      Source = "Referral"
	SourceColdCall      Source = "Cold Call"
	SourceTradeShow     Source = "Trade Show"
	SourceSocialMedia   Source = "Social Media"
	SourceEmailCampaign Source = "Email Campaign"
	SourceOther         Source = "Other"
)

// Sources lists every source in declaration order.
var Sources = []Source{
	SourceWebsite,
	SourceLinkedIn,
	SourceReferral,
	SourceColdCall,
	SourceTradeShow,
	SourceSocialMedia,
	SourceEmailCampaign,
	SourceOther,
}

// Index returns the pipeline position of s, or -1 when s is not a stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool { return s.Index() >= 0 }

// Index returns the declaration position of s, or -1 when s is not a source.
func (s Source) Index() int {
	for i, src := range Sources {
		if src == s {
			return i
		}
	}
	return -1
}

func (s Source) Valid() bool { return s.Index() >= 0 }

// ParseStage accepts only exact stage names.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stage %q (expected one of %s)", raw, StageNames())
	}
	return s, nil
}

// ParseSource accepts only exact source names.
func ParseSource(raw string) (Source, error) {
	s := Source(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown source %q (expected one of %s)", raw, SourceNames())
	}
	return s, nil
}

func StageNames() string {
	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func SourceNames() string {
	names := make([]string, len(Sources))
	for i, s := range Sources {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
