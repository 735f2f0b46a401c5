package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultAssignee = "Unassigned"

type Lead struct {
	ID          string    `json:"id" bson:"_id"`
	FirstName   string    `json:"firstName" bson:"firstName"`
	LastName    string    `json:"lastName" bson:"lastName"`
	Email       string    `json:"email" bson:"email"`
	Phone       string    `json:"phone" bson:"phone"`
	Company     string    `json:"company" bson:"company"`
	Source      Source    `json:"source" bson:"source"`
	Stage       Stage     `json:"stage" bson:"stage"`
	Value       float64   `json:"value" bson:"value"`
	Probability int       `json:"probability" bson:"probability"`
	Notes       string    `json:"notes" bson:"notes"`
	AssignedTo  string    `json:"assignedTo" bson:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// WeightedValue is value scaled by the win probability.
func (l Lead) WeightedValue() float64 {
	return l.Value * float64(l.Probability) / 100
}

// LeadDraft is the create payload. Empty source, stage and assignee take their defaults.
type LeadDraft struct {
	FirstName   string   `json:"firstName" validate:"required,max=50"`
	LastName    string   `json:"lastName" validate:"required,max=50"`
	Email       string   `json:"email" validate:"required,leademail"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company" validate:"required,max=100"`
	Source      Source   `json:"source" validate:"source"`
	Stage       Stage    `json:"stage" validate:"stage"`
	Value       *float64 `json:"value" validate:"omitnil,gte=0"`
	Probability *int     `json:"probability" validate:"omitnil,gte=0,lte=100"`
	Notes       string   `json:"notes" validate:"max=2000"`
	AssignedTo  string   `json:"assignedTo"`
}

func (d *LeadDraft) normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	d.AssignedTo = strings.TrimSpace(d.AssignedTo)
	if d.Source == "" {
		d.Source = SourceWebsite
	}
	if d.Stage == "" {
		d.Stage = StageNew
	}
	if d.AssignedTo == "" {
		d.AssignedTo = DefaultAssignee
	}
}

// NewLead validates the draft and assigns identifier and timestamps.
func NewLead(draft LeadDraft) (*Lead, error) {
	draft.normalize()
	if err := validateStruct(draft); err != nil {
		return nil, err
	}

	now := Now()
	lead := &Lead{
		ID:         uuid.New().String(),
		FirstName:  draft.FirstName,
		LastName:   draft.LastName,
		Email:      draft.Email,
		Phone:      draft.Phone,
		Company:    draft.Company,
		Source:     draft.Source,
		Stage:      draft.Stage,
		Notes:      draft.Notes,
		AssignedTo: draft.AssignedTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if draft.Value != nil {
		lead.Value = *draft.Value
	}
	if draft.Probability != nil {
		lead.Probability = *draft.Probability
	}
	return lead, nil
}

// Now is truncated to milliseconds, the coarsest precision among the stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// LeadPatch is a partial update. Nil fields are left untouched.
type LeadPatch struct {
	FirstName   *string  `json:"firstName,omitempty" validate:"omitnil,min=1,max=50"`
	LastName    *string  `json:"lastName,omitempty" validate:"omitnil,min=1,max=50"`
	Email       *string  `json:"email,omitempty" validate:"omitnil,leademail"`
	Phone       *string  `json:"phone,omitempty"`
	Company     *string  `json:"company,omitempty" validate:"omitnil,min=1,max=100"`
	Source      *Source  `json:"source,omitempty" validate:"omitnil,source"`
	Stage       *Stage   `json:"stage,omitempty" validate:"omitnil,stage"`
	Value       *float64 `json:"value,omitempty" validate:"omitnil,gte=0"`
	Probability *int     `json:"probability,omitempty" validate:"omitnil,gte=0,lte=100"`
	Notes       *string  `json:"notes,omitempty" validate:"omitnil,max=2000"`
	AssignedTo  *string  `json:"assignedTo,omitempty"`
}

// Normalize trims strings and lowercases the email the same way a draft is.
func (p *LeadPatch) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.FirstName)
	trim(p.LastName)
	trim(p.Phone)
	trim(p.Company)
	trim(p.AssignedTo)
	if p.Email != nil {
		*p.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.AssignedTo != nil && *p.AssignedTo == "" {
		*p.AssignedTo = DefaultAssignee
	}
}

// Validate checks only the supplied fields.
func (p LeadPatch) Validate() error {
	return validateStruct(p)
}

// FieldChange is one supplied patch field keyed by its JSON name.
// Enum values are carried as plain strings for the storage drivers.
type FieldChange struct {
	Field string
	Value any
}

func (p LeadPatch) Changes() []FieldChange {
	var out []FieldChange
	addString := func(field string, v *string) {
		if v != nil {
			out = append(out, FieldChange{Field: field, Value: *v})
		}
	}
	addString("firstName", p.FirstName)
	addString("lastName", p.LastName)
	addString("email", p.Email)
	addString("phone", p.Phone)
	addString("company", p.Company)
	if p.Source != nil {
		out = append(out, FieldChange{Field: "source", Value: string(*p.Source)})
	}
	if p.Stage != nil {
		out = append(out, FieldChange{Field: "stage", Value: string(*p.Stage)})
	}
	if p.Value != nil {
		out = append(out, FieldChange{Field: "value", Value: *p.Value})
	}
	if p.Probability != nil {
		out = append(out, FieldChange{Field: "probability", Value: *p.Probability})
	}
	addString("notes", p.Notes)
	addString("assignedTo", p.AssignedTo)
	return out
}

// Apply returns a copy of l with the patch applied and UpdatedAt refreshed.
func (l Lead) Apply(p LeadPatch, now time.Time) Lead {
	if p.FirstName != nil {
		l.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		l.LastName = *p.LastName
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.Probability != nil {
		l.Probability = *p.Probability
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
	if now.Before(l.CreatedAt) {
		now = l.CreatedAt
	}
	l.UpdatedAt = now
	return l
}
