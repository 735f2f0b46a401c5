package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Field names a sortable lead attribute by its JSON name.
type Field string

const (
	FieldID          Field = "id"
	FieldFirstName   Field = "firstName"
	FieldLastName    Field = "lastName"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldCompany     Field = "company"
	FieldSource      Field = "source"
	FieldStage       Field = "stage"
	FieldValue       Field = "value"
	FieldProbability Field = "probability"
	FieldNotes       Field = "notes"
	FieldAssignedTo  Field = "assignedTo"
	FieldCreatedAt   Field = "createdAt"
	FieldUpdatedAt   Field = "updatedAt"
)

var sortFields = []Field{
	FieldID, FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldCompany,
	FieldSource, FieldStage, FieldValue, FieldProbability, FieldNotes,
	FieldAssignedTo, FieldCreatedAt, FieldUpdatedAt,
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     Field
	Direction Direction
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: FieldCreatedAt, Direction: Desc}

// ParseSort validates a field/direction pair; empty values take the defaults.
func ParseSort(field, direction string) (Sort, error) {
	s := DefaultSort
	if field != "" {
		f := Field(field)
		if !slices.Contains(sortFields, f) {
			return Sort{}, entity.NewInvalidQuery("sortField", "unknown field %q", field)
		}
		s.Field = f
	}
	if direction != "" {
		switch d := Direction(strings.ToLower(direction)); d {
		case Asc, Desc:
			s.Direction = d
		default:
			return Sort{}, entity.NewInvalidQuery("sortDirection", "must be asc or desc, got %q", direction)
		}
	}
	return s, nil
}

// Compare orders a before b under s. Equal keys fall back to id ascending
// regardless of direction, so the order is total.
func (s Sort) Compare(a, b *entity.Lead) int {
	c := compareField(s.Field, a, b)
	if s.Direction == Desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortLeads orders leads in place.
func SortLeads(leads []*entity.Lead, s Sort) {
	slices.SortFunc(leads, s.Compare)
}

func compareField(f Field, a, b *entity.Lead) int {
	switch f {
	case FieldID:
		return strings.Compare(a.ID, b.ID)
	case FieldFirstName:
		return strings.Compare(a.FirstName, b.FirstName)
	case FieldLastName:
		return strings.Compare(a.LastName, b.LastName)
	case FieldEmail:
		return strings.Compare(a.Email, b.Email)
	case FieldPhone:
		return strings.Compare(a.Phone, b.Phone)
	case FieldCompany:
		return strings.Compare(a.Company, b.Company)
	case FieldSource:
		return strings.Compare(string(a.Source), string(b.Source))
	case FieldStage:
		return strings.Compare(string(a.Stage), string(b.Stage))
	case FieldValue:
		return cmp.Compare(a.Value, b.Value)
	case FieldProbability:
		return cmp.Compare(a.Probability, b.Probability)
	case FieldNotes:
		return strings.Compare(a.Notes, b.Notes)
	case FieldAssignedTo:
		return strings.Compare(a.AssignedTo, b.AssignedTo)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
