package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validDraft() LeadDraft {
	return LeadDraft{
		FirstName: "  Ada ",
		LastName:  "Lovelace",
		Email:     " Ada@Example.COM ",
		Company:   "Analytical Engines",
	}
}

func TestNewLeadAppliesDefaults(t *testing.T) {
	l, err := NewLead(validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Ada", l.FirstName)
	assert.Equal(t, "ada@example.com", l.Email)
	assert.Equal(t, SourceWebsite, l.Source)
	assert.Equal(t, StageNew, l.Stage)
	assert.Equal(t, DefaultAssignee, l.AssignedTo)
	assert.Zero(t, l.Value)
	assert.Zero(t, l.Probability)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
	assert.Equal(t, time.UTC, l.CreatedAt.Location())
}

func TestNewLeadKeepsSuppliedFields(t *testing.T) {
	d := validDraft()
	d.Source = SourceTradeShow
	d.Stage = StageProposal
	d.Value = ptr(1500.5)
	d.Probability = ptr(40)
	d.AssignedTo = "Grace"

	l, err := NewLead(d)
	require.NoError(t, err)
	assert.Equal(t, SourceTradeShow, l.Source)
	assert.Equal(t, StageProposal, l.Stage)
	assert.Equal(t, 1500.5, l.Value)
	assert.Equal(t, 40, l.Probability)
	assert.Equal(t, "Grace", l.AssignedTo)
	assert.Equal(t, 600.2, l.WeightedValue())
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestNewLeadReportsEveryInvalidField(t *testing.T) {
	_, err := NewLead(LeadDraft{
		LastName:    strings.Repeat("x", 51),
		Email:       "not-an-email",
		Stage:       "Closed",
		Source:      "Billboard",
		Value:       ptr(-1.0),
		Probability: ptr(101),
		Notes:       strings.Repeat("n", 2001),
	})

	msgs := fieldMessages(t, err)
	assert.Equal(t, "is required", msgs["firstName"])
	assert.Equal(t, "cannot exceed 50 characters", msgs["lastName"])
	assert.Equal(t, "must be a valid email", msgs["email"])
	assert.Equal(t, "is required", msgs["company"])
	assert.Contains(t, msgs["stage"], "New, Contacted")
	assert.Contains(t, msgs["source"], "Cold Call")
	assert.Equal(t, "cannot be negative", msgs["value"])
	assert.Equal(t, "cannot exceed 100", msgs["probability"])
	assert.Equal(t, "cannot exceed 2000 characters", msgs["notes"])
	assert.True(t, IsValidationError(err))
}

func TestIsValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last@sub.example.org"} {
		assert.True(t, IsValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "a@b", "@b.co", "a b@c.co", "a@b c.co"} {
		assert.False(t, IsValidEmail(bad), bad)
	}
}

func TestLeadPatchValidatesOnlySuppliedFields(t *testing.T) {
	assert.NoError(t, LeadPatch{}.Validate())
	assert.NoError(t, LeadPatch{Stage: ptr(StageWon)}.Validate())

	msgs := fieldMessages(t, LeadPatch{FirstName: ptr(""), Probability: ptr(-5)}.Validate())
	assert.Equal(t, "is required", msgs["firstName"])
	assert.Equal(t, "cannot be negative", msgs["probability"])
	assert.Len(t, msgs, 2)
}

func TestLeadPatchNormalize(t *testing.T) {
	p := LeadPatch{Email: ptr("  BOB@Example.com"), AssignedTo: ptr("   "), Company: ptr(" Acme ")}
	p.Normalize()

	assert.Equal(t, "bob@example.com", *p.Email)
	assert.Equal(t, DefaultAssignee, *p.AssignedTo)
	assert.Equal(t, "Acme", *p.Company)
}

func TestLeadPatchChangesUseJSONNames(t *testing.T) {
	changes := LeadPatch{Stage: ptr(StageWon), Value: ptr(10.0), Notes: ptr("")}.Changes()

	require.Len(t, changes, 3)
	assert.Equal(t, FieldChange{Field: "stage", Value: "Won"}, changes[0])
	assert.Equal(t, FieldChange{Field: "value", Value: 10.0}, changes[1])
	assert.Equal(t, FieldChange{Field: "notes", Value: ""}, changes[2])
	assert.Empty(t, LeadPatch{}.Changes())
}

func TestApplyKeepsUpdatedAtAfterCreatedAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := Lead{ID: "1", Stage: StageNew, Value: 5, CreatedAt: created, UpdatedAt: created}

	got := l.Apply(LeadPatch{Stage: ptr(StageQualified)}, created.Add(-time.Hour))
	assert.Equal(t, StageQualified, got.Stage)
	assert.Equal(t, 5.0, got.Value)
	assert.Equal(t, created, got.UpdatedAt)
	assert.Equal(t, StageNew, l.Stage, "receiver is not modified")

	later := created.Add(time.Minute)
	assert.Equal(t, later, l.Apply(LeadPatch{}, later).UpdatedAt)
}

func TestParseEnums(t *testing.T) {
	s, err := ParseStage("Negotiation")
	require.NoError(t, err)
	assert.Equal(t, StageNegotiation, s)

	_, err = ParseStage("negotiation")
	assert.ErrorContains(t, err, `unknown stage "negotiation"`)

	src, err := ParseSource("Email Campaign")
	require.NoError(t, err)
	assert.Equal(t, SourceEmailCampaign, src)

	_, err = ParseSource("Fax")
	assert.Error(t, err)

	assert.Equal(t, 5, StageWon.Index())
	assert.Equal(t, -1, Stage("Closed").Index())
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsInvalidQueryError(NewInvalidQuery("limit", "must be %d", 1)))
	assert.EqualError(t, NewInvalidQuery("limit", "bad"), "invalid query parameter limit: bad")

	unavailable := &StoreUnavailableError{Store: "mongo", Err: ErrLeadNotFound}
	assert.True(t, IsStoreUnavailable(unavailable))
	assert.ErrorIs(t, unavailable, ErrLeadNotFound)
	assert.False(t, IsStoreUnavailable(ErrLeadNotFound))
}
