package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOpportunity(t *testing.T, body string) OpportunityInput {
	t.Helper()
	var in OpportunityInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestCreateOpportunityDefaults(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")

	opp, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Portfolio Review","contact":"John Smith","amount":"","probability":null}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultAmount, opp.Amount)
	assert.Equal(t, DefaultProbability, opp.Probability)
	assert.Equal(t, models.StageProspecting, opp.Stage)
	assert.False(t, opp.CloseDate.Valid)
	assert.Nil(t, opp.Reminder)

	zero, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Lost cause","contact":"Jane","amount":0,"probability":0,"stage":"closed-lost","close_date":"2024-01-30"}`))
	require.NoError(t, err)

	stored, err := GetOpportunity(db, owner.ID, zero.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.Amount)
	assert.Equal(t, 0, stored.Probability)
	assert.Equal(t, models.StageClosedLost, stored.Stage)
	assert.Equal(t, "2024-01-30", stored.CloseDate.String())
}

func TestCreateOpportunityValidation(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing title", `{"contact":"John"}`, "Title and contact are required"},
		{"blank contact", `{"title":"Deal","contact":"  "}`, "Title and contact are required"},
		{"bad stage", `{"title":"Deal","contact":"John","stage":"won"}`, "Invalid stage"},
		{"probability too high", `{"title":"Deal","contact":"John","probability":101}`, "Probability must be between 0 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t, tt.body))
			require.Error(t, err)
			assert.True(t, types.IsValidation(err))
			assert.Equal(t, tt.msg, types.AsCustomError(err).Message)
		})
	}

	var in OpportunityInput
	err := json.Unmarshal([]byte(`{"title":"Deal","contact":"John","amount":"lots"}`), &in)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestUpdateOpportunity(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")
	opp, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Deal","contact":"John","amount":1000,"probability":70,"notes":"warm"}`))
	require.NoError(t, err)

	updated, err := UpdateOpportunity(db, owner.ID, opp.ID, decodeOpportunity(t,
		`{"amount":"2500.5","reminder":"2024-02-20T10:00","stage":""}`))
	require.NoError(t, err)
	assert.Equal(t, "Deal", updated.Title)
	assert.Equal(t, 2500.5, updated.Amount)
	assert.Equal(t, 70, updated.Probability)
	assert.Equal(t, "warm", updated.Notes)
	assert.Equal(t, models.StageProspecting, updated.Stage)
	require.NotNil(t, updated.Reminder)
	assert.True(t, updated.Reminder.Equal(time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)))

	_, err = UpdateOpportunity(db, owner.ID, opp.ID, decodeOpportunity(t, `{"title":""}`))
	assert.True(t, types.IsValidation(err))
}

func TestOpportunityStageAndReminder(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")
	opp, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Deal","contact":"John","reminder":"2024-02-20 09:30"}`))
	require.NoError(t, err)

	_, err = UpdateOpportunityStage(db, owner.ID, opp.ID, nil)
	assert.Equal(t, "Stage is required", types.AsCustomError(err).Message)
	_, err = UpdateOpportunityStage(db, owner.ID, opp.ID, str("done"))
	assert.Equal(t, "Invalid stage", types.AsCustomError(err).Message)

	moved, err := UpdateOpportunityStage(db, owner.ID, opp.ID, str(models.StageNegotiation))
	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, moved.Stage)

	require.NoError(t, ClearOpportunityReminder(db, owner.ID, opp.ID))
	stored, err := GetOpportunity(db, owner.ID, opp.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Reminder)
	assert.Equal(t, models.StageNegotiation, stored.Stage)
}

func TestOpportunitiesAreIsolatedByOwner(t *testing.T) {
	db := newStore(t)
	alice := newUser(t, db, "alice@example.com")
	bob := newUser(t, db, "bob@example.com")
	opp, err := CreateOpportunity(db, alice.ID, decodeOpportunity(t, `{"title":"Deal","contact":"John"}`))
	require.NoError(t, err)

	_, err = GetOpportunity(db, bob.ID, opp.ID)
	assert.True(t, types.IsNotFound(err))
	_, err = UpdateOpportunityStage(db, bob.ID, opp.ID, str(models.StageProposal))
	assert.True(t, types.IsNotFound(err))
	assert.True(t, types.IsNotFound(ClearOpportunityReminder(db, bob.ID, opp.ID)))
	assert.True(t, types.IsNotFound(DeleteOpportunity(db, bob.ID, opp.ID)))

	list, err := ListOpportunities(db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, DeleteOpportunity(db, alice.ID, opp.ID))
	_, err = GetOpportunity(db, alice.ID, opp.ID)
	assert.True(t, types.IsNotFound(err))
}
