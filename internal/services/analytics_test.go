package services

import (
	"fmt"
	"testing"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")
	other := newUser(t, db, "b@example.com")

	seed := []struct {
		stage  string
		amount float64
		close  string
	}{
		{models.StageProspecting, 1000, "2024-01-10"},
		{models.StageProspecting, 2000, "2024-02-10"},
		{models.StageClosedWon, 5000, "2024-02-20"},
		{models.StageNegotiation, 700, ""},
	}
	for i, s := range seed {
		body := fmt.Sprintf(`{"title":"Deal %d","contact":"John","stage":%q,"amount":%v,"close_date":%q}`, i, s.stage, s.amount, s.close)
		_, err := CreateOpportunity(db, owner.ID, decodeOpportunity(t, body))
		require.NoError(t, err)
	}
	_, err := CreateOpportunity(db, other.ID, decodeOpportunity(t, `{"title":"Theirs","contact":"X","stage":"proposal"}`))
	require.NoError(t, err)

	for _, c := range []ContactInput{
		{Name: str("A"), Firm: str("UBS")},
		{Name: str("B"), Firm: str("UBS")},
		{Name: str("C"), Firm: str("Morgan Stanley")},
		{Name: str("D")},
	} {
		_, err := CreateContact(db, owner.ID, c)
		require.NoError(t, err)
	}

	all, err := GetAnalytics(db, owner.ID, AnalyticsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalOpportunities)
	assert.Equal(t, int64(4), all.TotalContacts)
	assert.Equal(t, []StageCount{
		{Stage: models.StageProspecting, Count: 2, Amount: 3000},
		{Stage: models.StageNegotiation, Count: 1, Amount: 700},
		{Stage: models.StageClosedWon, Count: 1, Amount: 5000},
	}, all.ByStage)
	assert.Equal(t, []FirmCount{{Firm: "UBS", Count: 2}, {Firm: "Morgan Stanley", Count: 1}}, all.ByFirm)

	feb, err := GetAnalytics(db, owner.ID, AnalyticsFilter{StartDate: "2024-02-01", EndDate: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), feb.TotalOpportunities)
	assert.Equal(t, "2024-02-01", feb.StartDate)

	from, err := GetAnalytics(db, owner.ID, AnalyticsFilter{StartDate: "2024-02-15"})
	require.NoError(t, err)
	require.Len(t, from.ByStage, 1)
	assert.Equal(t, models.StageClosedWon, from.ByStage[0].Stage)

	until, err := GetAnalytics(db, owner.ID, AnalyticsFilter{EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), until.TotalOpportunities)

	_, err = GetAnalytics(db, owner.ID, AnalyticsFilter{EndDate: "soon"})
	assert.True(t, types.IsValidation(err))
}

func TestOrderStagesKeepsUnknownStagesLast(t *testing.T) {
	ordered := orderStages([]StageCount{
		{Stage: "legacy", Count: 1},
		{Stage: models.StageClosedLost, Count: 2},
		{Stage: models.StageQualifying, Count: 3},
	})
	require.Len(t, ordered, 3)
	assert.Equal(t, models.StageQualifying, ordered[0].Stage)
	assert.Equal(t, models.StageClosedLost, ordered[1].Stage)
	assert.Equal(t, "legacy", ordered[2].Stage)
}
