package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		year, month int
		want        YearMonth
	}{
		{2024, 2, YearMonth{2024, time.February}},
		{2024, 13, YearMonth{2025, time.January}},
		{2024, 0, YearMonth{2023, time.December}},
		{2024, -1, YearMonth{2023, time.November}},
		{2024, 26, YearMonth{2026, time.February}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMonth(tt.year, tt.month), "%d-%d", tt.year, tt.month)
	}
}

func TestMonthGrid(t *testing.T) {
	// February 2024 starts on a Thursday and has 29 days
	weeks := MonthGrid(YearMonth{2024, time.February})
	require.Len(t, weeks, 5)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2, 3}, weeks[0])
	assert.Equal(t, []int{25, 26, 27, 28, 29, 0, 0}, weeks[4])

	// September 2024 starts on a Sunday
	weeks = MonthGrid(YearMonth{2024, time.September})
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, weeks[0])
	assert.Equal(t, []int{29, 30, 0, 0, 0, 0, 0}, weeks[len(weeks)-1])
}

func TestCalendarCollectsNotesAndReminders(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")
	other := newUser(t, db, "b@example.com")

	var in CalendarNoteInput
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-02-15","content":"Quarterly review"}`), &in))
	note, err := CreateCalendarNote(db, owner.ID, in)
	require.NoError(t, err)
	_, err = CreateCalendarNote(db, other.ID, in)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-01","content":"Next month"}`), &in))
	_, err = CreateCalendarNote(db, owner.ID, in)
	require.NoError(t, err)

	_, err = CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Follow up","contact":"John","reminder":"2024-02-20T10:00:00"}`))
	require.NoError(t, err)
	_, err = CreateOpportunity(db, owner.ID, decodeOpportunity(t,
		`{"title":"Later","contact":"Jane","reminder":"2024-03-02T10:00:00"}`))
	require.NoError(t, err)

	cal, err := Calendar(db, owner.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "February", cal.MonthName)
	assert.Equal(t, YearMonth{2024, time.January}, cal.Prev)
	assert.Equal(t, YearMonth{2024, time.March}, cal.Next)
	assert.Equal(t, "2024-02-15", cal.DateKey(15))

	require.Len(t, cal.NotesByDate, 1)
	require.Len(t, cal.NotesByDate["2024-02-15"], 1)
	assert.Equal(t, note.ID, cal.NotesByDate["2024-02-15"][0].ID)

	require.Len(t, cal.RemindersByDate, 1)
	require.Len(t, cal.RemindersByDate["2024-02-20"], 1)
	assert.Equal(t, "Follow up", cal.RemindersByDate["2024-02-20"][0].Title)

	dec, err := Calendar(db, owner.ID, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, 2023, dec.Year)
	assert.Equal(t, time.December, dec.Month)
	assert.Empty(t, dec.NotesByDate)
}

func TestCalendarNoteCRUD(t *testing.T) {
	db := newStore(t)
	owner := newUser(t, db, "a@example.com")
	other := newUser(t, db, "b@example.com")

	_, err := CreateCalendarNote(db, owner.ID, CalendarNoteInput{Content: str("no date")})
	assert.Equal(t, "Date and content are required", types.AsCustomError(err).Message)

	day, err := types.ParseOptionalDate("2024-02-15")
	require.NoError(t, err)
	_, err = CreateCalendarNote(db, owner.ID, CalendarNoteInput{Date: day})
	assert.True(t, types.IsValidation(err))

	note, err := CreateCalendarNote(db, owner.ID, CalendarNoteInput{Date: day, Content: str("Review")})
	require.NoError(t, err)

	moved, err := types.ParseOptionalDate("2024-02-16")
	require.NoError(t, err)
	updated, err := UpdateCalendarNote(db, owner.ID, note.ID, CalendarNoteInput{Date: moved})
	require.NoError(t, err)
	assert.Equal(t, "Review", updated.Content)
	assert.Equal(t, "2024-02-16", updated.NoteDate.String())

	_, err = UpdateCalendarNote(db, other.ID, note.ID, CalendarNoteInput{Content: str("mine now")})
	assert.True(t, types.IsNotFound(err))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	notes, err := ListCalendarNotes(db, owner.ID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.True(t, types.IsNotFound(DeleteCalendarNote(db, other.ID, note.ID)))
	require.NoError(t, DeleteCalendarNote(db, owner.ID, note.ID))
	notes, err = ListCalendarNotes(db, owner.ID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, notes)
}
