package services

import (
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotes(t *testing.T) {
	db := newStore(t)
	at := time.Date(2024, 2, 15, 9, 5, 0, 0, time.UTC)

	_, err := CreateNote(db, "Ann", str(" "), at)
	assert.True(t, types.IsValidation(err))

	_, err = CreateNote(db, "Ann", str("first"), at)
	require.NoError(t, err)
	second, err := CreateNote(db, "Bo", str("second"), at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-15 09:06", second.Timestamp)

	notes, err := ListNotes(db)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Bo", notes[0].Author)
	assert.Equal(t, "first", notes[1].Content)
}
