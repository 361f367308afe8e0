package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalFloatJSON(t *testing.T) {
	var body struct {
		Amount    OptionalFloat `json:"amount"`
		Fee       OptionalFloat `json:"fee"`
		Inception OptionalFloat `json:"inception"`
		Missing   OptionalFloat `json:"missing"`
		Null      OptionalFloat `json:"null"`
	}
	err := json.Unmarshal([]byte(`{"amount": 75000.5, "fee": "1.25", "inception": " ", "null": null}`), &body)
	require.NoError(t, err)

	assert.Equal(t, OptionalFloat{Value: 75000.5, Set: true}, body.Amount)
	assert.Equal(t, OptionalFloat{Value: 1.25, Set: true}, body.Fee)
	assert.False(t, body.Inception.Set)
	assert.False(t, body.Missing.Set)
	assert.False(t, body.Null.Set)
	assert.Nil(t, body.Null.Ptr())
	assert.Equal(t, 0.0, body.Missing.Or(0))
}

func TestOptionalFloatMalformed(t *testing.T) {
	var body struct {
		Amount OptionalFloat `json:"amount"`
	}
	err := json.Unmarshal([]byte(`{"amount": "lots"}`), &body)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	for _, in := range []string{"12abc", "NaN", "Inf", "-Infinity", "+inf"} {
		_, err = ParseOptionalFloat(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		in      string
		want    OptionalInt
		wantErr bool
	}{
		{"", OptionalInt{}, false},
		{"50", OptionalInt{Value: 50, Set: true}, false},
		{"80.0", OptionalInt{Value: 80, Set: true}, false},
		{"80.5", OptionalInt{}, true},
		{"eighty", OptionalInt{}, true},
		{"NaN", OptionalInt{}, true},
		{"Infinity", OptionalInt{}, true},
		{"1e300", OptionalInt{}, true},
	}
	for _, tt := range tests {
		got, err := ParseOptionalInt(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var body struct {
		Probability OptionalInt `json:"probability"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"probability": 0}`), &body))
	assert.Equal(t, OptionalInt{Value: 0, Set: true}, body.Probability)
	assert.Equal(t, 0, body.Probability.Or(50))
}

func TestOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("2024-02-15")
	require.NoError(t, err)
	assert.True(t, d.Set)
	assert.Equal(t, "2024-02-15", d.Value.Format(DateLayout))

	d, err = ParseOptionalDate("2024-02-15T13:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), d.Value)

	_, err = ParseOptionalDate("15/02/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOptionalDateTimeJSON(t *testing.T) {
	var body struct {
		Reminder OptionalDateTime `json:"reminder"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"reminder": "2024-01-20 10:00:00"}`), &body))
	require.NotNil(t, body.Reminder.Ptr())
	assert.Equal(t, time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC), *body.Reminder.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"reminder": ""}`), &body))
	assert.False(t, body.Reminder.Set)
}

func TestCustomErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NotFound("Contact"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, 404, AsCustomError(wrapped).Code)
	assert.Equal(t, "Contact not found", AsCustomError(wrapped).Message)

	cause := errors.New("disk full")
	ce := AsCustomError(cause)
	assert.Equal(t, TypeUnexpected, ce.Type)
	assert.ErrorIs(t, ce, cause)
	assert.Nil(t, AsCustomError(nil))
}
