package services

import (
	"testing"

	"github.com/localnerve/bluefin-crm/internal/auth"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	db := newStore(t)
	_, err := Signup(db, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   SignupInput
		msg  string
	}{
		{"missing email", SignupInput{Name: "Ann", Password: "secret1", ConfirmPassword: "secret1"}, "Name and email are required"},
		{"mismatch", SignupInput{Name: "Bo", Email: "bo@example.com", Password: "secret1", ConfirmPassword: "secret2"}, "Passwords do not match"},
		{"short", SignupInput{Name: "Bo", Email: "bo@example.com", Password: "abc", ConfirmPassword: "abc"}, "Password must be at least 6 characters"},
		{"duplicate", SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"}, "Email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Signup(db, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.msg, types.AsCustomError(err).Message)
		})
	}
}

func TestSignupThenAuthenticate(t *testing.T) {
	db := newStore(t)
	user, err := Signup(db, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(user.Password))

	got, err := Authenticate(db, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = Authenticate(db, "ann@example.com", "wrong!")
	assert.Equal(t, ErrInvalidCredentials, err)
	_, err = Authenticate(db, "nobody@example.com", "secret1")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestAuthenticateUpgradesPlaintext(t *testing.T) {
	db := newStore(t)
	legacy := &models.User{Email: "old@example.com", Password: "password123", Name: "Old"}
	require.NoError(t, db.Create(legacy).Error)

	_, err := Authenticate(db, "old@example.com", "password123")
	require.NoError(t, err)

	stored, err := GetUser(db, legacy.ID)
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(stored.Password))

	_, err = Authenticate(db, "old@example.com", "password123")
	assert.NoError(t, err)

	_, err = GetUser(db, 999)
	assert.True(t, types.IsNotFound(err))
}
