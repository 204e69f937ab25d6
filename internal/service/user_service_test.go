package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTimezone(t *testing.T) {
	cases := []struct {
		tz    string
		valid bool
	}{
		{"America/New_York", true},
		{"UTC", true},
		{"Europe/Berlin", true},
		{"America/NewYork", false},
		{"Local", false},
		{"ab", false},
		{strings.Repeat("a", 36), false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateTimezone(tc.tz)
		if tc.valid {
			assert.NoError(t, err, tc.tz)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTimezone, tc.tz)
		}
	}
}

func TestParseUserIDCanonicalizes(t *testing.T) {
	id, err := ParseUserID(" 5B3B4A9E-7F0E-4A43-9A36-2B7C8F2F4B11 ")
	require.NoError(t, err)
	assert.Equal(t, "5b3b4a9e-7f0e-4a43-9a36-2b7c8f2f4b11", id)

	_, err = ParseUserID("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestCreateAndGetUser(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	user, apiErr := f.users.CreateUser(ctx, "America/New_York")
	require.Nil(t, apiErr)
	require.NotEmpty(t, user.ID)

	loaded, apiErr := f.users.GetUser(ctx, strings.ToUpper(user.ID))
	require.Nil(t, apiErr)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, "America/New_York", loaded.Timezone)
}

func TestCreateUserRejectsUnknownTimezone(t *testing.T) {
	f := setupServices(t)

	_, apiErr := f.users.CreateUser(context.Background(), "America/NewYork")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid timezone: America/NewYork", apiErr.Message)
}

func TestGetUserErrors(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, apiErr := f.users.GetUser(ctx, "nope")
	require.NotNil(t, apiErr)
	assert.Equal(t, "Invalid UUID", apiErr.Message)

	_, apiErr = f.users.GetUser(ctx, "5b3b4a9e-7f0e-4a43-9a36-2b7c8f2f4b11")
	require.NotNil(t, apiErr)
	assert.Equal(t, "User not found", apiErr.Message)
}
