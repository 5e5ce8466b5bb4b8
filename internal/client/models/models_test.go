package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_DecodesBackendProfile(t *testing.T) {
	body := `{
		"id": 7,
		"full_name": "Irving Nasri",
		"phone_number": "+250788123456",
		"gender": "Male",
		"birth_date": "1998-05-21",
		"is_verified": true,
		"roles": [
			{"id": 1, "name": "user", "display_name": "User", "description": "", "is_active": true},
			{"id": 2, "name": "Admin", "display_name": "Administrator", "description": "all", "is_active": false}
		],
		"created_at": "2024-05-01T10:00:00.123456"
	}`

	var a Account
	require.NoError(t, json.Unmarshal([]byte(body), &a))

	assert.Equal(t, GenderMale, a.Gender)
	require.NotNil(t, a.BirthDate)
	assert.Equal(t, "1998-05-21", a.BirthDate.String())
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), a.CreatedAt.Time)
	assert.True(t, a.HasRole("USER"))
	assert.False(t, a.HasRole("admin"), "inactive roles grant nothing")
	assert.Equal(t, []string{"user"}, a.RoleNames())
}

func TestAccount_NullBirthDate(t *testing.T) {
	var a Account
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"birth_date":null,"created_at":"2024-05-01T10:00:00Z"}`), &a))
	assert.Nil(t, a.BirthDate)
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestDate_MarshalRoundTrip(t *testing.T) {
	d, err := ParseDate("2001-02-03")
	require.NoError(t, err)

	b, err := json.Marshal(RegisterRequest{FullName: "Al", BirthDate: &d})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"birth_date":"2001-02-03"`)

	b, err = json.Marshal(RegisterRequest{FullName: "Al"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "birth_date")
	assert.NotContains(t, string(b), `"role"`)
}

func TestParseGender(t *testing.T) {
	g, ok := ParseGender(" Female ")
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	_, ok = ParseGender("robot")
	assert.False(t, ok)
}

func TestSession_CloneIsDeep(t *testing.T) {
	d, _ := ParseDate("1990-01-01")
	s := &Session{Token: "t", Account: Account{ID: 1, BirthDate: &d, Roles: []Role{{Name: "user", Active: true}}}}

	c := s.Clone()
	c.Account.Roles[0].Name = "admin"
	c.Account.BirthDate.Time = time.Time{}

	assert.Equal(t, "user", s.Account.Roles[0].Name)
	assert.Equal(t, "1990-01-01", s.Account.BirthDate.String())
	assert.Empty(t, cmp.Diff(s.Token, c.Token))

	var nilSession *Session
	assert.Nil(t, nilSession.Clone())
}
