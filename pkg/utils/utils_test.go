package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotForm struct {
	Date  string `validate:"required,isodate"`
	Start string `validate:"required,hhmm"`
	Phone string `validate:"required,min=9,max=20"`
}

func TestValidateStructCustomTags(t *testing.T) {
	assert.Empty(t, ValidateStruct(slotForm{Date: "2026-02-16", Start: "09:30", Phone: "01012345678"}))

	errs := ValidateStruct(slotForm{Date: "2026/02/16", Start: "9:30", Phone: "010"})
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", errs["Date"])
	assert.Equal(t, "Must be a time in HH:MM format", errs["Start"])
	assert.Equal(t, "Minimum is 9", errs["Phone"])
	assert.Contains(t, FormatValidationErrors(errs), "Date: ")
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "1234"))
	assert.False(t, CheckPassword(hash, "4321"))
	assert.False(t, CheckPassword("not-a-hash", "1234"))
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager(JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	now := time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, expiresAt, err := m.Generate("admin")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleStaff, claims.Role)

	other := NewTokenManager(JWTConfig{Secret: "other-secret", ExpiryHours: 1})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = m.Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResponseHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	ResponseConflict(rr, "slot taken", map[string]string{"kind": "block"})
	assert.Equal(t, 409, rr.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Status)
	assert.Equal(t, CodeConflict, body.Code)
	assert.Equal(t, "slot taken", body.Message)

	rr = httptest.NewRecorder()
	ResponseBadRequestCode(rr, CodeOutOfHours, "closed")
	assert.Equal(t, 400, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, CodeOutOfHours, body.Code)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("x", 1))
	assert.Equal(t, 10, ParseInt("-4", 10))
}
