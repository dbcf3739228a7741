package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := GenerateJWT(&JWTClaims{
		UserID:    "user-a",
		SessionID: "session-1",
		Type:      "access",
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "roommate-backend",
	}, "secret")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-a", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "access", claims.Type)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	token, err := GenerateJWT(&JWTClaims{
		UserID:    "user-a",
		Type:      "access",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}, "secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestValidateJWTRequiresUserID(t *testing.T) {
	token, err := GenerateJWT(&JWTClaims{Type: "access", ExpiresAt: time.Now().Add(time.Hour).Unix()}, "secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		CandidateID string `json:"candidate_id" validate:"required"`
		Mode        string `json:"mode" validate:"omitempty,oneof=by_college by_distance"`
		Cleanliness *int   `json:"cleanliness" validate:"omitempty,gte=1,lte=5"`
	}

	require.NoError(t, ValidateStruct(request{CandidateID: "b", Mode: "by_distance"}))

	six := 6
	err := ValidateStruct(request{Mode: "nearby", Cleanliness: &six})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CandidateID is required")
	assert.Contains(t, err.Error(), "Mode must be one of")
	assert.Contains(t, err.Error(), "Cleanliness must be less than or equal to 5")
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusNotFound, "profile not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "profile not found", body.Error)
}
