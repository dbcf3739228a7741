package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/imadgeboyega/roommate-backend/internal/common/utils"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *utils.JWTClaims) string {
	t.Helper()
	token, err := utils.GenerateJWT(claims, testSecret)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantUser    string
		wantSession string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token",
			header:     "Bearer " + signToken(t, &utils.JWTClaims{UserID: "u1", Type: "refresh", ExpiresAt: exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "access token with session",
			header:      "Bearer " + signToken(t, &utils.JWTClaims{UserID: "u1", SessionID: "s1", Type: "access", ExpiresAt: exp}),
			wantStatus:  http.StatusOK,
			wantUser:    "u1",
			wantSession: "s1",
		},
		{
			name:        "access token without session",
			header:      "Bearer " + signToken(t, &utils.JWTClaims{UserID: "u2", Type: "access", ExpiresAt: exp}),
			wantStatus:  http.StatusOK,
			wantUser:    "u2",
			wantSession: "u2",
		},
	}

	mw := NewMiddleware(JWTValidator{Secret: testSecret}, zaptest.NewLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotSession string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserIDFromContext(r.Context())
				gotSession, _ = GetSessionIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/matching/feed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			assert.Equal(t, tt.wantSession, gotSession)
		})
	}
}
