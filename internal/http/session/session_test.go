package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
)

func serve(t *testing.T, secret string, setup func(r *http.Request)) (int, string) {
	t.Helper()

	var got string

	h := session.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(r)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w.Code, got
}

func TestMiddleware(t *testing.T) {
	const secret = "s3cret"

	valid, err := session.NewToken(secret, "owner-1", time.Hour)
	require.NoError(t, err)

	expired, err := session.NewToken(secret, "owner-1", -time.Hour)
	require.NoError(t, err)

	foreign, err := session.NewToken("other", "owner-1", time.Hour)
	require.NoError(t, err)

	type testCase struct {
		name       string
		secret     string
		setup      func(r *http.Request)
		wantStatus int
		wantActor  string
	}

	tests := []testCase{
		{
			name:       "HeaderWithoutSecret",
			setup:      func(r *http.Request) { r.Header.Set(session.ActorHeader, "renter-9") },
			wantStatus: http.StatusOK,
			wantActor:  "renter-9",
		},
		{
			name:       "Anonymous",
			secret:     secret,
			setup:      func(*http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "HeaderIgnoredWithSecret",
			secret:     secret,
			setup:      func(r *http.Request) { r.Header.Set(session.ActorHeader, "renter-9") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "ValidToken",
			secret:     secret,
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
			wantActor:  "owner-1",
		},
		{
			name:       "ExpiredToken",
			secret:     secret,
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "WrongKey",
			secret:     secret,
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, actor := serve(t, tt.secret, tt.setup)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantActor, actor)
		})
	}
}

func TestSubject(t *testing.T) {
	token, err := session.NewToken("k", "owner-1", time.Minute)
	require.NoError(t, err)

	sub, err := session.Subject("k", token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", sub)

	_, err = session.Subject("k", "not-a-token")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}
