package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActorHeader names the caller when no token secret is configured.
const ActorHeader = "X-Actor-ID"

var ErrInvalidToken = errors.New("invalid token")

type ctxKey struct{}

// FromContext returns the principal id of the request, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithActor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware attaches the caller's principal id to the request context.
// With a secret, a bearer HS256 token must carry it in "sub"; a missing
// header leaves the request anonymous and a bad token is rejected with 401.
// Without a secret the X-Actor-ID header is trusted as is.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				if id := strings.TrimSpace(r.Header.Get(ActorHeader)); id != "" {
					r = r.WithContext(WithActor(r.Context(), id))
				}

				next.ServeHTTP(w, r)

				return
			}

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			id, err := Subject(secret, strings.TrimSpace(raw))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid token"}` + "\n"))

				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), id)))
		})
	}
}

// Subject validates token and returns its "sub" claim.
func Subject(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	return sub, nil
}

// NewToken signs an HS256 token for subject valid for ttl.
func NewToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString([]byte(secret))
}
