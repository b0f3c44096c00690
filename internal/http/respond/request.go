package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/http/session"
)

// Decode reads a JSON body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %w", ErrBadRequest, err)
	}

	return nil
}

// URLID parses the {name} route parameter as a uuid.
func URLID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return id, nil
}

// Query wraps url.Values with typed optional getters. The first parse error
// is kept in Err.
type Query struct {
	values url.Values
	Err    error
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

func (q *Query) String(key string) *string {
	if v := q.values.Get(key); v != "" {
		return &v
	}

	return nil
}

func (q *Query) UUID(key string) *uuid.UUID {
	v := q.values.Get(key)
	if v == "" {
		return nil
	}

	id, err := uuid.Parse(v)
	if err != nil {
		q.fail(fmt.Errorf("%w: invalid %s", ErrBadRequest, key))
		return nil
	}

	return &id
}

// Date accepts YYYY-MM-DD or RFC 3339.
func (q *Query) Date(key string) *time.Time {
	v := q.values.Get(key)
	if v == "" {
		return nil
	}

	t, err := ParseDate(v)
	if err != nil {
		q.fail(fmt.Errorf("%w: invalid %s", ErrBadRequest, key))
		return nil
	}

	return &t
}

func (q *Query) fail(err error) {
	if q.Err == nil {
		q.Err = err
	}
}

func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, v)
}

// Scope resolves ?scope=owner|renter to the caller's id. It returns the
// owner and renter ids to filter on, either of which may be nil.
func Scope(r *http.Request, owner, renter *string) (*string, *string, error) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		return owner, renter, nil
	}

	actor := session.FromContext(r.Context())
	if actor == "" {
		return nil, nil, fmt.Errorf("%w: scope requires an identified caller", ErrBadRequest)
	}

	switch scope {
	case "owner":
		return &actor, renter, nil
	case "renter":
		return owner, &actor, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown scope %q", ErrBadRequest, scope)
}
