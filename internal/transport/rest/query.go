package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// pathID extracts a UUID path segment registered as {id} on the route.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid uuid", name)
	}
	return id, nil
}

// queryUUID returns a pointer to the parsed UUID query parameter, or nil when
// the parameter is absent.
func queryUUID(q url.Values, name string) (*uuid.UUID, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid uuid", name)
	}
	return &id, nil
}

// queryTime returns a pointer to the RFC 3339 time query parameter, or nil
// when the parameter is absent.
func queryTime(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid RFC 3339 timestamp", name)
	}
	return &t, nil
}

// queryInt returns the integer query parameter or 0 when absent.
func queryInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid integer", name)
	}
	return n, nil
}

// queryString returns a pointer to the query parameter, or nil when absent.
func queryString(q url.Values, name string) *string {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}
