package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
)

// ParseQueryInt reads an integer query parameter with range enforcement.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePagination reads offset/limit query parameters. Absent, malformed or
// out-of-range values are coerced to the defaults rather than rejected.
func ParsePagination(r *http.Request) pagination.Window {
	return pagination.Parse(r.URL.Query().Get("offset"), r.URL.Query().Get("limit"))
}

// ParsePathID reads a positive integer id from a path segment.
func ParsePathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive integer")
	}
	return id, nil
}
