package pagination

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any windowed query can request.
	MaxLimit = 100
)

// Window holds normalized offset/limit pagination inputs.
type Window struct {
	Offset int
	Limit  int
}

// Normalize coerces raw offset/limit values into a valid window: a negative
// offset becomes 0 and a non-positive limit becomes DefaultLimit, capped at
// MaxLimit.
func Normalize(offset, limit int) Window {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Offset: offset, Limit: limit}
}

// Parse reads offset/limit from raw query strings. Non-numeric values coerce
// to the defaults rather than failing, matching the API's lenient paging.
func Parse(rawOffset, rawLimit string) Window {
	return Normalize(atoiOrZero(rawOffset), atoiOrZero(rawLimit))
}

func atoiOrZero(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// Scope appends bounded-window semantics to an already-filtered, already-
// ordered query.
func (w Window) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(w.Offset).Limit(w.Limit)
}
