package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	w := Normalize(0, 0)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, DefaultLimit, w.Limit)
}

func TestNormalizeCoercesNegatives(t *testing.T) {
	w := Normalize(-5, -1)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, DefaultLimit, w.Limit)
}

func TestNormalizeCapsLimit(t *testing.T) {
	w := Normalize(30, 5000)
	assert.Equal(t, 30, w.Offset)
	assert.Equal(t, MaxLimit, w.Limit)
}

func TestParseNonNumericFallsBack(t *testing.T) {
	w := Parse("abc", "xyz")
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, DefaultLimit, w.Limit)
}

func TestParseValidValues(t *testing.T) {
	w := Parse("20", "50")
	assert.Equal(t, 20, w.Offset)
	assert.Equal(t, 50, w.Limit)
}
