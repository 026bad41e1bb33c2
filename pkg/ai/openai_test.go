package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	t.Run("Should parse plain numbers", func(t *testing.T) {
		assert.Equal(t, 85, parseScore(json.RawMessage(`85`)))
	})

	t.Run("Should parse quoted numbers", func(t *testing.T) {
		assert.Equal(t, 42, parseScore(json.RawMessage(`"42"`)))
	})

	t.Run("Should parse fractional scores by truncation", func(t *testing.T) {
		assert.Equal(t, 87, parseScore(json.RawMessage(`87.6`)))
	})

	t.Run("Should score non-numeric values as zero", func(t *testing.T) {
		assert.Equal(t, 0, parseScore(json.RawMessage(`"high"`)))
		assert.Equal(t, 0, parseScore(json.RawMessage(`null`)))
		assert.Equal(t, 0, parseScore(nil))
	})
}

func TestClampScore(t *testing.T) {
	t.Run("Should clamp out-of-range scores into [0,100]", func(t *testing.T) {
		assert.Equal(t, 100, clampScore(150))
		assert.Equal(t, 0, clampScore(-5))
		assert.Equal(t, 73, clampScore(73))
		assert.Equal(t, 0, clampScore(0))
		assert.Equal(t, 100, clampScore(100))
	})
}

func TestPromptFieldFallbacks(t *testing.T) {
	t.Run("Missing fields render as explicit sentinels", func(t *testing.T) {
		assert.Equal(t, "Not specified", joinOr(nil))
		assert.Equal(t, "Go, SQL", joinOr([]string{"Go", "SQL"}))
		assert.Equal(t, "Not provided", textOr(""))
		assert.Equal(t, "Not specified", yearsOr(nil))
		five := 5
		assert.Equal(t, "5", yearsOr(&five))
	})
}
