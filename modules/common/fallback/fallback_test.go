package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "hello", SafeString("  hello  ", "fb"))
	assert.Equal(t, "fb", SafeString("", "fb"))
	assert.Equal(t, "fb", SafeString("   ", "fb"))
	assert.Equal(t, "fb", SafeString(nil, "fb"))
	assert.Equal(t, "fb", SafeString(42, "fb"))
}

func TestNormalizeTextList(t *testing.T) {
	raw := []interface{}{
		"Radiohead",
		"  Portishead  ",
		"",
		map[string]interface{}{"name": "Massive Attack"},
		map[string]interface{}{"genre": "trip hop"},
		map[string]interface{}{"irrelevant": "x"},
		42,
	}

	got := NormalizeTextList(raw)
	assert.Equal(t, []string{"Radiohead", "Portishead", "Massive Attack", "trip hop"}, got)
}

func TestNormalizeTextListEmpty(t *testing.T) {
	assert.Empty(t, NormalizeTextList(nil))
	assert.Empty(t, NormalizeTextList([]interface{}{}))
}

func TestNormalizeSongList(t *testing.T) {
	raw := []interface{}{
		"Paranoid Android",
		map[string]interface{}{"title": "Teardrop", "artist": "Massive Attack"},
		map[string]interface{}{"title": "Roads"},
		map[string]interface{}{"artist": "Burial"},
		map[string]interface{}{},
	}

	got := NormalizeSongList(raw)
	assert.Equal(t, []string{
		"Paranoid Android",
		"Teardrop - Massive Attack",
		"Roads",
		"Burial",
	}, got)
}

func TestCapList(t *testing.T) {
	list := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b"}, CapList(list, 2))
	assert.Equal(t, list, CapList(list, 4))
	assert.Equal(t, list, CapList(list, 10))
	assert.Empty(t, CapList(nil, 3))
}
