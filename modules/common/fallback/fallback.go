package fallback

import (
	"strings"
)

// SafeString returns a trimmed string or the provided fallback.
func SafeString(value interface{}, fallbackValue string) string {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return fallbackValue
}

// NormalizeTextList coerces a loosely-typed request list into clean strings.
// Accepts plain strings and objects carrying name, title, artist or genre.
// Empty entries are dropped.
func NormalizeTextList(raw []interface{}) []string {
	out := []string{}
	for _, v := range raw {
		var name string
		switch item := v.(type) {
		case string:
			name = strings.TrimSpace(item)
		case map[string]interface{}:
			for _, key := range []string{"name", "title", "artist", "genre"} {
				if name = SafeString(item[key], ""); name != "" {
					break
				}
			}
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// NormalizeSongList is NormalizeTextList with song-object awareness: objects
// carrying both title and artist compress to "title - artist".
func NormalizeSongList(raw []interface{}) []string {
	out := []string{}
	for _, v := range raw {
		var name string
		switch item := v.(type) {
		case string:
			name = strings.TrimSpace(item)
		case map[string]interface{}:
			title := SafeString(item["title"], "")
			artist := SafeString(item["artist"], "")
			switch {
			case title != "" && artist != "":
				name = title + " - " + artist
			case title != "":
				name = title
			default:
				name = artist
			}
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// CapList limits a list to at most max entries.
func CapList(list []string, max int) []string {
	if len(list) <= max {
		return list
	}
	return list[:max]
}
