package planner

import (
	"encoding/json"
	"strings"
)

const plannerSystemInstruction = "You help design a LEGO-style minifigure inspired by music tastes. " +
	"Pick exactly one animal for the head that fits the vibe, and one distinct real-world " +
	"brand or style per outfit slot. Be adjective-rich and specific. " +
	"Never describe text or logos to be rendered as image text. " +
	"Output strict JSON with exactly these string keys: " +
	"animal, upper (jacket/shirt), lower (pants/skirt), shoes, accessory."

const jsonOnlyInstruction = " Respond with the JSON object only. No prose, no markdown, no code fences."

// buildPlannerContext serializes the truncated taste signals as the user turn.
func buildPlannerContext(genres, artists, songs []string) string {
	ctx := map[string]interface{}{}
	if len(genres) > 0 {
		ctx["genres"] = genres
	}
	if len(artists) > 0 {
		ctx["artists"] = artists
	}
	if len(songs) > 0 {
		ctx["songs"] = songs
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// stripCodeFence removes surrounding ```json ... ``` markup from a model reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line (```json)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
