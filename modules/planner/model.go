package planner

import "strings"

// MaxSlotLength caps every StylePlan slot value.
const MaxSlotLength = 120

// StylePlan describes the five fixed slots driving the edit pipeline.
type StylePlan struct {
	Animal    string `json:"animal"`
	Upper     string `json:"upper"`
	Lower     string `json:"lower"`
	Shoes     string `json:"shoes"`
	Accessory string `json:"accessory"`
}

// FallbackPlan is returned whenever planning fails for any reason.
func FallbackPlan() StylePlan {
	return StylePlan{
		Animal:    "fox",
		Upper:     "bomber jacket",
		Lower:     "Levi's 501 jeans",
		Shoes:     "classic white sneakers",
		Accessory: "silver chain necklace",
	}
}

// SanitizeSlot trims, flattens newlines and caps a slot value. Empty input
// stays empty so callers can substitute the slot's fallback.
func SanitizeSlot(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.Join(strings.Fields(value), " ")
	if len(value) > MaxSlotLength {
		value = strings.TrimSpace(value[:MaxSlotLength])
	}
	return value
}

// sanitize fills every empty slot from the fallback plan, so a plan always
// carries five non-empty values.
func (p StylePlan) sanitize() StylePlan {
	fb := FallbackPlan()

	p.Animal = SanitizeSlot(p.Animal)
	p.Upper = SanitizeSlot(p.Upper)
	p.Lower = SanitizeSlot(p.Lower)
	p.Shoes = SanitizeSlot(p.Shoes)
	p.Accessory = SanitizeSlot(p.Accessory)

	if p.Animal == "" {
		p.Animal = fb.Animal
	}
	if p.Upper == "" {
		p.Upper = fb.Upper
	}
	if p.Lower == "" {
		p.Lower = fb.Lower
	}
	if p.Shoes == "" {
		p.Shoes = fb.Shoes
	}
	if p.Accessory == "" {
		p.Accessory = fb.Accessory
	}

	return p
}
