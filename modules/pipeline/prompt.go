package pipeline

import "fmt"

// Every stage prompt carries the same preservation language: LEGO realism,
// straight-on pose, neutral studio lighting, no rendered text or logos.
const preservationRules = "Preserve true LEGO proportions, authentic studs and the straight-on pose. " +
	"Keep realistic, neutral studio lighting. Do not add text or logos. " +
	"Do not change any region outside the one described."

func headPrompt(animal string) string {
	return fmt.Sprintf(
		"Replace the head of this LEGO minifigure with a LEGO-style %s head that fits naturally "+
			"(stylized but clearly a %s, not hyper-realistic). ", animal, animal) + preservationRules
}

func torsoPrompt(upper string) string {
	return fmt.Sprintf(
		"Dress the torso of this LEGO minifigure in %s, adapted into molded LEGO form. "+
			"Keep the arms and hands consistent with the figure. ", upper) + preservationRules
}

func legsPrompt(lower, shoes string) string {
	return fmt.Sprintf(
		"Dress the legs of this LEGO minifigure in %s and give it %s, both adapted into molded LEGO form. ",
		lower, shoes) + preservationRules
}

func accessoryPrompt(accessory string) string {
	return fmt.Sprintf(
		"Add %s to this LEGO minifigure, adapted into molded LEGO form and scaled to minifig proportions. ",
		accessory) + preservationRules
}

// combinedPrompt describes the whole figure in one edit. Used by the single
// edit mode and as the last resort when every staged edit failed.
func combinedPrompt(animal, upper, lower, shoes, accessory string) string {
	return fmt.Sprintf(
		"Restyle this LEGO minifigure: replace the head with a LEGO-style %s head, "+
			"dress the torso in %s, the legs in %s, add %s and %s - everything adapted into "+
			"cohesive, modern molded LEGO form. Avoid clutter. ",
		animal, upper, lower, shoes, accessory) + preservationRules
}
