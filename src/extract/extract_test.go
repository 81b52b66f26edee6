package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadWithSurroundingProse(t *testing.T) {
	raw := `Here you go: {"food_detected": true, "food_items":[{"name":"pizza","calories":350}], "total_calories":350} thanks`

	det := Parse(raw)

	require.True(t, det.FoodDetected)
	require.Len(t, det.Items, 1)
	assert.Equal(t, FoodItem{Name: "pizza", Calories: 350}, det.Items[0])
	assert.Equal(t, 350, det.TotalCalories)
}

func TestParseNoBracesFallsBackToEmpty(t *testing.T) {
	det := Parse("I see no food here.")

	assert.Equal(t, Empty(), det)
}

func TestParseDropsItemWithoutCalories(t *testing.T) {
	raw := `{"food_detected": true, "food_items":[{"name":"soup"}], "total_calories":120}`

	det := Parse(raw)

	require.True(t, det.FoodDetected)
	assert.Empty(t, det.Items)
	assert.Equal(t, 120, det.TotalCalories)
}

func TestParseMarkdownFencedPayload(t *testing.T) {
	raw := "```json\n{\"food_detected\": true, \"food_items\":[{\"name\":\"burger\",\"calories\":550},{\"name\":\"fries\",\"calories\":320}], \"total_calories\":870}\n```"

	det := Parse(raw)

	require.True(t, det.FoodDetected)
	require.Len(t, det.Items, 2)
	assert.Equal(t, 870, det.TotalCalories)
}

func TestParseClampsNegativeCalories(t *testing.T) {
	raw := `{"food_detected": true, "food_items":[{"name":"mystery","calories":-50}], "total_calories":-50}`

	det := Parse(raw)

	require.Len(t, det.Items, 1)
	assert.Equal(t, 0, det.Items[0].Calories)
	assert.Equal(t, 0, det.TotalCalories)
}

func TestParseStringBooleans(t *testing.T) {
	det := Parse(`{"food_detected": "true", "food_items":[{"name":"apple","calories":95}], "total_calories":95}`)
	require.True(t, det.FoodDetected)
	assert.Equal(t, 95, det.TotalCalories)

	det = Parse(`{"food_detected": "False", "food_items":[], "total_calories":0}`)
	assert.Equal(t, Empty(), det)
}

func TestParseFoodNotDetectedForcesEmptyResult(t *testing.T) {
	// Items listed alongside food_detected=false must not leak through.
	raw := `{"food_detected": false, "food_items":[{"name":"ghost","calories":100}], "total_calories":100}`

	assert.Equal(t, Empty(), Parse(raw))
}

func TestParsePreservesDivergentTotal(t *testing.T) {
	raw := `{"food_detected": true, "food_items":[{"name":"salad","calories":150}], "total_calories":200}`

	det := Parse(raw)

	assert.Equal(t, 200, det.TotalCalories, "service-provided total must not be recomputed")
	require.Len(t, det.Items, 1)
	assert.Equal(t, 150, det.Items[0].Calories)
}

func TestParseMissingTotalUsesItemSum(t *testing.T) {
	raw := `{"food_detected": true, "food_items":[{"name":"rice","calories":200},{"name":"curry","calories":300}]}`

	det := Parse(raw)

	assert.Equal(t, 500, det.TotalCalories)
}

func TestParseIsTotalOnMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"}",
		"}{",
		"{}",
		"{{{{",
		`{"food_detected": }`,
		`{"food_detected": true, "food_items": "not a list"}`,
		`{"food_detected": {"nested": true}}`,
		`{"food_items":[{"name":"pizza","calories":350}]}`,
		"no payload at all",
		"\x00\xff binary garbage {]",
	}

	for _, in := range inputs {
		det := Parse(in)
		if !det.FoodDetected {
			assert.Empty(t, det.Items, "input %q", in)
			assert.Zero(t, det.TotalCalories, "input %q", in)
		}
	}
}
