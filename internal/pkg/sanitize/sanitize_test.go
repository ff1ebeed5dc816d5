package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_StripsControlCharacters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"nul", "a\x00b", "ab"},
		{"low range", "a\x01\x02\x07\x08b", "ab"},
		{"vertical tab and form feed", "a\x0b\x0cb", "ab"},
		{"high range", "a\x0e\x1fb", "ab"},
		{"keeps tab newline cr", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"empty", "", ""},
		{"plain text untouched", "Fatura toplamı 1.250 TL", "Fatura toplamı 1.250 TL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestText_IdempotentAndNeverLonger(t *testing.T) {
	inputs := []string{"", "abc", "a\x00\x01\x1f", "\t\n\r", "ünlü\x0bharf"}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once))
		assert.LessOrEqual(t, len(once), len(in))
	}
}

func TestValue_Recurses(t *testing.T) {
	in := map[string]any{
		"summary": "ok\x00",
		"key_points": []any{
			"point\x01 one",
			map[string]any{"title": "t\x0b", "content": "c"},
		},
		"count":  float64(3),
		"nested": map[string]any{"deep": []any{"\x1fx"}},
	}

	got := Value(in).(map[string]any)
	assert.Equal(t, "ok", got["summary"])

	points := got["key_points"].([]any)
	assert.Equal(t, "point one", points[0])
	assert.Equal(t, "t", points[1].(map[string]any)["title"])

	assert.Equal(t, float64(3), got["count"])
	assert.Equal(t, "x", got["nested"].(map[string]any)["deep"].([]any)[0])
}

func TestValue_LeavesScalarsAlone(t *testing.T) {
	assert.Equal(t, 42, Value(42))
	assert.Equal(t, true, Value(true))
	assert.Nil(t, Value(nil))
}
