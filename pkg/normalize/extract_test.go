package normalize_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/gt"
)

func TestExtract(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		shape  normalize.Shape
		expect string
	}{
		{
			name:   "object surrounded by prose with braces",
			text:   `Sure! Here you go: {"a": {"b": [1, 2]}, "c": "x}"} Hope this helps {really}`,
			shape:  normalize.ShapeObject,
			expect: `{"a": {"b": [1, 2]}, "c": "x}"}`,
		},
		{
			name:   "array with bracket inside string",
			text:   "Questions:\n[{\"q\":\"a]\"}]\nDone [x]",
			shape:  normalize.ShapeArray,
			expect: `[{"q":"a]"}]`,
		},
		{
			name:   "unclosed opening bracket is skipped",
			text:   `{ oops [ ] then {"a":1}`,
			shape:  normalize.ShapeObject,
			expect: `{"a":1}`,
		},
		{
			name:   "mismatched closing bracket is skipped",
			text:   `{"a":]} and {"b":2}`,
			shape:  normalize.ShapeObject,
			expect: `{"b":2}`,
		},
		{
			name:   "escaped quote inside string",
			text:   `{"a":"he said \"}\" ok"}`,
			shape:  normalize.ShapeObject,
			expect: `{"a":"he said \"}\" ok"}`,
		},
		{
			name:   "markdown fence",
			text:   "```json\n[1, 2, 3]\n```",
			shape:  normalize.ShapeArray,
			expect: "[1, 2, 3]",
		},
		{
			name:   "quote in prose before payload",
			text:   `He said "use {"a":1} wisely`,
			shape:  normalize.ShapeObject,
			expect: `{"a":1}`,
		},
		{
			name:   "outer span preferred over inner",
			text:   `x {"a":{"b":1}} y`,
			shape:  normalize.ShapeObject,
			expect: `{"a":{"b":1}}`,
		},
		{
			name:   "inner span of a mismatched outer",
			text:   `{ {"a":1} ] {"b":2}`,
			shape:  normalize.ShapeObject,
			expect: `{"a":1}`,
		},
		{
			name:   "object mode inside array",
			text:   `[{"a":1},{"b":2}]`,
			shape:  normalize.ShapeObject,
			expect: `{"a":1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalize.Extract(tc.text, tc.shape)
			gt.NoError(t, err)
			gt.Equal(t, got, tc.expect)
		})
	}
}

func TestExtractNoPayload(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		shape normalize.Shape
	}{
		{"empty", "", normalize.ShapeObject},
		{"plain prose", "I cannot answer that.", normalize.ShapeObject},
		{"only opening", "{{{", normalize.ShapeObject},
		{"only closing", "}}} ]]]", normalize.ShapeArray},
		{"object text in array mode", `{"a": 1}`, normalize.ShapeArray},
		{"unterminated string", `{"a": "b}`, normalize.ShapeObject},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalize.Extract(tc.text, tc.shape)
			gt.Error(t, err)
			gt.Equal(t, got, "")
			gt.True(t, normalize.IsKind(err, normalize.KindNoPayload))
		})
	}
}

func TestExtractEquivalentToDirectParse(t *testing.T) {
	payloads := []string{
		`{"explanation":"F = ma","resources":[],"difficulty":"beginner","estimatedTime":"10 minutes"}`,
		`{"nested":{"list":[{"x":1},{"y":[true,false,null]}]},"s":"{not a bracket}"}`,
		`{}`,
		`{"unicode":"été","escape":"line\nbreak \\ slash"}`,
	}
	prefixes := []string{
		"",
		"Here is the JSON you asked for:\n",
		"Sure thing! ",
		"```json\n",
	}
	suffixes := []string{
		"",
		"\nLet me know if you need more {details}.",
		"\n```\nThat's all } folks",
		" [1] see references",
	}

	for _, payload := range payloads {
		var direct any
		gt.NoError(t, json.Unmarshal([]byte(payload), &direct))

		for _, prefix := range prefixes {
			for _, suffix := range suffixes {
				got, err := normalize.Extract(prefix+payload+suffix, normalize.ShapeObject)
				gt.NoError(t, err)

				var extracted any
				gt.NoError(t, json.Unmarshal([]byte(got), &extracted))
				gt.Equal(t, extracted, direct)
			}
		}
	}
}

func TestExtractUnbalancedInputIsLinear(t *testing.T) {
	const n = 1 << 20

	inputs := map[string]string{
		"only openings":       strings.Repeat("{", n),
		"mismatched closers":  strings.Repeat("{[", n/2) + "}",
		"openings then quote": strings.Repeat("{", n) + `"`,
		"alternating":         strings.Repeat("{]", n/2),
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			_, err := normalize.Extract(text, normalize.ShapeObject)
			elapsed := time.Since(start)

			gt.True(t, normalize.IsKind(err, normalize.KindNoPayload))
			gt.True(t, elapsed < 2*time.Second)
		})
	}

	text := strings.Repeat("{", n) + ` {"a":1}`
	got, err := normalize.Extract(text, normalize.ShapeObject)
	gt.NoError(t, err)
	gt.Equal(t, got, `{"a":1}`)
}
