package llm

import "testing"

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Here is the result:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"array", "```json\n[1,2,3]\n```", `[1,2,3]`},
		{"array before object", `[{"a":1}]`, `[{"a":1}]`},
		{"no json at all", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONResponse(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONResponse(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
