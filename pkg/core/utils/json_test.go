package utils

import "testing"

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"html fence", "```html\n<p>hi</p>\n```", "<p>hi</p>"},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSmartParseLadder(t *testing.T) {
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	cases := []struct {
		name string
		in   string
	}{
		{"valid json", `{"name": "Acme", "count": 3}`},
		{"fenced", "```json\n{\"name\": \"Acme\", \"count\": 3}\n```"},
		{"trailing comma", `{"name": "Acme", "count": 3,}`},
		{"single quotes", `{'name': 'Acme', 'count': 3}`},
		{"unquoted keys", `{name: "Acme", count: 3}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out doc
			if err := SmartParse(tc.in, &out); err != nil {
				t.Fatalf("SmartParse: %v", err)
			}
			if out.Name != "Acme" || out.Count != 3 {
				t.Errorf("decoded = %+v", out)
			}
		})
	}
}

func TestSmartParseHopeless(t *testing.T) {
	var out map[string]interface{}
	if err := SmartParse("I am sorry, I cannot help with that.", &out); err == nil {
		t.Error("prose input should fail every strategy")
	}
}
