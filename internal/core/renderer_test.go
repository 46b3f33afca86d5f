package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name   string
		src    string
		values map[string]any
		want   string
	}{
		{"simple", "<p>{{x}}</p>", map[string]any{"x": "hello"}, "<p>hello</p>"},
		{"padded", "<p>{{ x }}</p>", map[string]any{"x": "hello"}, "<p>hello</p>"},
		{"escaped", "<p>{{x}}</p>", map[string]any{"x": "<b>&</b>"}, "<p>&lt;b&gt;&amp;&lt;/b&gt;</p>"},
		{"raw", "<p>{{{x}}}</p>", map[string]any{"x": "<b>hi</b>"}, "<p><b>hi</b></p>"},
		{"missing", "<p>{{x}}</p>", nil, "<p></p>"},
		{"number", "total {{n}}", map[string]any{"n": 434.5}, "total 434.5"},
		{"repeated", "{{a}}-{{a}}", map[string]any{"a": "z"}, "z-z"},
		{"not a placeholder", "{{ bad-name }}", map[string]any{"bad": "x"}, "{{ bad-name }}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Render(tt.src, tt.values))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	r := NewRenderer()
	got := r.Placeholders(`<h1 style="color: {{primary_color}}">{{title}}</h1>{{{body}}}{{title}}`)
	assert.Equal(t, []string{"primary_color", "title", "body"}, got)
}
