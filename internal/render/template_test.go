package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ingm4r/evcc-trmnl-integration/internal/render"
)

func TestTemplate_Variables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		ctx      render.Context
		want     string
	}{
		{
			name:     "string substitution",
			template: "Hello {{name}}!",
			ctx:      render.Context{"name": "World"},
			want:     "Hello World!",
		},
		{
			name:     "numeric values",
			template: "{{watts}}W at {{soc}}%",
			ctx:      render.Context{"watts": 7200.0, "soc": 65},
			want:     "7200W at 65%",
		},
		{
			name:     "nil value substitutes empty string",
			template: "battery: [{{battery_power}}]",
			ctx:      render.Context{"battery_power": nil},
			want:     "battery: []",
		},
		{
			name:     "unknown placeholder is stripped",
			template: "a {{nope}} b",
			ctx:      render.Context{},
			want:     "a  b",
		},
		{
			name:     "whitespace inside tags is tolerated",
			template: "{{ name }}",
			ctx:      render.Context{"name": "x"},
			want:     "x",
		},
		{
			name:     "unterminated tag is kept verbatim",
			template: "a {{name b",
			ctx:      render.Context{"name": "x"},
			want:     "a {{name b",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, render.Parse(tt.template).Render(tt.ctx))
		})
	}
}

func TestTemplate_EachSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		ctx      render.Context
		want     string
	}{
		{
			name:     "items rendered in order",
			template: "{{#each points}}[{{name}}]{{/each}}",
			ctx: render.Context{
				"points": []render.Context{{"name": "a"}, {"name": "b"}},
			},
			want: "[a][b]",
		},
		{
			name:     "item keys override outer keys",
			template: "{{#each points}}{{name}}-{{site}} {{/each}}",
			ctx: render.Context{
				"site":   "home",
				"points": []render.Context{{"name": "a"}, {"name": "b", "site": "away"}},
			},
			want: "a-home b-away ",
		},
		{
			name:     "empty list renders nothing",
			template: "x{{#each points}}[{{name}}]{{/each}}y",
			ctx:      render.Context{"points": []render.Context{}},
			want:     "xy",
		},
		{
			name:     "missing list renders nothing",
			template: "x{{#each points}}[{{name}}]{{/each}}y",
			ctx:      render.Context{},
			want:     "xy",
		},
		{
			name:     "only first each section iterates",
			template: "{{#each points}}[{{name}}]{{/each}}{{#each points}}({{site}}){{/each}}",
			ctx: render.Context{
				"site":   "home",
				"points": []render.Context{{"name": "a"}, {"name": "b"}},
			},
			want: "[a][b](home)",
		},
		{
			name:     "unterminated each keeps inner content",
			template: "{{#each points}}[{{site}}]",
			ctx:      render.Context{"site": "home", "points": []render.Context{{}, {}}},
			want:     "[home][home]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, render.Parse(tt.template).Render(tt.ctx))
		})
	}
}

func TestTemplate_IfSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		ctx      render.Context
		want     string
	}{
		{
			name:     "true keeps content without tags",
			template: "a{{#if on}}X{{/if}}b",
			ctx:      render.Context{"on": true},
			want:     "aXb",
		},
		{
			name:     "false removes whole section",
			template: "a{{#if on}}X{{/if}}b",
			ctx:      render.Context{"on": false},
			want:     "ab",
		},
		{
			name:     "nil is falsy",
			template: "a{{#if on}}X{{/if}}b",
			ctx:      render.Context{"on": nil},
			want:     "ab",
		},
		{
			name:     "absent is falsy",
			template: "a{{#if on}}X{{/if}}b",
			ctx:      render.Context{},
			want:     "ab",
		},
		{
			name:     "non-nil non-boolean is truthy",
			template: "{{#if soc}}SOC: {{soc}}%{{/if}}",
			ctx:      render.Context{"soc": 65},
			want:     "SOC: 65%",
		},
		{
			name:     "conditionals inside each are evaluated per item",
			template: "{{#each points}}[{{name}}{{#if soc}} {{soc}}%{{/if}}]{{/each}}",
			ctx: render.Context{
				"points": []render.Context{
					{"name": "a", "soc": 65},
					{"name": "b", "soc": nil},
				},
			},
			want: "[a 65%][b]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, render.Parse(tt.template).Render(tt.ctx))
		})
	}
}

func TestTemplate_RenderIsIdempotent(t *testing.T) {
	t.Parallel()

	template := render.Parse("{{#each points}}{{name}}: {{power}}W {{#if soc}}{{soc}}%{{/if}};{{/each}} grid {{grid_power}}W {{missing}}")
	ctx := render.Context{
		"grid_power": "-250",
		"points": []render.Context{
			{"name": "Garage", "power": "7200", "soc": 65},
			{"name": "Stellplatz", "power": "0", "soc": nil},
		},
	}

	first := template.Render(ctx)
	second := template.Render(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, "Garage: 7200W 65%;Stellplatz: 0W ; grid -250W ", first)
}
