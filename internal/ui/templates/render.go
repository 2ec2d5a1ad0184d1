// Package templates renders the admin pages and the fragments that SSE
// handlers patch into them.
package templates

import (
	"context"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"percent": func(d decimal.Decimal) string {
		return d.StringFixed(1) + "%"
	},
	"lower":      strings.ToLower,
	"pathEscape": url.PathEscape,
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

// fromTemplate adapts an html/template to a templ component.
func fromTemplate(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.Execute(w, data)
	})
}

// RenderString renders c into a string, as needed for SSE element patches.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// embed renders an inner component so an outer html/template can place it.
func embed(ctx context.Context, c templ.Component) (template.HTML, error) {
	if c == nil {
		return "", nil
	}
	s, err := RenderString(ctx, c)
	return template.HTML(s), err
}
