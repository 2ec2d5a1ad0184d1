package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

type navItem struct {
	Href   string
	Label  string
	Active bool
}

var layoutTemplate = parse("layout", `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · SmartMart Admin</title>
<script type="module" src="{{.Script}}"></script>
<style>
body{margin:0;font-family:system-ui,sans-serif;background:#111827;color:#e5e7eb}
header{display:flex;align-items:center;gap:1.5rem;padding:1rem 2rem;background:#1f2937}
header a{color:#9ca3af;text-decoration:none}header a.active{color:#fff;font-weight:600}
main{padding:2rem}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(200px,1fr));gap:1rem;margin-bottom:1.5rem}
.card{background:#1f2937;border-radius:.5rem;padding:1rem}
.card .value{font-size:1.5rem;font-weight:700;color:#fff}
.error{color:#f87171}
.modern-table{width:100%;border-collapse:collapse}
.modern-table th,.modern-table td{padding:.5rem .75rem;border-bottom:1px solid #374151;text-align:left}
.badge{padding:.1rem .5rem;border-radius:999px;font-size:.75rem;background:#374151}
.badge.completed,.badge.delivered,.badge.done{background:#059669}
.badge.unpaid,.badge.pending{background:#d97706}
.badge.failed,.badge.cancelled{background:#dc2626}
.filters{display:flex;gap:.75rem;margin-bottom:1rem}
</style>
</head>
<body>
{{if .Nav}}<header>
<strong>SmartMart Admin</strong>
{{range .Nav}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
<span style="margin-left:auto">{{.Username}}</span>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
</header>{{end}}
<main>{{.Body}}</main>
</body>
</html>`)

// page wraps body in the shared shell. An empty username hides navigation.
func page(title, active, username string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		inner, err := embed(ctx, body)
		if err != nil {
			return err
		}

		var nav []navItem
		if username != "" {
			for _, item := range []navItem{
				{Href: "/", Label: "Dashboard"},
				{Href: "/orders", Label: "Orders"},
				{Href: "/payments", Label: "Payments"},
			} {
				item.Active = item.Href == active
				nav = append(nav, item)
			}
		}

		return layoutTemplate.Execute(w, struct {
			Title    string
			Script   string
			Username string
			Nav      []navItem
			Body     template.HTML
		}{title, datastarScript, username, nav, inner})
	})
}
