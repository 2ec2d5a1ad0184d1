package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"smartmart-admin/internal/viewmodel"
)

var loginTemplate = parse("login", `<div class="card" style="max-width:360px;margin:4rem auto">
<h2>Admin sign in</h2>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/login">
<p><label>Username<br><input name="username" value="{{.Username}}" autocomplete="username" required></label></p>
<p><label>Password<br><input name="password" type="password" autocomplete="current-password" required></label></p>
<button type="submit">Sign in</button>
</form>
</div>`)

func Login(username, errMsg string) templ.Component {
	body := fromTemplate(loginTemplate, struct{ Username, Error string }{username, errMsg})
	return page("Sign in", "/login", "", body)
}

var dashboardTemplate = parse("dashboard", `<h1>Dashboard</h1>
<div data-init="@get('/sse/dashboard')">{{.Panels}}</div>`)

func Dashboard(username string, view viewmodel.DashboardView) templ.Component {
	return page("Dashboard", "/", username, withPanel(dashboardTemplate, DashboardPanels(view), nil))
}

var ordersTemplate = parse("orders", `<h1>Orders</h1>
<div data-signals="{{.Signals}}" data-init="@get('/sse/orders')">
<div class="filters">
<select data-bind:payment-status data-on:change="@get('/sse/orders')">
<option>All</option><option>Completed</option><option>Unpaid</option><option>Pending</option><option>Failed</option>
</select>
<select data-bind:delivery-status data-on:change="@get('/sse/orders')">
<option>All</option><option>Pending</option><option>Delivered</option><option>Done</option><option>Cancelled</option>
</select>
<select data-bind:amount-direction data-on:change="@get('/sse/orders')">
<option value="All">Any amount</option><option value="above">Above</option><option value="below">Below</option>
</select>
<input data-bind:amount-value placeholder="Amount" data-on:input__debounce.400ms="@get('/sse/orders')">
</div>
{{.Panels}}
</div>`)

func Orders(username string, view viewmodel.OrdersView) templ.Component {
	return page("Orders", "/orders", username, withPanel(ordersTemplate, OrdersPanel(view), FilterSignals(view.Filter)))
}

var paymentsTemplate = parse("payments", `<h1>Payments</h1>
<div data-signals="{{.Signals}}" data-init="@get('/sse/payments')">
<div class="filters">
<select data-bind:payment-status data-on:change="@get('/sse/payments')">
<option>All</option><option>Completed</option><option>Pending</option><option>Failed</option>
</select>
<input data-bind:date-scope placeholder="YYYY-MM or YYYY-MM-DD" data-on:change="@get('/sse/payments')">
</div>
{{.Panels}}
</div>`)

func Payments(username string, view viewmodel.PaymentsView) templ.Component {
	return page("Payments", "/payments", username, withPanel(paymentsTemplate, PaymentsPanel(view), FilterSignals(view.Filter)))
}

// Signals is the browser-side copy of a filter, as sent back by Datastar.
type Signals struct {
	PaymentStatus   string `json:"paymentStatus"`
	DeliveryStatus  string `json:"deliveryStatus,omitempty"`
	AmountDirection string `json:"amountDirection,omitempty"`
	AmountValue     string `json:"amountValue"`
	DateScope       string `json:"dateScope,omitempty"`
}

func FilterSignals(f viewmodel.FilterState) Signals {
	return Signals{
		PaymentStatus:   f.PaymentStatus,
		DeliveryStatus:  f.DeliveryStatus,
		AmountDirection: string(f.AmountDirection),
		AmountValue:     f.AmountInput,
		DateScope:       f.DateScope,
	}
}

func withPanel(t *template.Template, panel templ.Component, signals any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		inner, err := embed(ctx, panel)
		if err != nil {
			return err
		}
		var encoded string
		if signals != nil {
			raw, err := json.Marshal(signals)
			if err != nil {
				return err
			}
			encoded = string(raw)
		}
		return t.Execute(w, struct {
			Panels  template.HTML
			Signals string
		}{inner, encoded})
	})
}
