package templates

import (
	"github.com/a-h/templ"

	"smartmart-admin/internal/models"
	"smartmart-admin/internal/viewmodel"
)

const (
	DashboardPanelsID = "dashboard-panels"
	OrdersPanelID     = "orders-panel"
	OrderDetailsID    = "order-details"
	PaymentsPanelID   = "payments-panel"
)

var dashboardPanelsTemplate = parse("dashboardPanels", `<div id="dashboard-panels">
<div class="cards">
<div class="card"><div>Total Sales</div>{{with index .Errors "total_sales"}}<div class="error">{{.}}</div>{{else}}<div class="value">{{money .Metrics.TotalSales}}</div>{{end}}</div>
<div class="card"><div>Delivered Orders</div>{{with index .Errors "delivered_orders_count"}}<div class="error">{{.}}</div>{{else}}<div class="value">{{.Metrics.DeliveredOrdersCount}}</div>{{end}}</div>
<div class="card"><div>Inventory Value</div>{{with index .Errors "inventory_value"}}<div class="error">{{.}}</div>{{else}}<div class="value">{{money .Metrics.InventoryValue}}</div>{{end}}</div>
<div class="card"><div>Customers</div>{{with index .Errors "user_count"}}<div class="error">{{.}}</div>{{else}}<div class="value">{{.Metrics.UserCount}}</div>{{end}}</div>
</div>
<section class="card">
<h3>Weekly Sales</h3>
{{with index .Errors "weekly_sales"}}<p class="error">{{.}}</p>{{else}}
<table class="modern-table">
<thead><tr><th>Period</th><th>Sales</th></tr></thead>
<tbody>{{range .Metrics.WeeklySales}}<tr><td>{{.Label}}</td><td>{{money .Revenue}}</td></tr>{{else}}<tr><td colspan="2">No sales yet</td></tr>{{end}}</tbody>
</table>{{end}}
</section>
</div>`)

// DashboardPanels renders every metric card; a failed panel shows its own error.
func DashboardPanels(view viewmodel.DashboardView) templ.Component {
	errs := make(map[string]string, len(view.Errors))
	for p, msg := range view.Errors {
		errs[string(p)] = msg
	}
	return fromTemplate(dashboardPanelsTemplate, struct {
		Metrics models.DashboardMetrics
		Errors  map[string]string
	}{view.Metrics, errs})
}

var ordersPanelTemplate = parse("ordersPanel", `<div id="orders-panel">
{{with .FilterError}}<p class="error">{{.}}</p>{{end}}
{{with .Error}}<p class="error">Could not load orders: {{.}}</p>{{end}}
{{with .ActionError}}<p class="error">{{.}}</p>{{end}}
{{if eq .Status "loading"}}<p>Loading…</p>{{end}}
<p>{{len .Rows}} orders · {{money .Total}}</p>
<table class="modern-table">
<thead><tr><th></th><th>Order</th><th>Customer</th><th>Payment</th><th>Delivery</th><th>Date</th><th>Total</th><th></th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td><button data-on:click="@post('/sse/orders/{{pathEscape .OrderID}}/toggle')">{{if .Expanded}}▾{{else}}▸{{end}}</button></td>
<td>{{.OrderID}}</td>
<td>{{.CustomerName}}</td>
<td><span class="badge {{lower (print .PaymentStatus)}}">{{.PaymentStatus}}</span></td>
<td><span class="badge {{lower (print .DeliveryStatus)}}">{{.DeliveryStatus}}</span></td>
<td>{{.DateText}}</td>
<td>{{money .TotalAmount}}</td>
<td>{{if .CanDeliver}}<button data-on:click="@post('/sse/orders/{{pathEscape .OrderID}}/deliver')">Mark delivered</button>{{else if .Delivering}}Updating…{{end}}
<button data-on:click="@get('/sse/orders/{{pathEscape .OrderID}}/details')">Details</button></td>
</tr>
{{if .Expanded}}<tr><td></td><td colspan="7">
{{range .Products}}<div>{{.Name}} × {{.Quantity}} · {{money .ItemTotal}}{{if .HasDiscount}} <s>{{money .Price}}</s>{{end}}</div>{{else}}<div>No line items</div>{{end}}
</td></tr>{{end}}
{{else}}<tr><td colspan="8">No orders match the current filters</td></tr>{{end}}
</tbody>
</table>
<div id="order-details"></div>
</div>`)

func OrdersPanel(view viewmodel.OrdersView) templ.Component {
	return fromTemplate(ordersPanelTemplate, view)
}

var orderDetailsTemplate = parse("orderDetails", `<div id="order-details" class="card">
<h3>Order {{.OrderID}}</h3>
<p>{{.CustomerName}} · {{.PaymentMethod}} · {{.DateText}}</p>
{{with .DeliveryAddress}}<p>Deliver to: {{.}}</p>{{end}}
{{with .BillingAddress}}<p>Bill to: {{.}}</p>{{end}}
<table class="modern-table">
<thead><tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr></thead>
<tbody>{{range .Products}}<tr>
<td>{{.Name}}{{with .DiscountName}} <span class="badge">{{.}}</span>{{end}}</td>
<td>{{.Quantity}}</td>
<td>{{money .UnitPrice}}{{if .HasDiscount}} <s>{{money .Price}}</s>{{end}}</td>
<td>{{money .ItemTotal}}</td>
</tr>{{end}}</tbody>
</table>
<p><strong>Total {{money .TotalAmount}}</strong>{{if .HasSavings}} · saved {{money .TotalSavings}} of {{money .OriginalTotal}}{{end}}</p>
</div>`)

func OrderDetails(order models.Order) templ.Component {
	return fromTemplate(orderDetailsTemplate, order)
}

var orderDetailsErrorTemplate = parse("orderDetailsError", `<div id="order-details" class="card error">{{.}}</div>`)

// OrderDetailsError replaces the details box with an inline failure message.
func OrderDetailsError(msg string) templ.Component {
	return fromTemplate(orderDetailsErrorTemplate, msg)
}

var paymentsPanelTemplate = parse("paymentsPanel", `<div id="payments-panel">
{{with .FilterError}}<p class="error">{{.}}</p>{{end}}
{{with .Error}}<p class="error">Could not load payments: {{.}}</p>{{end}}
{{if eq .Status "loading"}}<p>Loading…</p>{{end}}
<div class="cards">
<div class="card"><div>Total Revenue</div><div class="value">{{money .Summary.TotalRevenue}}</div></div>
<div class="card"><div>Transactions</div><div class="value">{{.Summary.TotalTransactions}}</div></div>
<div class="card"><div>Success Rate</div><div class="value">{{percent .Summary.SuccessRate}}</div></div>
</div>
<table class="modern-table">
<thead><tr><th>Transaction</th><th>Order</th><th>Customer</th><th>Amount</th><th>Mode</th><th>Status</th><th>Date</th></tr></thead>
<tbody>{{range .Transactions}}<tr>
<td>{{.TransactionID}}</td><td>{{.OrderID}}</td><td>{{.CustomerName}}</td><td>{{money .Amount}}</td>
<td>{{.PaymentMode}}</td><td><span class="badge {{lower (print .PaymentStatus)}}">{{.PaymentStatus}}</span></td><td>{{.DateText}}</td>
</tr>{{else}}<tr><td colspan="7">No transactions match the current filters</td></tr>{{end}}</tbody>
</table>
<div class="cards">
<section class="card"><h3>Monthly Revenue</h3>{{range .Monthly}}<div>{{.Label}}: {{money .Revenue}}</div>{{end}}</section>
<section class="card"><h3>Weekly Revenue</h3>{{range .Weekly}}<div>{{.Label}}: {{money .Revenue}}</div>{{end}}</section>
</div>
</div>`)

func PaymentsPanel(view viewmodel.PaymentsView) templ.Component {
	return fromTemplate(paymentsPanelTemplate, view)
}
