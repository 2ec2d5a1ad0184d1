// Package viewmodel holds the per-session state behind the orders, payments and
// dashboard views: filter selections, the records last accepted from the
// backend, and the aggregates derived from them.
package viewmodel

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/models"
	"smartmart-admin/internal/normalize"
)

// All is the filter value that disables a dimension.
const All = "All"

type Field string

const (
	FieldPaymentStatus   Field = "payment_status"
	FieldDeliveryStatus  Field = "delivery_status"
	FieldAmountDirection Field = "amount_direction"
	FieldAmountValue     Field = "amount_value"
	FieldDateScope       Field = "date_scope"
)

type Direction string

const (
	DirectionAll   Direction = All
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// Scope selects which backend query vocabulary a filter is rendered into.
type Scope int

const (
	ScopeOrders Scope = iota
	ScopeTransactions
)

func (s Scope) String() string {
	if s == ScopeTransactions {
		return "payments"
	}
	return "orders"
}

// Fields lists the filter dimensions a view exposes.
func (s Scope) Fields() []Field {
	if s == ScopeTransactions {
		return []Field{FieldPaymentStatus, FieldDateScope}
	}
	return []Field{FieldPaymentStatus, FieldDeliveryStatus, FieldAmountDirection, FieldAmountValue}
}

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// FilterState is the set of user selections driving one view. It is a value;
// every change produces a new state.
type FilterState struct {
	PaymentStatus   string
	DeliveryStatus  string
	AmountDirection Direction
	// AmountInput is the amount exactly as typed; AmountValue is set only when
	// it parses.
	AmountInput string
	AmountValue *decimal.Decimal
	DateScope   string
}

func DefaultFilter() FilterState {
	return FilterState{
		PaymentStatus:   All,
		DeliveryStatus:  All,
		AmountDirection: DirectionAll,
		DateScope:       All,
	}
}

// With returns the state with one dimension changed. Unknown fields and enum
// values leave the state untouched. A non-numeric amount is kept as typed but
// reported as a validation failure so callers do not query with it.
func (s FilterState) With(field Field, value string) (FilterState, error) {
	value = strings.TrimSpace(value)
	next := s

	switch field {
	case FieldPaymentStatus:
		if isAll(value) {
			next.PaymentStatus = All
			break
		}
		status, ok := models.ParsePaymentStatus(value)
		if !ok {
			return s, invalidValue(field, value)
		}
		next.PaymentStatus = string(status)

	case FieldDeliveryStatus:
		if isAll(value) {
			next.DeliveryStatus = All
			break
		}
		status, ok := models.ParseDeliveryStatus(value)
		if !ok {
			return s, invalidValue(field, value)
		}
		next.DeliveryStatus = string(status)

	case FieldAmountDirection:
		switch d := Direction(strings.ToLower(value)); {
		case isAll(value):
			next.AmountDirection = DirectionAll
		case d == DirectionAbove || d == DirectionBelow:
			next.AmountDirection = d
		default:
			return s, invalidValue(field, value)
		}

	case FieldAmountValue:
		next.AmountInput = value
		next.AmountValue = nil
		if value == "" {
			break
		}
		amount, ok := normalize.ParseAmount(value)
		if !ok || amount.IsNegative() {
			return next, apperrors.Validation("amount must be a non-negative number").WithDetails(value)
		}
		next.AmountValue = &amount

	case FieldDateScope:
		if isAll(value) {
			next.DateScope = All
			break
		}
		if !validDateScope(value) {
			return s, invalidValue(field, value)
		}
		next.DateScope = value

	default:
		return s, apperrors.Validation("unknown filter field").WithDetails(string(field))
	}

	return next, nil
}

// apply folds changes into s in the order fields lists them. A rejected enum
// value or field leaves s as it was. A non-numeric amount does not stop the
// fold: the other dimensions still apply, the amount is kept as typed without
// a threshold, and its validation error is returned with the new state.
func (s FilterState) apply(changes map[Field]string, fields []Field) (FilterState, error) {
	for f := range changes {
		if !slices.Contains(fields, f) {
			return s, apperrors.Validation("filter not available for this view").WithDetails(string(f))
		}
	}

	next := s
	var amountErr error
	for _, f := range fields {
		v, ok := changes[f]
		if !ok {
			continue
		}
		updated, err := next.With(f, v)
		if err != nil && f != FieldAmountValue {
			return s, err
		}
		next = updated
		if err != nil {
			amountErr = err
		}
	}
	return next, amountErr
}

// AmountActive reports whether the amount threshold takes part in filtering.
func (s FilterState) AmountActive() bool {
	return s.AmountDirection != DirectionAll && s.AmountValue != nil
}

// BuildQuery renders the state as backend query parameters. Dimensions set to
// All are omitted. The result depends only on s and scope.
func BuildQuery(s FilterState, scope Scope) url.Values {
	q := url.Values{}

	switch scope {
	case ScopeOrders:
		if s.PaymentStatus != All && s.PaymentStatus != "" {
			q.Set("payment_status", s.PaymentStatus)
		}
		if s.DeliveryStatus != All && s.DeliveryStatus != "" {
			q.Set("delivery_status", s.DeliveryStatus)
		}
		if s.AmountActive() {
			q.Set("amount_filter", string(s.AmountDirection))
			q.Set("amount_value", s.AmountValue.String())
		}
	case ScopeTransactions:
		if s.PaymentStatus != All && s.PaymentStatus != "" {
			q.Set("status", s.PaymentStatus)
		}
		if s.DateScope != All && s.DateScope != "" {
			q.Set("date", s.DateScope)
		}
	}

	return q
}

// sameQuery reports whether a and b ask the backend for the same records.
func sameQuery(a, b FilterState, scope Scope) bool {
	return BuildQuery(a, scope).Encode() == BuildQuery(b, scope).Encode()
}

// MatchOrder applies the orders filter locally, so the view stays correct
// when the backend ignores a parameter.
func (s FilterState) MatchOrder(o models.Order) bool {
	if s.PaymentStatus != All && string(o.PaymentStatus) != s.PaymentStatus {
		return false
	}
	if s.DeliveryStatus != All && string(o.DeliveryStatus) != s.DeliveryStatus {
		return false
	}
	if s.AmountActive() {
		switch s.AmountDirection {
		case DirectionAbove:
			return o.TotalAmount.GreaterThan(*s.AmountValue)
		case DirectionBelow:
			return o.TotalAmount.LessThan(*s.AmountValue)
		}
	}
	return true
}

func (s FilterState) MatchTransaction(tx models.Transaction) bool {
	if s.PaymentStatus != All && string(tx.PaymentStatus) != s.PaymentStatus {
		return false
	}
	if s.DateScope != All && s.DateScope != "" {
		if !tx.TransactionDate.IsZero() {
			return strings.HasPrefix(tx.TransactionDate.Format(dayLayout), s.DateScope)
		}
		return strings.Contains(tx.DateText, s.DateScope)
	}
	return true
}

func filterSlice[T any](records []T, keep func(T) bool) []T {
	out := slices.DeleteFunc(slices.Clone(records), func(r T) bool { return !keep(r) })
	if out == nil {
		out = []T{}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}

func validDateScope(v string) bool {
	switch len(v) {
	case len(dayLayout):
		_, err := time.Parse(dayLayout, v)
		return err == nil
	case len(monthLayout):
		_, err := time.Parse(monthLayout, v)
		return err == nil
	}
	return false
}

func invalidValue(field Field, value string) error {
	return apperrors.Validation("invalid filter value").WithDetails(fmt.Sprintf("%s=%q", field, value))
}
