package viewmodel

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rowIDs(rows []OrderRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OrderID)
	}
	return ids
}

func TestOrders_DisplayIsReversedBackendOrder(t *testing.T) {
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		return []models.Order{
			order("A", models.PaymentCompleted, models.DeliveryPending, 10),
			order("B", models.PaymentCompleted, models.DeliveryPending, 20),
			order("C", models.PaymentCompleted, models.DeliveryPending, 30),
		}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)

	require.NoError(t, c.Refresh(context.Background()))
	view := c.View()
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, []string{"C", "B", "A"}, rowIDs(view.Rows))
	assert.Equal(t, "60", view.Total.String())
}

func TestOrders_StaleResponseNeverOverwrites(t *testing.T) {
	reg := metrics.NewRegistry()
	release := map[string]chan struct{}{
		"Completed": make(chan struct{}),
		"Failed":    make(chan struct{}),
	}
	started := make(chan string, 2)

	fb := &fakeBackend{listOrders: func(_ context.Context, q url.Values) ([]models.Order, error) {
		status := q.Get("payment_status")
		started <- status
		<-release[status]
		ps, _ := models.ParsePaymentStatus(status)
		return []models.Order{order("from-"+status, ps, models.DeliveryPending, 10)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), reg)

	first := make(chan error, 1)
	go func() { first <- c.SetFilter(context.Background(), FieldPaymentStatus, "Completed") }()
	require.Equal(t, "Completed", <-started)

	second := make(chan error, 1)
	go func() { second <- c.SetFilter(context.Background(), FieldPaymentStatus, "Failed") }()
	require.Equal(t, "Failed", <-started)

	// newer request resolves first
	close(release["Failed"])
	require.NoError(t, <-second)
	assert.Equal(t, []string{"from-Failed"}, rowIDs(c.View().Rows))

	close(release["Completed"])
	require.NoError(t, <-first)

	view := c.View()
	assert.Equal(t, []string{"from-Failed"}, rowIDs(view.Rows))
	assert.Equal(t, "Failed", view.Filter.PaymentStatus)
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, float64(1), staleCount(t, reg, "orders"))
}

func TestOrders_StaleFailureDoesNotSetError(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)
	fb := &fakeBackend{listOrders: func(_ context.Context, q url.Values) ([]models.Order, error) {
		status := q.Get("delivery_status")
		started <- status
		if status == "Pending" {
			<-release
			return nil, errBackendDown
		}
		return []models.Order{order("ok", models.PaymentCompleted, models.DeliveryDone, 1)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)

	first := make(chan error, 1)
	go func() { first <- c.SetFilter(context.Background(), FieldDeliveryStatus, "Pending") }()
	<-started
	require.NoError(t, c.SetFilter(context.Background(), FieldDeliveryStatus, "Done"))
	<-started

	close(release)
	require.NoError(t, <-first)

	view := c.View()
	assert.Empty(t, view.Error)
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, []string{"ok"}, rowIDs(view.Rows))
}

func TestOrders_FailurePreservesRows(t *testing.T) {
	fail := false
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		if fail {
			return nil, apperrors.Network("backend request failed")
		}
		return []models.Order{order("A", models.PaymentCompleted, models.DeliveryPending, 10)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	fail = true
	err := c.Refresh(context.Background())
	require.Error(t, err)

	view := c.View()
	assert.Equal(t, StatusError, view.Status)
	assert.Equal(t, "backend request failed", view.Error)
	assert.Equal(t, []string{"A"}, rowIDs(view.Rows))
}

func TestOrders_InvalidAmountDoesNotFetch(t *testing.T) {
	calls := 0
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		calls++
		return []models.Order{}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)

	require.NoError(t, c.SetFilter(context.Background(), FieldAmountDirection, "above"))
	assert.Equal(t, 1, calls)

	err := c.SetFilter(context.Background(), FieldAmountValue, "ten")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.Equal(t, 1, calls)

	view := c.View()
	assert.Equal(t, "ten", view.Filter.AmountInput)
	assert.NotEmpty(t, view.FilterError)

	require.NoError(t, c.SetFilter(context.Background(), FieldAmountValue, "10"))
	assert.Equal(t, 2, calls)
	assert.Empty(t, c.View().FilterError)
}

func TestOrders_RejectsPaymentsOnlyField(t *testing.T) {
	c := NewOrdersController(&fakeBackend{}, quietLogger(), nil)
	err := c.SetFilter(context.Background(), FieldDateScope, "2024-01")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.Equal(t, All, c.View().Filter.DateScope)
}

func TestOrders_MarkDeliveredNoOpWhenFulfilled(t *testing.T) {
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		return []models.Order{
			order("done", models.PaymentCompleted, models.DeliveryDone, 10),
			order("delivered", models.PaymentCompleted, models.DeliveryDelivered, 10),
		}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	for _, id := range []string{"done", "delivered", "missing"} {
		changed, err := c.MarkDelivered(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, changed, id)
	}
	assert.Equal(t, int32(0), fb.markCalls.Load())
	for _, row := range c.View().Rows {
		assert.False(t, row.CanDeliver, row.OrderID)
	}
}

func TestOrders_MarkDeliveredUpdatesAfterRoundTrip(t *testing.T) {
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		return []models.Order{order("A", models.PaymentCompleted, models.DeliveryPending, 10)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.True(t, c.View().Rows[0].CanDeliver)

	changed, err := c.MarkDelivered(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int32(1), fb.markCalls.Load())

	row := c.View().Rows[0]
	assert.Equal(t, models.DeliveryDelivered, row.DeliveryStatus)
	assert.False(t, row.CanDeliver)

	changed, err = c.MarkDelivered(context.Background(), "A")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int32(1), fb.markCalls.Load())
}

func TestOrders_MarkDeliveredFailureKeepsStatus(t *testing.T) {
	fb := &fakeBackend{
		listOrders: func(context.Context, url.Values) ([]models.Order, error) {
			return []models.Order{order("A", models.PaymentCompleted, models.DeliveryPending, 10)}, nil
		},
		markDelivered: func(context.Context, string) error {
			return apperrors.Network("backend request failed")
		},
	}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	changed, err := c.MarkDelivered(context.Background(), "A")
	require.Error(t, err)
	assert.False(t, changed)

	view := c.View()
	assert.Equal(t, models.DeliveryPending, view.Rows[0].DeliveryStatus)
	assert.True(t, view.Rows[0].CanDeliver)
	assert.NotEmpty(t, view.ActionError)
}

func TestOrders_MarkDeliveredIgnoresDuplicateWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	fb := &fakeBackend{
		listOrders: func(context.Context, url.Values) ([]models.Order, error) {
			return []models.Order{order("A", models.PaymentCompleted, models.DeliveryPending, 10)}, nil
		},
		markDelivered: func(context.Context, string) error {
			close(entered)
			<-release
			return nil
		},
	}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	done := make(chan bool, 1)
	go func() {
		changed, _ := c.MarkDelivered(context.Background(), "A")
		done <- changed
	}()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("mark delivered never reached the backend")
	}

	changed, err := c.MarkDelivered(context.Background(), "A")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.View().Rows[0].Delivering)

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), fb.markCalls.Load())
}

func TestOrders_ToggleExpansion(t *testing.T) {
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		return []models.Order{order("A", models.PaymentCompleted, models.DeliveryPending, 10)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	assert.True(t, c.ToggleExpansion("A"))
	assert.True(t, c.View().Rows[0].Expanded)
	assert.False(t, c.ToggleExpansion("A"))
	assert.False(t, c.View().Rows[0].Expanded)
}

func TestOrders_Details(t *testing.T) {
	fb := &fakeBackend{orderDetails: func(_ context.Context, id string) (models.Order, error) {
		if id == "missing" {
			return models.Order{}, apperrors.NotFound("order not found")
		}
		return models.Order{OrderID: id, Products: []models.ProductLine{{Name: "Milk", Quantity: 1}}}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)

	o, err := c.Details(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, o.Products, 1)

	_, err = c.Details(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestOrders_ApplyFetchesOnce(t *testing.T) {
	var queries []url.Values
	fb := &fakeBackend{listOrders: func(_ context.Context, q url.Values) ([]models.Order, error) {
		queries = append(queries, q)
		return []models.Order{}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)

	err := c.Apply(context.Background(), map[Field]string{
		FieldPaymentStatus:   "Unpaid",
		FieldAmountDirection: "below",
		FieldAmountValue:     "250",
	})
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "Unpaid", queries[0].Get("payment_status"))
	assert.Equal(t, "below", queries[0].Get("amount_filter"))
	assert.Equal(t, "250", queries[0].Get("amount_value"))
}

func TestOrders_InvalidAmountStillFetchesOtherChanges(t *testing.T) {
	var queries []url.Values
	fb := &fakeBackend{listOrders: func(_ context.Context, q url.Values) ([]models.Order, error) {
		queries = append(queries, q)
		ps, _ := models.ParsePaymentStatus(q.Get("payment_status"))
		return []models.Order{order("from-"+string(ps), ps, models.DeliveryPending, 10)}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, map[Field]string{FieldPaymentStatus: "Failed", FieldAmountValue: ""}))
	require.Len(t, queries, 1)

	err := c.Apply(ctx, map[Field]string{FieldPaymentStatus: "Failed", FieldAmountValue: "abc"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	require.Len(t, queries, 1, "nothing changed for the backend")

	err = c.Apply(ctx, map[Field]string{FieldPaymentStatus: "Completed", FieldAmountValue: "abc"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	require.Len(t, queries, 2)
	assert.Equal(t, url.Values{"payment_status": {"Completed"}}, queries[1])

	view := c.View()
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, "abc", view.Filter.AmountInput)
	assert.NotEmpty(t, view.FilterError)
	assert.Equal(t, []string{"from-Completed"}, rowIDs(view.Rows))
}

func TestOrders_DroppedThresholdRefetches(t *testing.T) {
	var queries []url.Values
	fb := &fakeBackend{listOrders: func(_ context.Context, q url.Values) ([]models.Order, error) {
		queries = append(queries, q)
		return []models.Order{}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, map[Field]string{FieldAmountDirection: "above", FieldAmountValue: "100"}))
	require.Error(t, c.Apply(ctx, map[Field]string{FieldAmountDirection: "above", FieldAmountValue: "1oo"}))

	require.Len(t, queries, 2)
	assert.Empty(t, queries[1].Get("amount_value"))
	assert.False(t, c.View().Filter.AmountActive())
}

func TestOrders_RejectedEnumLeavesStateUnchanged(t *testing.T) {
	calls := 0
	fb := &fakeBackend{listOrders: func(context.Context, url.Values) ([]models.Order, error) {
		calls++
		return []models.Order{}, nil
	}}
	c := NewOrdersController(fb, quietLogger(), nil)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, FieldDeliveryStatus, "Pending"))

	err := c.Apply(ctx, map[Field]string{
		FieldPaymentStatus:  "Completed",
		FieldDeliveryStatus: "lost",
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.Equal(t, 1, calls)

	view := c.View()
	assert.Equal(t, All, view.Filter.PaymentStatus)
	assert.Equal(t, string(models.DeliveryPending), view.Filter.DeliveryStatus)
	assert.NotEmpty(t, view.FilterError)
}
