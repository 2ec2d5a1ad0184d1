package viewmodel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/metrics"
)

func TestDashboard_LoadsAllPanels(t *testing.T) {
	c := NewDashboardController(&fakeBackend{}, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	view := c.View()
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Empty(t, view.Errors)
	assert.Equal(t, int64(7), view.Metrics.UserCount)
	assert.Equal(t, int64(4), view.Metrics.DeliveredOrdersCount)
	assert.Equal(t, "1000", view.Metrics.TotalSales.String())
	assert.Equal(t, "250", view.Metrics.InventoryValue.String())
	assert.Len(t, view.Metrics.WeeklySales, 1)
}

func TestDashboard_PanelErrorsAreIndependent(t *testing.T) {
	fb := &fakeBackend{
		totalSales: func(context.Context) (decimal.Decimal, error) {
			return decimal.Zero, apperrors.Network("backend request failed")
		},
	}
	c := NewDashboardController(fb, quietLogger(), nil)

	err := c.Refresh(context.Background())
	require.Error(t, err)

	view := c.View()
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, map[Panel]string{PanelTotalSales: "backend request failed"}, view.Errors)
	assert.Equal(t, int64(7), view.Metrics.UserCount)
}

func TestDashboard_FailedPanelKeepsPreviousValue(t *testing.T) {
	fail := false
	fb := &fakeBackend{userCount: func(context.Context) (int64, error) {
		if fail {
			return 0, errBackendDown
		}
		return 12, nil
	}}
	c := NewDashboardController(fb, quietLogger(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	fail = true
	require.Error(t, c.Refresh(context.Background()))

	view := c.View()
	assert.Equal(t, int64(12), view.Metrics.UserCount)
	assert.Contains(t, view.Errors, PanelUserCount)
}

func TestDashboard_StaleRefreshNeverOverwrites(t *testing.T) {
	reg := metrics.NewRegistry()
	release := make(chan struct{})
	started := make(chan int32, 2)
	var calls atomic.Int32

	fb := &fakeBackend{
		userCount: func(context.Context) (int64, error) {
			n := calls.Add(1)
			started <- n
			if n == 1 {
				<-release
				return 0, errBackendDown
			}
			return 22, nil
		},
	}
	c := NewDashboardController(fb, quietLogger(), reg)

	first := make(chan error, 1)
	go func() { first <- c.Refresh(context.Background()) }()
	require.Equal(t, int32(1), <-started)

	// newer refresh resolves first
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, int32(2), <-started)
	assert.Equal(t, int64(22), c.View().Metrics.UserCount)

	close(release)
	require.NoError(t, <-first, "a discarded refresh reports no error")

	view := c.View()
	assert.Equal(t, int64(22), view.Metrics.UserCount)
	assert.Empty(t, view.Errors)
	assert.Equal(t, StatusLoaded, view.Status)
	assert.Equal(t, float64(1), staleCount(t, reg, "dashboard"))
}

func TestRegistry_WorkspacePerSession(t *testing.T) {
	r := NewRegistry(&fakeBackend{}, quietLogger(), nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())

	r.Drop("a")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.Get("a"))

	now = now.Add(2 * time.Hour)
	r.Get("a")
	assert.Equal(t, 1, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Len())
}
