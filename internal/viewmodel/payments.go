package viewmodel

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/models"
	"smartmart-admin/internal/services"
)

type PaymentsBackend interface {
	ListTransactions(ctx context.Context, query url.Values) ([]models.Transaction, error)
	MonthlyRevenue(ctx context.Context, query url.Values) ([]models.RevenuePoint, error)
	WeeklyRevenue(ctx context.Context, query url.Values) ([]models.RevenuePoint, error)
	PaymentSummary(ctx context.Context, query url.Values) (models.SummaryAggregate, error)
}

// paymentsSnapshot is replaced as a whole; a partial load never lands.
type paymentsSnapshot struct {
	transactions []models.Transaction
	monthly      []models.RevenuePoint
	weekly       []models.RevenuePoint
	reported     models.SummaryAggregate
}

type PaymentsView struct {
	Filter       FilterState
	Status       Status
	Error        string
	FilterError  string
	Transactions []models.Transaction
	Summary      models.SummaryAggregate
	// Reported is the backend's own summary, shown for comparison.
	Reported models.SummaryAggregate
	Monthly  []models.RevenuePoint
	Weekly   []models.RevenuePoint
}

type PaymentsController struct {
	backend PaymentsBackend
	deps

	mu        sync.Mutex
	gen       generation
	filter    FilterState
	snap      paymentsSnapshot
	status    Status
	fetchErr  error
	filterErr error
}

func NewPaymentsController(backend PaymentsBackend, logger *slog.Logger, m *metrics.Registry) *PaymentsController {
	return &PaymentsController{
		backend: backend,
		deps:    newDeps(logger, m),
		filter:  DefaultFilter(),
		snap: paymentsSnapshot{
			transactions: []models.Transaction{},
			monthly:      []models.RevenuePoint{},
			weekly:       []models.RevenuePoint{},
		},
		status: StatusIdle,
	}
}

// SetFilter changes one dimension and re-fetches. A rejected value is
// reported and never reaches the backend.
func (c *PaymentsController) SetFilter(ctx context.Context, field Field, value string) error {
	return c.Apply(ctx, map[Field]string{field: value})
}

// Apply changes several dimensions at once and re-fetches a single time.
func (c *PaymentsController) Apply(ctx context.Context, changes map[Field]string) error {
	c.mu.Lock()
	prev := c.filter
	next, err := c.filter.apply(changes, ScopeTransactions.Fields())
	c.filter = next
	c.filterErr = err
	c.mu.Unlock()

	if err != nil && sameQuery(prev, next, ScopeTransactions) {
		return err
	}
	if fetchErr := c.Refresh(ctx); fetchErr != nil {
		return fetchErr
	}
	return err
}

// Refresh loads transactions, both revenue series and the backend summary in
// parallel. State changes only if all four succeed and no newer request has
// been issued since.
func (c *PaymentsController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.gen.next()
	query := BuildQuery(c.filter, ScopeTransactions)
	c.status = StatusLoading
	c.mu.Unlock()

	var snap paymentsSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := c.backend.ListTransactions(gctx, query)
		snap.transactions = txs
		return err
	})
	g.Go(func() error {
		points, err := c.backend.MonthlyRevenue(gctx, query)
		snap.monthly = points
		return err
	})
	g.Go(func() error {
		points, err := c.backend.WeeklyRevenue(gctx, query)
		snap.weekly = points
		return err
	})
	g.Go(func() error {
		summary, err := c.backend.PaymentSummary(gctx, query)
		snap.reported = summary
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gen.current(token) {
		c.discardStale(ctx, ScopeTransactions.String(), token, c.gen.latest)
		return nil
	}
	if err != nil {
		c.status = StatusError
		c.fetchErr = err
		c.logger.WarnContext(ctx, "payments fetch failed", "error", err, "query", query.Encode())
		return err
	}

	c.snap = snap
	c.status = StatusLoaded
	c.fetchErr = nil
	return nil
}

func (c *PaymentsController) View() PaymentsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := filterSlice(services.Reverse(c.snap.transactions), c.filter.MatchTransaction)
	return PaymentsView{
		Filter:       c.filter,
		Status:       c.status,
		Error:        errorText(c.fetchErr),
		FilterError:  errorText(c.filterErr),
		Transactions: visible,
		Summary:      services.ComputeSummary(visible),
		Reported:     c.snap.reported,
		Monthly:      slices.Clone(c.snap.monthly),
		Weekly:       slices.Clone(c.snap.weekly),
	}
}
