// Package service implements the order admin view: a loaded snapshot of the
// orders and user profiles, paginated locally and mutated through the
// document store one order at a time.
package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/logger"
)

// PageSize is the number of orders per page.
const PageSize = 5

// State is the load state of a view.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Repository is the store access a view needs.
type Repository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListUsers(ctx context.Context) (map[string]*domain.User, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	Delete(ctx context.Context, orderID string) error
}

// EventPublisher announces successful mutations.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string)
	PublishOrderDeleted(ctx context.Context, orderID, userID string)
}

// OrderView is one mounted admin page. All methods are safe for concurrent
// use; store calls are made without holding the view lock.
type OrderView struct {
	id     string
	repo   Repository
	events EventPublisher
	logger *logger.Logger

	mu        sync.RWMutex
	state     State
	err       error
	orders    []domain.Order
	users     map[string]*domain.User
	page      int
	rowErrors map[string]error

	done     chan struct{}
	doneOnce sync.Once
}

// NewOrderView creates a view in the Loading state on page 1.
func NewOrderView(id string, repo Repository, events EventPublisher, log *logger.Logger) *OrderView {
	return &OrderView{
		id:        id,
		repo:      repo,
		events:    events,
		logger:    log.WithViewID(id),
		state:     StateLoading,
		users:     make(map[string]*domain.User),
		page:      1,
		rowErrors: make(map[string]error),
		done:      make(chan struct{}),
	}
}

// ID returns the view id.
func (v *OrderView) ID() string { return v.id }

// State returns the current load state.
func (v *OrderView) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Err returns the load error of a Failed view.
func (v *OrderView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Done is closed once the view leaves Loading.
func (v *OrderView) Done() <-chan struct{} { return v.done }

// Load reads orders and user profiles concurrently. A read error or an
// expired deadline moves the view to Failed. A cancelled context leaves the
// view untouched in Loading.
func (v *OrderView) Load(ctx context.Context) error {
	var (
		orders []domain.Order
		users  map[string]*domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = v.repo.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = v.repo.ListUsers(gctx)
		return err
	})
	err := g.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		err = errors.Store(ctxErr)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoading {
		return nil
	}

	if err != nil {
		v.state = StateFailed
		v.err = err
		v.finish()
		return err
	}

	v.orders = orders
	v.users = users
	v.state = StateReady
	v.finish()

	v.logger.Debug().Int("orders", len(orders)).Int("users", len(users)).Msg("view loaded")
	return nil
}

func (v *OrderView) finish() {
	v.doneOnce.Do(func() { close(v.done) })
}

// CurrentPage returns the 1-indexed page.
func (v *OrderView) CurrentPage() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// TotalPages is ceil(orders / PageSize), zero for an empty list.
func (v *OrderView) TotalPages() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.totalPagesLocked()
}

func (v *OrderView) totalPagesLocked() int {
	return (len(v.orders) + PageSize - 1) / PageSize
}

func (v *OrderView) clampLocked(page int) int {
	last := v.totalPagesLocked()
	if last < 1 {
		last = 1
	}
	switch {
	case page < 1:
		return 1
	case page > last:
		return last
	default:
		return page
	}
}

// Prev moves one page back, stopping at 1.
func (v *OrderView) Prev() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = v.clampLocked(v.page - 1)
	return v.page
}

// Next moves one page forward, stopping at the last page.
func (v *OrderView) Next() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = v.clampLocked(v.page + 1)
	return v.page
}

// GoTo jumps to page n, clamped into the valid range.
func (v *OrderView) GoTo(n int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = v.clampLocked(n)
	return v.page
}

// Item is one order on the current page with its joined profile.
type Item struct {
	Order domain.Order
	// User is nil when the order's user has no profile.
	User *domain.User
	// Err is set when the last mutation of this order failed.
	Err error
}

// Address is the joined address of the order's user.
func (it Item) Address() string {
	return it.User.Address()
}

// Page is a consistent snapshot of a view.
type Page struct {
	ViewID      string
	State       State
	Err         error
	Number      int
	TotalPages  int
	TotalOrders int
	Items       []Item
}

// Snapshot copies the current page out of the view.
func (v *OrderView) Snapshot() Page {
	v.mu.RLock()
	defer v.mu.RUnlock()

	p := Page{
		ViewID:      v.id,
		State:       v.state,
		Err:         v.err,
		Number:      v.page,
		TotalPages:  v.totalPagesLocked(),
		TotalOrders: len(v.orders),
	}
	if v.state != StateReady {
		return p
	}

	start := (v.page - 1) * PageSize
	end := start + PageSize
	if end > len(v.orders) {
		end = len(v.orders)
	}
	if start > end {
		start = end
	}

	p.Items = make([]Item, 0, end-start)
	for _, o := range v.orders[start:end] {
		item := Item{Order: copyOrder(o), Err: v.rowErrors[o.ID]}
		if u, ok := v.users[o.UserID]; ok {
			uc := *u
			item.User = &uc
		}
		p.Items = append(p.Items, item)
	}
	return p
}

func copyOrder(o domain.Order) domain.Order {
	if o.CartItems != nil {
		o.CartItems = append([]domain.CartItem(nil), o.CartItems...)
	}
	return o
}

// lookup returns the order for a mutation or the error that forbids it.
func (v *OrderView) lookup(orderID string) (domain.Order, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch v.state {
	case StateLoading:
		return domain.Order{}, errors.ViewLoading()
	case StateFailed:
		return domain.Order{}, v.err
	}

	i := v.indexLocked(orderID)
	if i < 0 {
		return domain.Order{}, errors.NotFound("order")
	}
	return v.orders[i], nil
}

func (v *OrderView) indexLocked(orderID string) int {
	for i := range v.orders {
		if v.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

// SetStatus writes a new status for one order. On success the local copy is
// patched and a Notice returned. On failure the local order is unchanged and
// its row is marked with the error.
func (v *OrderView) SetStatus(ctx context.Context, orderID, status string) (Notice, error) {
	if !domain.IsValidStatus(status) {
		return Notice{}, errors.InvalidStatus(status)
	}

	order, err := v.lookup(orderID)
	if err != nil {
		return Notice{}, err
	}

	log := v.logger.WithOrderID(orderID)
	if err := v.repo.UpdateStatus(ctx, orderID, status); err != nil {
		v.markRow(orderID, err)
		log.Warn().Err(err).Msg("status update failed")
		return Notice{}, err
	}

	v.mu.Lock()
	if i := v.indexLocked(orderID); i >= 0 {
		v.orders[i].Status = status
	}
	delete(v.rowErrors, orderID)
	v.mu.Unlock()

	v.events.PublishStatusChanged(ctx, orderID, order.Status, status)
	log.Info().Str("status", status).Msg("order status changed")

	return Notice{Key: NoticeStatusChanged, OrderID: orderID, Status: status}, nil
}

// DeleteOrder removes one order from the store and then from the view,
// keeping the current page within range.
func (v *OrderView) DeleteOrder(ctx context.Context, orderID string) (Notice, error) {
	order, err := v.lookup(orderID)
	if err != nil {
		return Notice{}, err
	}

	log := v.logger.WithOrderID(orderID)
	if err := v.repo.Delete(ctx, orderID); err != nil {
		v.markRow(orderID, err)
		log.Warn().Err(err).Msg("order delete failed")
		return Notice{}, err
	}

	v.mu.Lock()
	if i := v.indexLocked(orderID); i >= 0 {
		v.orders = append(v.orders[:i:i], v.orders[i+1:]...)
	}
	delete(v.rowErrors, orderID)
	v.page = v.clampLocked(v.page)
	v.mu.Unlock()

	v.events.PublishOrderDeleted(ctx, orderID, order.UserID)
	log.Info().Msg("order deleted")

	return Notice{Key: NoticeOrderDeleted, OrderID: orderID}, nil
}

func (v *OrderView) markRow(orderID string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rowErrors[orderID] = err
}
