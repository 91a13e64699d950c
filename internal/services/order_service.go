package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/infra"
	"farmconnect/internal/logging"
	"farmconnect/internal/repository"
)

var ErrOrderNotFound = fmt.Errorf("order %w", domain.ErrNotFound)

// OrderCache holds recent order lists. Implementations swallow their own
// errors; a failed Get is a miss.
type OrderCache interface {
	Get(ctx context.Context, key string) ([]domain.Order, bool)
	Set(ctx context.Context, key string, orders []domain.Order)
	Invalidate(ctx context.Context, keys ...string)
}

type OrderService struct {
	store     repository.Store
	publisher infra.Publisher
	cache     OrderCache

	// in-flight event publishes, drained by Wait
	pending sync.WaitGroup
}

func NewOrderService(store repository.Store, pub infra.Publisher) *OrderService {
	if pub == nil {
		pub = infra.NoopPublisher{}
	}
	return &OrderService{
		store:     store,
		publisher: pub,
	}
}

func (u *OrderService) SetCache(c OrderCache) {
	u.cache = c
}

// Checkout turns the buyer's cart into one pending order per farmer. Order
// rows, item snapshots, stock decrements and the cart clear share one
// transaction: if any farmer's part fails nothing is kept.
func (u *OrderService) Checkout(ctx context.Context, buyerID uint64, in domain.CheckoutInput) ([]domain.Order, error) {
	method, err := in.Validate()
	if err != nil {
		return nil, err
	}

	var created []*domain.Order
	err = u.store.Transaction(ctx, func(tx repository.Store) error {
		created = created[:0]

		lines, err := tx.Carts().ListAvailable(ctx, buyerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		for _, group := range domain.SplitByFarmer(lines) {
			order := group.NewOrder(buyerID, in, method)
			if err := tx.Orders().Create(ctx, order); err != nil {
				return fmt.Errorf("create order for farmer %d: %w", group.FarmerID, err)
			}
			for _, line := range group.Lines {
				ok, err := tx.Products().DecrementStock(ctx, line.ProductID, line.Quantity)
				if err != nil {
					return fmt.Errorf("decrement stock of product %d: %w", line.ProductID, err)
				}
				if !ok {
					return fmt.Errorf("%w: not enough %q left for %d %s",
						domain.ErrInsufficientStock, line.Title, line.Quantity, line.Unit)
				}
			}
			created = append(created, order)
		}

		return tx.Carts().Clear(ctx, buyerID)
	})
	if err != nil {
		logging.Log(logging.Fields{UserID: buyerID, Event: "checkout.failed", Error: err.Error()})
		return nil, err
	}

	orders := make([]domain.Order, 0, len(created))
	keys := []string{buyerOrdersKey(buyerID)}
	for _, o := range created {
		orders = append(orders, *o)
		keys = append(keys, farmerOrdersKey(o.FarmerID))
	}
	if err := u.fillFarmers(ctx, orders); err != nil {
		// the orders are committed; a missing display name is not worth failing for
		log.Printf("checkout: load farmer details: %v", err)
	}
	u.invalidate(ctx, keys...)

	for i := range orders {
		o := orders[i]
		logging.Log(logging.Fields{UserID: buyerID, OrderID: o.ID, Event: domain.EventOrderCreated})
		u.publishAsync(domain.EventOrderCreated, o.ID, domain.OrderCreatedEvent{
			OrderID:       o.ID,
			BuyerID:       o.BuyerID,
			FarmerID:      o.FarmerID,
			TotalAmount:   o.TotalAmount,
			PaymentMethod: o.PaymentMethod,
			ItemCount:     len(o.Items),
			CreatedAt:     o.CreatedAt,
		})
	}

	return orders, nil
}

func (u *OrderService) fillFarmers(ctx context.Context, orders []domain.Order) error {
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.FarmerID)
	}
	users, err := u.store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		if f, ok := users[orders[i].FarmerID]; ok {
			orders[i].FarmerName, orders[i].FarmerEmail = f.Name, f.Email
		}
	}
	return nil
}

// GetOrder returns the order if userID is its buyer or its farmer.
func (u *OrderService) GetOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	o, err := u.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || (o.BuyerID != userID && o.FarmerID != userID) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) ListBuyerOrders(ctx context.Context, buyerID uint64) ([]domain.Order, error) {
	return u.cachedList(ctx, buyerOrdersKey(buyerID), func() ([]domain.Order, error) {
		return u.store.Orders().ListByBuyer(ctx, buyerID)
	})
}

// ListFarmerOrders lists orders placed with the farmer, optionally only
// those in one status. Only the unfiltered list is cached.
func (u *OrderService) ListFarmerOrders(ctx context.Context, farmerID uint64, status string) ([]domain.Order, error) {
	if status != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		orders, err := u.store.Orders().ListByFarmer(ctx, farmerID, st)
		if err != nil {
			return nil, err
		}
		return nonNil(orders), nil
	}
	return u.cachedList(ctx, farmerOrdersKey(farmerID), func() ([]domain.Order, error) {
		return u.store.Orders().ListByFarmer(ctx, farmerID, "")
	})
}

func (u *OrderService) cachedList(ctx context.Context, key string, load func() ([]domain.Order, error)) ([]domain.Order, error) {
	if u.cache != nil {
		if orders, ok := u.cache.Get(ctx, key); ok {
			return orders, nil
		}
	}
	orders, err := load()
	if err != nil {
		return nil, err
	}
	orders = nonNil(orders)
	if u.cache != nil {
		u.cache.Set(ctx, key, orders)
	}
	return orders, nil
}

// UpdateStatusAsBuyer applies a buyer's request; buyers can only cancel
// pending orders.
func (u *OrderService) UpdateStatusAsBuyer(ctx context.Context, buyerID, orderID uint64, status string) (*domain.Order, error) {
	return u.updateStatus(ctx, domain.RoleBuyer, buyerID, orderID, status)
}

func (u *OrderService) UpdateStatusAsFarmer(ctx context.Context, farmerID, orderID uint64, status string) (*domain.Order, error) {
	return u.updateStatus(ctx, domain.RoleFarmer, farmerID, orderID, status)
}

func (u *OrderService) updateStatus(ctx context.Context, actor domain.Role, userID, orderID uint64, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	o, err := u.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || !party(actor, userID, o) {
		return nil, ErrOrderNotFound
	}

	from := o.Status
	if err := domain.CheckTransition(actor, from, next); err != nil {
		return nil, err
	}

	ok, err := u.store.Orders().UpdateStatus(ctx, orderID, from, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		// someone else moved the order between our read and write
		current, err := u.store.Orders().FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		return nil, &domain.InvalidTransitionError{From: current.Status, To: next}
	}

	o.Status = next
	o.UpdatedAt = time.Now()
	u.invalidate(ctx, buyerOrdersKey(o.BuyerID), farmerOrdersKey(o.FarmerID))

	logging.Log(logging.Fields{UserID: userID, OrderID: o.ID, Event: domain.EventOrderStatusChanged,
		Message: fmt.Sprintf("%s -> %s by %s", from, next, actor)})
	u.publishAsync(domain.EventOrderStatusChanged, o.ID, domain.OrderStatusChangedEvent{
		OrderID:   o.ID,
		BuyerID:   o.BuyerID,
		FarmerID:  o.FarmerID,
		From:      from,
		To:        next,
		ChangedBy: actor,
		ChangedAt: o.UpdatedAt,
	})
	return o, nil
}

func party(actor domain.Role, userID uint64, o *domain.Order) bool {
	switch actor {
	case domain.RoleBuyer:
		return o.BuyerID == userID
	case domain.RoleFarmer:
		return o.FarmerID == userID
	default:
		return false
	}
}

// publishAsync hands the event to the broker without holding up the
// request. Failures are logged and dropped.
func (u *OrderService) publishAsync(eventType string, orderID uint64, data any) {
	u.pending.Add(1)
	go func() {
		defer u.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.publisher.Publish(ctx, eventType, strconv.FormatUint(orderID, 10), data); err != nil {
			log.Printf("Failed to publish %s for order %d: %v", eventType, orderID, err)
		}
	}()
}

// Wait blocks until every event handed to the publisher has been sent or
// dropped.
func (u *OrderService) Wait() {
	u.pending.Wait()
}

func (u *OrderService) invalidate(ctx context.Context, keys ...string) {
	if u.cache != nil {
		u.cache.Invalidate(ctx, keys...)
	}
}

func buyerOrdersKey(id uint64) string  { return "orders:buyer:" + strconv.FormatUint(id, 10) }
func farmerOrdersKey(id uint64) string { return "orders:farmer:" + strconv.FormatUint(id, 10) }

func nonNil(orders []domain.Order) []domain.Order {
	if orders == nil {
		return []domain.Order{}
	}
	return orders
}
