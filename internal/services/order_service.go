package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// OrderEvents receives committed orders. Implementations must not block or fail the caller.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, o domain.OrderDetail)
}

type noEvents struct{}

func (noEvents) OrderPlaced(context.Context, domain.OrderDetail) {}

type OrderService struct {
	DB     *sqlx.DB
	Orders *repos.OrderRepo
	Events OrderEvents
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, events OrderEvents) *OrderService {
	if events == nil {
		events = noEvents{}
	}
	return &OrderService{DB: db, Orders: orders, Events: events}
}

// Checkout converts the caller's cart into an order in one transaction:
// price every line, write the order and its snapshot items, empty the cart.
func (s *OrderService) Checkout(ctx context.Context, userID int64, shippingAddress string) (domain.OrderDetail, error) {
	var out domain.OrderDetail
	err := repos.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		carts := repos.NewCartRepo(tx)
		prods := repos.NewProductRepo(tx)
		orders := repos.NewOrderRepo(tx)

		cart, err := carts.EnsureCart(ctx, userID, true)
		if err != nil {
			return err
		}
		items, err := carts.Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		prices := make([]decimal.Decimal, len(items))
		total := decimal.Zero
		for i, it := range items {
			p, err := prods.EffectivePrice(ctx, it.VariantID)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: cart item %d references missing variant %d", domain.ErrDataIntegrity, it.ID, it.VariantID)
			}
			if err != nil {
				return err
			}
			prices[i] = p
			total = total.Add(p.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if total.GreaterThan(domain.MaxAmount) {
			return domain.Invalid("order total must be at most %s", domain.MaxAmount.StringFixed(2))
		}

		order, err := orders.Create(ctx, userID, newReference(), total, strings.TrimSpace(shippingAddress))
		if err != nil {
			return err
		}
		for i, it := range items {
			if err := orders.InsertItem(ctx, order.ID, it.ProductID, it.VariantID, it.Quantity, prices[i]); err != nil {
				return err
			}
		}
		if err := carts.Clear(ctx, cart.ID); err != nil {
			return err
		}
		snapshot, err := orders.Items(ctx, order.ID)
		if err != nil {
			return err
		}
		out = domain.OrderDetail{Order: order, Items: snapshot}
		return nil
	})
	if err != nil {
		return domain.OrderDetail{}, err
	}
	s.Events.OrderPlaced(ctx, out)
	return out, nil
}

// Get returns an order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, caller domain.Identity, orderID int64) (domain.OrderDetail, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if o.UserID != caller.UserID && !caller.IsAdmin {
		return domain.OrderDetail{}, domain.ErrAccessDenied
	}
	items, err := s.Orders.Items(ctx, orderID)
	if err != nil {
		return domain.OrderDetail{}, err
	}
	return domain.OrderDetail{Order: o, Items: items}, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.Orders.ListAll(ctx)
}

// UpdateStatus validates against the closed status sets; payment may be empty.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status, payment string) (domain.Order, error) {
	st, ok := domain.ParseOrderStatus(status)
	if !ok {
		return domain.Order{}, domain.Invalid("status must be one of Pending, Shipped, Delivered, Cancelled")
	}
	var ps *domain.PaymentStatus
	if strings.TrimSpace(payment) != "" {
		p, ok := domain.ParsePaymentStatus(payment)
		if !ok {
			return domain.Order{}, domain.Invalid("payment_status must be one of Unpaid, Paid, Refunded")
		}
		ps = &p
	}
	return s.Orders.UpdateStatus(ctx, orderID, st, ps)
}

func newReference() string {
	return "SF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
