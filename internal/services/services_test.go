package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

const (
	alice int64 = 1
	bob   int64 = 2
	admin int64 = 3
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:", true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type recorder struct {
	mu     sync.Mutex
	orders []domain.OrderDetail
}

func (r *recorder) OrderPlaced(_ context.Context, o domain.OrderDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

type stack struct {
	db     *sqlx.DB
	prods  *repos.ProductRepo
	cart   *services.CartService
	order  *services.OrderService
	review *services.ReviewService
	events *recorder
}

func newStack(t *testing.T) *stack {
	db := memdb(t)
	prods := repos.NewProductRepo(db)
	ev := &recorder{}
	return &stack{
		db:     db,
		prods:  prods,
		cart:   services.NewCartService(repos.NewCartRepo(db), prods),
		order:  services.NewOrderService(db, repos.NewOrderRepo(db), ev),
		review: services.NewReviewService(repos.NewReviewRepo(db), prods),
		events: ev,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckoutSnapshotsPrices(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, created, err := s.cart.AddItem(ctx, alice, 1, 1, 1); err != nil || !created {
		t.Fatalf("add: created=%v err=%v", created, err)
	}
	if _, _, err := s.cart.AddItem(ctx, alice, 2, 3, 1); err != nil {
		t.Fatal(err)
	}
	it, created, err := s.cart.AddItem(ctx, alice, 2, 3, 1)
	if err != nil || created || it.Quantity != 2 {
		t.Fatalf("increment: %+v created=%v err=%v", it, created, err)
	}

	od, err := s.order.Checkout(ctx, alice, "  1 Main St ")
	if err != nil {
		t.Fatal(err)
	}
	if !od.Order.TotalAmount.Equal(dec("1069.00")) {
		t.Fatalf("total: %s", od.Order.TotalAmount)
	}
	if od.Order.ShippingAddress != "1 Main St" || len(od.Order.Reference) != 15 {
		t.Fatalf("order: %+v", od.Order)
	}
	sum := decimal.Zero
	for _, item := range od.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !sum.Equal(od.Order.TotalAmount) {
		t.Fatalf("items sum %s != total %s", sum, od.Order.TotalAmount)
	}

	view, err := s.cart.View(ctx, alice)
	if err != nil || len(view.Items) != 0 || !view.Subtotal.IsZero() {
		t.Fatalf("cart after checkout: %+v err=%v", view, err)
	}
	if len(s.events.orders) != 1 || s.events.orders[0].Order.ID != od.Order.ID {
		t.Fatalf("events: %+v", s.events.orders)
	}

	// later catalog changes never touch the snapshot
	newPrice := dec("5.00")
	if _, err := s.prods.UpdateVariant(ctx, 2, 3, repos.VariantPatch{Price: &newPrice}); err != nil {
		t.Fatal(err)
	}
	if err := s.prods.DeleteVariant(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	again, err := s.order.Get(ctx, domain.Identity{UserID: alice}, od.Order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Order.TotalAmount.Equal(dec("1069")) {
		t.Fatalf("total drifted: %s", again.Order.TotalAmount)
	}
	for _, item := range again.Items {
		switch {
		case item.VariantID == nil:
			if !item.Price.Equal(dec("999")) || item.ProductID == nil {
				t.Fatalf("deleted-variant line: %+v", item)
			}
		case *item.VariantID == 3:
			if !item.Price.Equal(dec("35")) || item.Quantity != 2 {
				t.Fatalf("repriced-variant line: %+v", item)
			}
		default:
			t.Fatalf("unexpected line: %+v", item)
		}
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, err := s.order.Checkout(ctx, bob, ""); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
	orders, _ := s.order.ListMine(ctx, bob)
	if len(orders) != 0 || len(s.events.orders) != 0 {
		t.Fatalf("empty checkout left traces: %+v", orders)
	}

	if err := s.cart.Clear(ctx, bob); err != nil {
		t.Fatalf("clear empty cart: %v", err)
	}
	if err := s.cart.Clear(ctx, bob); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
}

func TestCheckoutFallsBackToProductPrice(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, _, err := s.cart.AddItem(ctx, bob, 1, 2, 3); err != nil {
		t.Fatal(err)
	}
	od, err := s.order.Checkout(ctx, bob, "")
	if err != nil {
		t.Fatal(err)
	}
	if !od.Order.TotalAmount.Equal(dec("2997")) || !od.Items[0].Price.Equal(dec("999")) {
		t.Fatalf("fallback pricing: %+v", od)
	}
}

func TestCheckoutMissingVariantRollsBack(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, _, err := s.cart.AddItem(ctx, alice, 2, 4, 1); err != nil {
		t.Fatal(err)
	}
	// simulate a dangling cart line that the cascade would normally remove
	s.db.MustExec(`PRAGMA foreign_keys = OFF`)
	s.db.MustExec(`DELETE FROM product_variants WHERE id = 4`)
	s.db.MustExec(`PRAGMA foreign_keys = ON`)

	_, err := s.order.Checkout(ctx, alice, "")
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("want ErrDataIntegrity, got %v", err)
	}
	orders, _ := s.order.ListMine(ctx, alice)
	if len(orders) != 0 {
		t.Fatalf("order written despite failure: %+v", orders)
	}
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM cart_items`); err != nil || n != 1 {
		t.Fatalf("cart should be untouched: n=%d err=%v", n, err)
	}
}

func TestCartRules(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, _, err := s.cart.AddItem(ctx, alice, 1, 1, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero quantity: %v", err)
	}
	if _, _, err := s.cart.AddItem(ctx, alice, 2, 1, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("variant of another product: %v", err)
	}
	if _, _, err := s.cart.AddItem(ctx, alice, 1, 99, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing variant: %v", err)
	}

	it, _, err := s.cart.AddItem(ctx, alice, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.cart.UpdateItem(ctx, bob, it.ID, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign update: %v", err)
	}
	if err := s.cart.RemoveItem(ctx, bob, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign remove: %v", err)
	}
	up, err := s.cart.UpdateItem(ctx, alice, it.ID, 4)
	if err != nil || up.Quantity != 4 {
		t.Fatalf("update: %+v err=%v", up, err)
	}
	if _, err := s.cart.UpdateItem(ctx, alice, it.ID, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("update to zero: %v", err)
	}

	c1, err := s.cart.GetOrCreateCart(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := s.cart.GetOrCreateCart(ctx, alice)
	if c1.ID != c2.ID {
		t.Fatalf("second cart created: %d vs %d", c1.ID, c2.ID)
	}
}

func TestConcurrentAddsAccumulate(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.cart.AddItem(ctx, bob, 2, 3, 1); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	view, err := s.cart.View(ctx, bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 8 {
		t.Fatalf("want one line with quantity 8, got %+v", view.Items)
	}
}

func TestOrderAccessAndStatus(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, _, err := s.cart.AddItem(ctx, alice, 2, 3, 1); err != nil {
		t.Fatal(err)
	}
	od, err := s.order.Checkout(ctx, alice, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.order.Get(ctx, domain.Identity{UserID: bob}, od.Order.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("foreign read: %v", err)
	}
	if _, err := s.order.Get(ctx, domain.Identity{UserID: admin, IsAdmin: true}, od.Order.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := s.order.Get(ctx, domain.Identity{UserID: bob}, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing order: %v", err)
	}

	if _, err := s.order.UpdateStatus(ctx, od.Order.ID, "Lost", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad status: %v", err)
	}
	o, err := s.order.UpdateStatus(ctx, od.Order.ID, "delivered", "")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderDelivered || o.PaymentStatus != domain.PaymentUnpaid {
		t.Fatalf("status update: %+v", o)
	}
	o, err = s.order.UpdateStatus(ctx, od.Order.ID, "Delivered", "paid")
	if err != nil || o.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("payment update: %+v err=%v", o, err)
	}
}

func TestReviewEligibility(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, err := s.review.AddReview(ctx, alice, 2, 5, ""); !errors.Is(err, domain.ErrPurchaseRequired) {
		t.Fatalf("no purchase: %v", err)
	}
	if _, err := s.review.AddReview(ctx, alice, 2, 9, ""); !errors.Is(err, domain.ErrInvalidRating) {
		t.Fatalf("bad rating: %v", err)
	}
	if _, err := s.review.AddReview(ctx, alice, 42, 4, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing product: %v", err)
	}

	if _, _, err := s.cart.AddItem(ctx, alice, 2, 4, 1); err != nil {
		t.Fatal(err)
	}
	od, err := s.order.Checkout(ctx, alice, "")
	if err != nil {
		t.Fatal(err)
	}
	rv, err := s.review.AddReview(ctx, alice, 2, 4, " fits well ")
	if err != nil {
		t.Fatal(err)
	}
	if rv.OrderID == nil || *rv.OrderID != od.Order.ID || rv.Comment != "fits well" {
		t.Fatalf("review: %+v", rv)
	}
	_, err = s.review.AddReview(ctx, alice, 2, 5, "")
	if !errors.Is(err, domain.ErrDuplicateReview) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate: %v", err)
	}

	if err := s.review.Delete(ctx, domain.Identity{UserID: bob}, rv.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("foreign delete: %v", err)
	}
	if err := s.review.Delete(ctx, domain.Identity{UserID: alice}, rv.ID); err != nil {
		t.Fatalf("own delete: %v", err)
	}
}

func TestAuthTokens(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), "k", time.Hour)
	ctx := context.Background()

	u, tok, err := auth.Register(ctx, "carol", " Carol@Shopfront.Test ", "Str0ng!pass")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "carol@shopfront.test" || u.IsAdmin || tok == "" {
		t.Fatalf("register: %+v", u)
	}
	if _, _, err := auth.Register(ctx, "carol2", "CAROL@shopfront.test", "Str0ng!pass"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: %v", err)
	}
	if _, _, err := auth.Login(ctx, "carol@shopfront.test", "wrong"); !errors.Is(err, domain.ErrBadCreds) {
		t.Fatalf("bad password: %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@shopfront.test", "Str0ng!pass"); !errors.Is(err, domain.ErrBadCreds) {
		t.Fatalf("unknown email: %v", err)
	}
	_, tok, err = auth.Login(ctx, "CAROL@shopfront.test", "Str0ng!pass")
	if err != nil {
		t.Fatal(err)
	}
	me, err := auth.CurrentUser(ctx, tok)
	if err != nil || me.ID != u.ID {
		t.Fatalf("current user: %+v err=%v", me, err)
	}

	other := services.NewAuthService(repos.NewUserRepo(db), "other", time.Hour)
	if _, err := other.Parse(tok); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("foreign signature: %v", err)
	}
	expired := &services.AuthService{Users: repos.NewUserRepo(db), Secret: []byte("k"), TTL: -time.Minute}
	old, _ := expired.Issue(u)
	if _, err := auth.Parse(old); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestCartQuantityBounds(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	if _, _, err := s.cart.AddItem(ctx, alice, 2, 3, domain.MaxItemQuantity+1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversized add: %v", err)
	}
	it, _, err := s.cart.AddItem(ctx, alice, 2, 3, domain.MaxItemQuantity)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.cart.AddItem(ctx, alice, 2, 3, 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("increment past the cap: %v", err)
	}
	if _, err := s.cart.UpdateItem(ctx, alice, it.ID, domain.MaxItemQuantity+1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversized update: %v", err)
	}
	view, _ := s.cart.View(ctx, alice)
	if len(view.Items) != 1 || view.Items[0].Quantity != domain.MaxItemQuantity {
		t.Fatalf("rejected adds changed the line: %+v", view.Items)
	}
}

func TestCheckoutRejectsUnstorableTotal(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	top := dec("99999999.99")
	if _, err := s.prods.UpdateVariant(ctx, 1, 1, repos.VariantPatch{Price: &top}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.cart.AddItem(ctx, bob, 1, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.order.Checkout(ctx, bob, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	orders, _ := s.order.ListMine(ctx, bob)
	if len(orders) != 0 {
		t.Fatalf("order written: %+v", orders)
	}
}
