package services

import (
	"context"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID int64) (domain.Cart, error) {
	return s.Carts.EnsureCart(ctx, userID, false)
}

// View returns the cart with its lines priced at the current effective price.
func (s *CartService) View(ctx context.Context, userID int64) (domain.CartView, error) {
	cart, err := s.Carts.EnsureCart(ctx, userID, false)
	if err != nil {
		return domain.CartView{}, err
	}
	lines, err := s.Carts.Lines(ctx, cart.ID)
	if err != nil {
		return domain.CartView{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return domain.CartView{Cart: cart, Items: lines, Subtotal: total}, nil
}

// AddItem adds quantity units of a variant. created reports whether a new
// line was inserted rather than an existing one incremented.
func (s *CartService) AddItem(ctx context.Context, userID, productID, variantID int64, quantity int) (item domain.CartItem, created bool, err error) {
	if err := checkQuantity(quantity); err != nil {
		return item, false, err
	}
	v, err := s.Prods.Variant(ctx, variantID)
	if err != nil {
		return item, false, err
	}
	if v.ProductID != productID {
		return item, false, domain.Missing("variant")
	}
	cart, err := s.Carts.EnsureCart(ctx, userID, false)
	if err != nil {
		return item, false, err
	}
	item, err = s.Carts.UpsertItem(ctx, cart.ID, productID, variantID, quantity)
	if err != nil {
		return item, false, err
	}
	// an existing line already held at least one unit
	return item, item.Quantity == quantity, nil
}

// UpdateItem sets the quantity of a line in the caller's own cart.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (domain.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return domain.CartItem{}, err
	}
	cart, err := s.Carts.EnsureCart(ctx, userID, false)
	if err != nil {
		return domain.CartItem{}, err
	}
	return s.Carts.SetQty(ctx, cart.ID, itemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.Carts.EnsureCart(ctx, userID, false)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(ctx, cart.ID, itemID)
}

// Clear empties the caller's cart. Clearing an empty cart succeeds.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cart, err := s.Carts.EnsureCart(ctx, userID, false)
	if err != nil {
		return err
	}
	return s.Carts.Clear(ctx, cart.ID)
}

func checkQuantity(q int) error {
	if q < 1 {
		return domain.Invalid("quantity must be at least 1")
	}
	if q > domain.MaxItemQuantity {
		return domain.Invalid("quantity must be at most %d", domain.MaxItemQuantity)
	}
	return nil
}
