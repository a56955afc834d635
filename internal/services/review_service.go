package services

import (
	"context"
	"strings"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// AddReview stores a review for a product the user has ordered. One review
// per user and product.
func (s *ReviewService) AddReview(ctx context.Context, userID, productID int64, rating int, comment string) (domain.Review, error) {
	if rating < 1 || rating > 5 {
		return domain.Review{}, domain.ErrInvalidRating
	}
	if _, err := s.Prods.Get(ctx, productID); err != nil {
		return domain.Review{}, err
	}
	orderID, ok, err := s.Reviews.PurchaseProof(ctx, userID, productID)
	if err != nil {
		return domain.Review{}, err
	}
	if !ok {
		return domain.Review{}, domain.ErrPurchaseRequired
	}
	exists, err := s.Reviews.Exists(ctx, userID, productID)
	if err != nil {
		return domain.Review{}, err
	}
	if exists {
		return domain.Review{}, domain.ErrDuplicateReview
	}
	return s.Reviews.Create(ctx, userID, productID, orderID, rating, strings.TrimSpace(comment))
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.Reviews.ListForProduct(ctx, productID)
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.Reviews.ListAll(ctx)
}

// Delete removes a review owned by the caller; admins may remove any.
func (s *ReviewService) Delete(ctx context.Context, caller domain.Identity, reviewID int64) error {
	rv, err := s.Reviews.ByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.UserID != caller.UserID && !caller.IsAdmin {
		return domain.ErrAccessDenied
	}
	return s.Reviews.Delete(ctx, reviewID)
}

func (s *ReviewService) AdminDelete(ctx context.Context, reviewID int64) error {
	return s.Reviews.Delete(ctx, reviewID)
}
