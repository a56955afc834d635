package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/config"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

// Options carries optional infrastructure; nil fields disable the feature.
type Options struct {
	Cache  services.ProductCache
	Events services.OrderEvents
}

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	ReviewHandler   *ReviewHandler
	AdminHandler    *AdminHandler
	DocsHandler     *DocsHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, opts Options) *Deps {
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	brandRepo := repos.NewBrandRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	couponRepo := repos.NewCouponRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := services.NewUserService(userRepo)
	catalogSvc := services.NewCatalogService(catRepo, brandRepo, prodRepo, opts.Cache)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, orderRepo, opts.Events)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	couponSvc := services.NewCouponService(couponRepo)
	exportSvc := services.NewExportService(prodRepo)

	return &Deps{
		Auth:            authSvc,
		AuthHandler:     &AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		UserHandler:     &UserHandler{Users: userSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc},
		AdminHandler:    &AdminHandler{Users: userSvc, Reviews: reviewSvc, Coupons: couponSvc, Export: exportSvc},
		DocsHandler:     &DocsHandler{},
	}
}
