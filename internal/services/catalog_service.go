package services

import (
	"context"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// ProductCache stores product detail documents. Misses and backend failures
// are both reported as ok=false.
type ProductCache interface {
	Get(ctx context.Context, id int64) (domain.ProductDetail, bool)
	Set(ctx context.Context, d domain.ProductDetail)
	Invalidate(ctx context.Context, id int64)
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (domain.ProductDetail, bool) { return domain.ProductDetail{}, false }
func (noCache) Set(context.Context, domain.ProductDetail)                {}
func (noCache) Invalidate(context.Context, int64)                        {}

type CatalogService struct {
	Cats   *repos.CategoryRepo
	Brands *repos.BrandRepo
	Prods  *repos.ProductRepo
	Cache  ProductCache
}

func NewCatalogService(cats *repos.CategoryRepo, brands *repos.BrandRepo, prods *repos.ProductRepo, cache ProductCache) *CatalogService {
	if cache == nil {
		cache = noCache{}
	}
	return &CatalogService{Cats: cats, Brands: brands, Prods: prods, Cache: cache}
}

// ---------- Products ----------

func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.ProductDetail, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 12
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, domain.Invalid("minPrice must not exceed maxPrice")
	}
	ps, err := s.Prods.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.Prods.Details(ctx, ps)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.ProductDetail, error) {
	if d, ok := s.Cache.Get(ctx, id); ok {
		return d, nil
	}
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	ds, err := s.Prods.Details(ctx, []domain.Product{p})
	if err != nil {
		return domain.ProductDetail{}, err
	}
	s.Cache.Set(ctx, ds[0])
	return ds[0], nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, f repos.ProductFields) (domain.Product, error) {
	if err := domain.CheckAmount("price", f.Price); err != nil {
		return domain.Product{}, err
	}
	if f.DiscountPrice.Valid {
		if err := domain.CheckAmount("discount_price", f.DiscountPrice.Decimal); err != nil {
			return domain.Product{}, err
		}
	}
	return s.Prods.Create(ctx, f)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, p repos.ProductPatch) (domain.Product, error) {
	if err := checkOptAmount("price", p.Price); err != nil {
		return domain.Product{}, err
	}
	if err := checkOptAmount("discount_price", p.DiscountPrice); err != nil {
		return domain.Product{}, err
	}
	defer s.Cache.Invalidate(ctx, id)
	return s.Prods.Update(ctx, id, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	defer s.Cache.Invalidate(ctx, id)
	return s.Prods.Delete(ctx, id)
}

// ---------- Variants & images ----------

func (s *CatalogService) AddVariant(ctx context.Context, productID int64, f repos.VariantFields) (domain.Variant, error) {
	if f.Quantity < 0 {
		return domain.Variant{}, domain.Invalid("quantity must not be negative")
	}
	if f.Price.Valid {
		if err := domain.CheckAmount("price", f.Price.Decimal); err != nil {
			return domain.Variant{}, err
		}
	}
	defer s.Cache.Invalidate(ctx, productID)
	return s.Prods.AddVariant(ctx, productID, f)
}

func (s *CatalogService) UpdateVariant(ctx context.Context, productID, variantID int64, p repos.VariantPatch) (domain.Variant, error) {
	if p.Quantity != nil && *p.Quantity < 0 {
		return domain.Variant{}, domain.Invalid("quantity must not be negative")
	}
	if err := checkOptAmount("price", p.Price); err != nil {
		return domain.Variant{}, err
	}
	defer s.Cache.Invalidate(ctx, productID)
	return s.Prods.UpdateVariant(ctx, productID, variantID, p)
}

func (s *CatalogService) DeleteVariant(ctx context.Context, productID, variantID int64) error {
	defer s.Cache.Invalidate(ctx, productID)
	return s.Prods.DeleteVariant(ctx, productID, variantID)
}

func (s *CatalogService) AddImage(ctx context.Context, productID int64, url string) (domain.ProductImage, error) {
	defer s.Cache.Invalidate(ctx, productID)
	return s.Prods.AddImage(ctx, productID, url)
}

func (s *CatalogService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	defer s.Cache.Invalidate(ctx, productID)
	return s.Prods.DeleteImage(ctx, productID, imageID)
}

func checkOptAmount(field string, d *decimal.Decimal) error {
	if d == nil {
		return nil
	}
	return domain.CheckAmount(field, *d)
}

// ---------- Categories & brands ----------

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (domain.Category, error) {
	return s.Cats.Create(ctx, name, description)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string, description *string) (domain.Category, error) {
	return s.Cats.Update(ctx, id, name, description)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.Cats.Delete(ctx, id)
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.Brands.List(ctx)
}

func (s *CatalogService) CreateBrand(ctx context.Context, name, country string) (domain.Brand, error) {
	return s.Brands.Create(ctx, name, country)
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id int64, name string, country *string) (domain.Brand, error) {
	return s.Brands.Update(ctx, id, name, country)
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id int64) error {
	return s.Brands.Delete(ctx, id)
}
