package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Access is the authentication a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "user"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

type Route struct {
	Method  string
	Path    string
	Summary string
	Access  Access
	Success int
	Handler fiber.Handler
}

// Routes is the API table, shared by Register and the OpenAPI document.
// Static segments are listed before parameterized siblings.
func (d *Deps) Routes() []Route {
	au, us, pr, ca := d.AuthHandler, d.UserHandler, d.ProductHandler, d.CategoryHandler
	cr, or, rv, ad := d.CartHandler, d.OrderHandler, d.ReviewHandler, d.AdminHandler
	return []Route{
		{fiber.MethodPost, "/auth/register", "Create an account", Public, 201, au.Register},
		{fiber.MethodPost, "/auth/login", "Exchange credentials for a token", Public, 200, au.Login},
		{fiber.MethodPost, "/auth/logout", "Clear the token cookie", Public, 200, au.Logout},
		{fiber.MethodGet, "/auth/me", "Current user", Authenticated, 200, au.Me},

		{fiber.MethodGet, "/users", "List users", AdminOnly, 200, us.List},
		{fiber.MethodGet, "/users/:id", "Get a user (self or admin)", Authenticated, 200, us.Get},
		{fiber.MethodPut, "/users/:id", "Update a profile (self or admin)", Authenticated, 200, us.Update},

		{fiber.MethodGet, "/products", "List products with filters and paging", Public, 200, pr.List},
		{fiber.MethodGet, "/products/:id", "Product with variants and images", Public, 200, pr.Detail},
		{fiber.MethodPost, "/products", "Create a product", AdminOnly, 201, pr.Create},
		{fiber.MethodPut, "/products/:id", "Update a product", AdminOnly, 200, pr.Update},
		{fiber.MethodDelete, "/products/:id", "Delete a product", AdminOnly, 200, pr.Delete},
		{fiber.MethodPost, "/products/:id/variants", "Add a variant", AdminOnly, 201, pr.AddVariant},
		{fiber.MethodPut, "/products/:id/variants/:variantId", "Update a variant", AdminOnly, 200, pr.UpdateVariant},
		{fiber.MethodDelete, "/products/:id/variants/:variantId", "Delete a variant", AdminOnly, 200, pr.DeleteVariant},
		{fiber.MethodPost, "/products/:id/images", "Add an image", AdminOnly, 201, pr.AddImage},
		{fiber.MethodDelete, "/products/:id/images/:imageId", "Delete an image", AdminOnly, 200, pr.DeleteImage},

		{fiber.MethodGet, "/categories", "List categories", Public, 200, ca.List},
		{fiber.MethodPost, "/categories", "Create a category", AdminOnly, 201, ca.Create},
		{fiber.MethodPut, "/categories/:id", "Update a category", AdminOnly, 200, ca.Update},
		{fiber.MethodDelete, "/categories/:id", "Delete a category", AdminOnly, 200, ca.Delete},
		{fiber.MethodGet, "/brands", "List brands", Public, 200, ca.ListBrands},
		{fiber.MethodPost, "/brands", "Create a brand", AdminOnly, 201, ca.CreateBrand},
		{fiber.MethodPut, "/brands/:id", "Update a brand", AdminOnly, 200, ca.UpdateBrand},
		{fiber.MethodDelete, "/brands/:id", "Delete a brand", AdminOnly, 200, ca.DeleteBrand},

		{fiber.MethodGet, "/cart", "View the cart", Authenticated, 200, cr.View},
		{fiber.MethodPost, "/cart/add", "Add a variant to the cart", Authenticated, 201, cr.Add},
		{fiber.MethodPut, "/cart/item/:itemId", "Set an item quantity", Authenticated, 200, cr.Update},
		{fiber.MethodDelete, "/cart/item/:itemId", "Remove an item", Authenticated, 200, cr.Remove},
		{fiber.MethodDelete, "/cart/clear", "Empty the cart", Authenticated, 200, cr.Clear},

		{fiber.MethodPost, "/orders", "Check out the cart", Authenticated, 201, or.Place},
		{fiber.MethodGet, "/orders/my", "Own orders", Authenticated, 200, or.History},
		{fiber.MethodGet, "/orders", "All orders", AdminOnly, 200, or.ListAll},
		{fiber.MethodGet, "/orders/:id", "Order with items (owner or admin)", Authenticated, 200, or.View},
		{fiber.MethodPut, "/orders/:id/status", "Set order status", AdminOnly, 200, or.UpdateStatus},

		{fiber.MethodGet, "/reviews/product/:productId", "Reviews of a product", Public, 200, rv.ListForProduct},
		{fiber.MethodPost, "/reviews/product/:productId", "Review a purchased product", Authenticated, 201, rv.Create},
		{fiber.MethodDelete, "/reviews/:id", "Delete a review (author or admin)", Authenticated, 200, rv.Delete},

		{fiber.MethodGet, "/admin/users", "List users", AdminOnly, 200, ad.ListUsers},
		{fiber.MethodPut, "/admin/users/:id/role", "Set the admin flag", AdminOnly, 200, ad.SetRole},
		{fiber.MethodGet, "/admin/orders", "All orders", AdminOnly, 200, or.ListAll},
		{fiber.MethodPut, "/admin/orders/:id/status", "Set order status", AdminOnly, 200, or.UpdateStatus},
		{fiber.MethodGet, "/admin/reviews", "All reviews", AdminOnly, 200, ad.ListReviews},
		{fiber.MethodDelete, "/admin/reviews/:id", "Delete any review", AdminOnly, 200, ad.DeleteReview},
		{fiber.MethodGet, "/admin/coupons", "List coupons", AdminOnly, 200, ad.ListCoupons},
		{fiber.MethodPost, "/admin/coupons", "Create a coupon", AdminOnly, 201, ad.CreateCoupon},
		{fiber.MethodDelete, "/admin/coupons/:id", "Delete a coupon", AdminOnly, 200, ad.DeleteCoupon},
		{fiber.MethodGet, "/admin/products/export", "Download the catalog as xlsx", AdminOnly, 200, ad.ExportProducts},
	}
}

// Register mounts the API table plus docs and health endpoints on r.
func Register(r fiber.Router, d *Deps) {
	routes := d.Routes()
	d.DocsHandler.Routes = routes

	requireUser, requireAdmin := RequireUser(d.Auth), RequireAdmin(d.Auth)
	for _, rt := range routes {
		var chain []fiber.Handler
		switch rt.Access {
		case Authenticated:
			chain = append(chain, requireUser)
		case AdminOnly:
			chain = append(chain, requireAdmin)
		}
		r.Add(rt.Method, rt.Path, append(chain, rt.Handler)...)
	}

	r.Get("/docs", d.DocsHandler.Page)
	r.Get("/openapi.json", d.DocsHandler.Spec)
	r.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
