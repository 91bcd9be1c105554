package routes

import (
	"time"

	"github.com/shashiranjanraj/kirana/app/controllers"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
	"github.com/shashiranjanraj/kirana/pkg/router"
)

// RegisterAPI mounts every API route. Catalog reads are public; catalog
// writes and checkout require an authenticated user, and checkout is
// additionally rate limited because it hits the payment gateway.
func RegisterAPI(
	r *router.Router,
	products *controllers.ProductController,
	checkout *controllers.CheckoutController,
	auth *controllers.AuthController,
) {
	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", auth.Register)
	api.Post("/auth/login", "auth.login", auth.Login)

	api.Get("/products", "products.list", products.List)
	api.Get("/products/count", "products.count", products.Count)
	api.Get("/products/page", "products.page", products.ListPage)
	api.Get("/products/search", "products.search", products.Search)
	api.Post("/products/filters", "products.filter", products.Filter)
	api.Get("/products/photo/{id}", "products.photo", products.Photo)
	api.Get("/products/related/{id}/{categoryId}", "products.related", products.Related)
	api.Get("/products/category/{slug}", "products.by_category", products.ByCategory)
	api.Get("/products/{slug}", "products.get", products.GetBySlug)

	writes := api.Group("", middleware.Auth)
	writes.Post("/products", "products.create", products.Create)
	writes.Put("/products/{id}", "products.update", products.Update)
	writes.Delete("/products/{id}", "products.delete", products.Delete)

	pay := api.Group("/checkout", middleware.Auth, middleware.RateLimit(30, time.Minute))
	pay.Get("/token", "checkout.token", checkout.Token)
	pay.Post("/payment", "checkout.pay", checkout.Pay)
}
