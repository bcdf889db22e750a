package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desesperanza/panaderia-backend/api/controllers"
	"github.com/desesperanza/panaderia-backend/api/middleware"
	"github.com/desesperanza/panaderia-backend/internal/auth"
	cartsvc "github.com/desesperanza/panaderia-backend/internal/cart"
	checkoutsvc "github.com/desesperanza/panaderia-backend/internal/checkout"
	internalorders "github.com/desesperanza/panaderia-backend/internal/orders"
	productsvc "github.com/desesperanza/panaderia-backend/internal/products"
	"github.com/desesperanza/panaderia-backend/pkg/auth/session"
	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
	"github.com/desesperanza/panaderia-backend/pkg/redis"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Auth     auth.Service
	Register auth.RegisterService
	Profile  auth.ProfileService
	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   internalorders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
	})

	// Public catalog.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Products, logg))
		r.Get("/category/{category}", controllers.ProductsByCategory(svcs.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
	})

	// Original storefront contract, kept verbatim for old clients.
	r.Post("/api/pedidos", controllers.LegacyCheckout(svcs.Checkout, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/users/me", controllers.ProfileGet(svcs.Profile, logg))
		r.Put("/users/me", controllers.ProfileUpdate(svcs.Profile, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items/{index}", controllers.CartChangeQuantity(svcs.Cart, logg))
			r.Delete("/items/{index}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(svcs.Products, logg))
			r.Post("/", controllers.AdminProductCreate(svcs.Products, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svcs.Products, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderStatusUpdate(svcs.Orders, logg))
		})
	})

	return r
}
