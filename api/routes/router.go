package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luiscarvajal/velamart-backend/api/controllers"
	"github.com/luiscarvajal/velamart-backend/api/middleware"
	"github.com/luiscarvajal/velamart-backend/internal/auth"
	"github.com/luiscarvajal/velamart-backend/internal/cart"
	checkoutsvc "github.com/luiscarvajal/velamart-backend/internal/checkout"
	"github.com/luiscarvajal/velamart-backend/internal/orders"
	"github.com/luiscarvajal/velamart-backend/internal/products"
	"github.com/luiscarvajal/velamart-backend/internal/reviews"
	"github.com/luiscarvajal/velamart-backend/internal/wishlist"
	"github.com/luiscarvajal/velamart-backend/pkg/auth/session"
	"github.com/luiscarvajal/velamart-backend/pkg/config"
	"github.com/luiscarvajal/velamart-backend/pkg/db"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
	"github.com/luiscarvajal/velamart-backend/pkg/metrics"
	"github.com/luiscarvajal/velamart-backend/pkg/redis"
)

// RouterParams groups everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics
	SessionManager session.AccessSessionChecker

	AuthService     auth.Service
	ProductService  products.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	ReviewsService  reviews.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(p.ProductService, logg))
		r.Get("/id/{productId}", controllers.ProductGetByID(p.ProductService, logg))
		r.Get("/{slug}", controllers.ProductGetBySlug(p.ProductService, logg))
		r.Get("/{productId}/reviews", controllers.ReviewsListForProduct(p.ReviewsService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Get("/me", controllers.AuthMe(p.AuthService, logg))
		r.Patch("/me", controllers.AuthUpdateProfile(p.AuthService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.CartService, logg))
			r.Post("/", controllers.CartAdd(p.CartService, logg))
			r.Patch("/", controllers.CartSetQuantity(p.CartService, logg))
			r.Delete("/", controllers.CartClear(p.CartService, logg))
			r.Delete("/{productId}", controllers.CartRemove(p.CartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(p.WishlistService, logg))
			r.Post("/", controllers.WishlistAdd(p.WishlistService, logg))
			r.Get("/{productId}", controllers.WishlistContains(p.WishlistService, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(p.WishlistService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", controllers.CheckoutQuote(p.CheckoutService, logg))
			r.Post("/", controllers.CheckoutPlaceOrder(p.CheckoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(p.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(p.OrdersService, logg))
		})

		r.Post("/reviews", controllers.ReviewCreate(p.ReviewsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())
	})

	r.Route("/api/seller/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole("seller", logg))
		r.Get("/ping", controllers.SellerPing())
	})

	return r
}
