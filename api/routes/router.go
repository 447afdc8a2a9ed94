package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnarg/webshop-backend/api/controllers"
	"github.com/arnarg/webshop-backend/api/middleware"
	"github.com/arnarg/webshop-backend/internal/auth"
	"github.com/arnarg/webshop-backend/internal/cart"
	"github.com/arnarg/webshop-backend/internal/catalog"
	"github.com/arnarg/webshop-backend/internal/orders"
	"github.com/arnarg/webshop-backend/internal/users"
	"github.com/arnarg/webshop-backend/pkg/auth/session"
	"github.com/arnarg/webshop-backend/pkg/config"
	"github.com/arnarg/webshop-backend/pkg/db"
	"github.com/arnarg/webshop-backend/pkg/logger"
	"github.com/arnarg/webshop-backend/pkg/metrics"
	"github.com/arnarg/webshop-backend/pkg/redis"
)

// RouterParams bundles everything the router wires together.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	AuthService    auth.Service
	UsersService   users.Service
	CatalogService catalog.Service
	CartService    cart.Service
	OrdersService  orders.Service

	// MediaDir is served read-only under the media public base URL.
	MediaDir string
}

// NewRouter assembles the HTTP surface. Catalog reads are public; everything
// touching accounts, carts or orders requires a bearer token.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	if p.MediaDir != "" {
		fileServer := http.StripPrefix(cfg.Media.PublicBaseURL, http.FileServer(http.Dir(p.MediaDir)))
		r.Method(http.MethodGet, cfg.Media.PublicBaseURL+"/*", fileServer)
	}

	r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
		Post("/users/register", controllers.AuthRegister(p.AuthService, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
		Post("/users/login", controllers.AuthLogin(p.AuthService, logg))

	r.Get("/products", controllers.ProductsList(p.CatalogService, logg))
	r.Get("/products/{id}", controllers.ProductsGet(p.CatalogService, logg))
	r.Get("/categories", controllers.CategoriesList(p.CatalogService, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Post("/users/logout", controllers.AuthLogout(p.AuthService, logg))
		r.Get("/users/me", controllers.UsersMe(p.UsersService, logg))
		r.Patch("/users/me", controllers.UsersUpdateMe(p.UsersService, logg))

		r.Get("/cart", controllers.CartGet(p.CartService, logg))
		r.Post("/cart", controllers.CartAddLine(p.CartService, logg))
		r.Route("/cart/line/{id}", func(r chi.Router) {
			r.Get("/", controllers.CartGetLine(p.CartService, logg))
			r.Patch("/", controllers.CartUpdateLine(p.CartService, logg))
			r.Delete("/", controllers.CartDeleteLine(p.CartService, logg))
		})

		r.Get("/orders", controllers.OrdersList(p.OrdersService, logg))
		r.Post("/orders", controllers.OrdersCommit(p.OrdersService, logg))
		r.Get("/orders/{id}", controllers.OrdersGet(p.OrdersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Get("/users", controllers.UsersList(p.UsersService, logg))
			r.Get("/users/{id}", controllers.UsersGet(p.UsersService, logg))
			r.Patch("/users/{id}/admin", controllers.UsersChangeAdmin(p.UsersService, logg))

			r.Post("/products", controllers.ProductsCreate(p.CatalogService, logg))
			r.Patch("/products/{id}", controllers.ProductsUpdate(p.CatalogService, logg))
			r.Delete("/products/{id}", controllers.ProductsDelete(p.CatalogService, logg))

			r.Post("/categories", controllers.CategoriesCreate(p.CatalogService, logg))
			r.Patch("/categories/{id}", controllers.CategoriesUpdate(p.CatalogService, logg))
			r.Delete("/categories/{id}", controllers.CategoriesDelete(p.CatalogService, logg))
		})
	})

	return r
}
