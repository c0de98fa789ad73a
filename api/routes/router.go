package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenmarket/storefront-backend/api/controllers"
	cartcontrollers "github.com/lumenmarket/storefront-backend/api/controllers/cart"
	"github.com/lumenmarket/storefront-backend/api/middleware"
	"github.com/lumenmarket/storefront-backend/internal/catalog"
	"github.com/lumenmarket/storefront-backend/pkg/config"
	"github.com/lumenmarket/storefront-backend/pkg/db"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
	"github.com/lumenmarket/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartProvider cartcontrollers.StoreProvider,
	catalogService catalog.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.GuestSession(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartProvider, logg))
			r.Post("/lines", cartcontrollers.CartAddLine(cartProvider, logg))
			r.Patch("/lines/{lineId}", cartcontrollers.CartUpdateLine(cartProvider, logg))
			r.Delete("/lines/{lineId}", cartcontrollers.CartRemoveLine(cartProvider, logg))
			r.With(middleware.RequireUser(logg)).Post("/reconcile", cartcontrollers.CartReconcile(cartProvider, logg))
		})
	})

	return r
}
