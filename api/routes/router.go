package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rewearhq/rewear-backend/api/controllers"
	"github.com/rewearhq/rewear-backend/api/middleware"
	"github.com/rewearhq/rewear-backend/internal/catalog"
	"github.com/rewearhq/rewear-backend/internal/exchange"
	"github.com/rewearhq/rewear-backend/internal/members"
	"github.com/rewearhq/rewear-backend/internal/moderation"
	"github.com/rewearhq/rewear-backend/pkg/config"
	"github.com/rewearhq/rewear-backend/pkg/db"
	"github.com/rewearhq/rewear-backend/pkg/logger"
	"github.com/rewearhq/rewear-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	memberService members.Service,
	catalogService catalog.Service,
	exchangeService exchange.Service,
	moderationService moderation.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cache db.Pinger
	var idemStore redis.IdempotencyStore
	var rlStore middleware.RateLimiterStore
	if redisClient != nil {
		cache = redisClient
		idemStore = redisClient
		rlStore = redisClient
	}

	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Open surface: registration and catalog browsing.
		r.With(
			middleware.RateLimit(registerPolicy, rlStore, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/members", controllers.RegisterMember(memberService, cfg.JWT, logg))

		r.Get("/items", controllers.ItemsList(catalogService, logg))
		r.Get("/items/{itemId}", controllers.ItemsGet(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/members/me", controllers.GetMe(memberService, logg))

			r.Post("/items", controllers.ItemsCreate(exchangeService, logg))
			r.Post("/items/{itemId}/watch", controllers.ItemsWatch(catalogService, logg))
			r.Delete("/items/{itemId}/watch", controllers.ItemsUnwatch(catalogService, logg))
			r.Post("/items/{itemId}/swap-request", controllers.ItemsSwapRequest(exchangeService, logg))
			r.Post("/items/{itemId}/redeem", controllers.ItemsRedeem(exchangeService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/members", controllers.AdminMembersList(memberService, logg))
		r.Post("/members/{memberId}/actions", controllers.AdminAdjustMember(moderationService, logg))

		r.Get("/items", controllers.AdminItemsList(catalogService, logg))
		r.Post("/items/{itemId}/approve", controllers.AdminApproveItem(moderationService, logg))
		r.Post("/items/{itemId}/reject", controllers.AdminRejectItem(moderationService, logg))
		r.Post("/items/{itemId}/flag", controllers.AdminFlagItem(moderationService, logg))
	})

	return r
}
