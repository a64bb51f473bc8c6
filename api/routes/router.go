package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hakimzulkifli/pegawai-backend/api/controllers"
	"github.com/hakimzulkifli/pegawai-backend/api/middleware"
	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
	"github.com/hakimzulkifli/pegawai-backend/internal/session"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
	"github.com/hakimzulkifli/pegawai-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	accountRegistry *accounts.Registry,
	directory *personnel.Registry,
	sessions *session.Manager,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginNokpLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterNokpLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(accountRegistry, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(accountRegistry, sessions, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/me", controllers.AuthMe(sessions, logg))
		})
	})

	r.Route("/api/v1/pegawai", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Get("/", controllers.PegawaiList(directory, logg))
		r.Post("/", controllers.PegawaiCreate(directory, logg))
		r.Put("/{pegawaiId}", controllers.PegawaiUpdate(directory, logg))
		r.Delete("/{pegawaiId}", controllers.PegawaiDelete(directory, logg))
	})

	return r
}
