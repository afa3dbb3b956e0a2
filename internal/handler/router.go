package handlers

import (
	"net/http"
	"time"

	"blogr/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer(http.HandlerFunc(h.ServerError)))
	r.Use(middleware.Metrics)

	r.NotFound(h.LoadCurrentUser(http.HandlerFunc(h.NotFound)).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.Cfg.Media.StaticDir))))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Get("/health", h.Health)
	})

	limitLogin := loginLimiter(h.Cfg.LoginRateLimit)

	r.Group(func(r chi.Router) {
		r.Use(h.LoadCurrentUser)

		r.Get("/", h.Index)
		r.Post("/", h.Index)
		r.Get("/blog/{slug}", h.Blog)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/register", h.RegisterForm)
			r.With(limitLogin).Post("/register", h.Register)
			r.Get("/login", h.LoginForm)
			r.With(limitLogin).Post("/login", h.Login)
			r.Get("/logout", h.Logout)

			r.With(h.RequireLogin).Get("/profile/{id}", h.Profile)
			r.With(h.RequireLogin).Post("/profile/{id}", h.UpdateProfile)
		})

		r.Route("/post", func(r chi.Router) {
			r.Use(h.RequireLogin)

			r.Get("/posts", h.Posts)
			r.Get("/create", h.CreateForm)
			r.Post("/create", h.Create)
			r.Get("/update/{id}", h.UpdateForm)
			r.Post("/update/{id}", h.Update)
			r.Get("/delete/{id}", h.Delete)
			r.Post("/delete/{id}", h.Delete)
		})
	})

	return r
}

// loginLimiter throttles credential submissions per client IP. A limit of
// zero disables it.
func loginLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}
