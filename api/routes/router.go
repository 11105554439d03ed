package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totalawareness/backend/api/controllers"
	"github.com/totalawareness/backend/api/middleware"
	"github.com/totalawareness/backend/internal/auth"
	"github.com/totalawareness/backend/internal/companies"
	"github.com/totalawareness/backend/internal/contact"
	"github.com/totalawareness/backend/internal/faqs"
	"github.com/totalawareness/backend/internal/memberships"
	"github.com/totalawareness/backend/internal/roles"
	"github.com/totalawareness/backend/pkg/auth/session"
	"github.com/totalawareness/backend/pkg/config"
	"github.com/totalawareness/backend/pkg/db"
	"github.com/totalawareness/backend/pkg/logger"
	"github.com/totalawareness/backend/pkg/metrics"
	redisclient "github.com/totalawareness/backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redisclient.Client
	SessionManager session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry

	AuthService       auth.Service
	CompanyService    companies.Service
	MembershipService memberships.Service
	RoleService       roles.Service
	FAQService        faqs.Service
	ContactService    contact.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Metrics(d.HTTPMetrics),
		middleware.Logging(logg),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).
				Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).
				Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, d.SessionManager, logg)).
				Post("/logout", controllers.AuthLogout(d.AuthService, logg))
		})

		// Marketing surface, no identity required.
		r.Get("/companies/public", controllers.CompanyPublicList(d.CompanyService, logg))
		r.Get("/faqs", controllers.FAQList(d.FAQService, logg))
		r.Post("/contact", controllers.ContactSubmit(d.ContactService, logg))

		// Anonymous allowed; identity used when a token is presented.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, d.SessionManager, logg))
			r.Get("/companies/explore", controllers.CompanyExplore(d.CompanyService, logg))
			r.Get("/companies/{companyId}", controllers.CompanyDetail(d.CompanyService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))

			r.Get("/roles", controllers.RoleList(d.RoleService, logg))

			r.Post("/companies", controllers.CompanyCreate(d.CompanyService, logg))
			r.Get("/companies/mine", controllers.MyCompanies(d.MembershipService, logg))
			r.Put("/companies/{companyId}", controllers.CompanyUpdate(d.CompanyService, logg))
			r.Delete("/companies/{companyId}", controllers.CompanyDelete(d.CompanyService, logg))
			r.Post("/companies/{companyId}/join", controllers.CompanyJoin(d.MembershipService, logg))
			r.Get("/companies/{companyId}/members", controllers.CompanyMembers(d.MembershipService, logg))
			r.Get("/companies/{companyId}/members/pending", controllers.CompanyPendingMembers(d.MembershipService, logg))

			r.Post("/memberships/{membershipId}/approve", controllers.MembershipApprove(d.MembershipService, logg))
			r.Post("/memberships/{membershipId}/reject", controllers.MembershipReject(d.MembershipService, logg))
			r.Put("/memberships/{membershipId}/role", controllers.MembershipUpdateRole(d.MembershipService, logg))
			r.Delete("/memberships/{membershipId}", controllers.MembershipRemove(d.MembershipService, logg))

			r.Post("/faqs", controllers.FAQCreate(d.FAQService, logg))
			r.Patch("/faqs/{faqId}", controllers.FAQUpdate(d.FAQService, logg))
		})
	})

	return r
}
