package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	middleware "github.com/ramlakhangupta/City-Food-Explorer-Backend/middlewares"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

type Controllers struct {
	Users        *controller.UserController
	Dishes       *controller.DishController
	Categories   *controller.CategoryController
	Submissions  *controller.SubmissionController
	Moderation   *controller.ModerationController
	Interactions *controller.InteractionController
}

type Options struct {
	Tokens      *helper.TokenManager
	Users       repositories.UserRepository
	Policy      services.AdminPolicy
	Limiter     *middleware.RateLimiter
	UploadDir   string
	CORSOrigins []string
	// StoreTimeout bounds each API request's context. Zero disables it.
	StoreTimeout time.Duration
}

// NewRouter mounts the API under /api, uploaded images under /uploads and
// Prometheus metrics under /metrics.
func NewRouter(c Controllers, opts Options) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(controller.NotFound)
	router.Use(middleware.RequestLogger(), middleware.Metrics())

	router.HandleFunc("/", controller.Home).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").
			Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))).
			Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Timeout(opts.StoreTimeout))

	// Public Routes (No Authentication)
	UserRoutes(api, c.Users, opts.Limiter)
	DishRoutes(api, c.Dishes)
	CategoryRoutes(api, c.Categories)
	SubmissionRoutes(api, c.Submissions)
	InteractionRoutes(api, c.Interactions)

	// Admin only
	adminRoutes := api.NewRoute().Subrouter()
	adminRoutes.Use(middleware.Authentication(opts.Tokens), middleware.RequireAdmin(opts.Users, opts.Policy))
	ModerationAdminRoutes(adminRoutes, c.Moderation)
	CategoryAdminRoutes(adminRoutes, c.Categories)

	// Any signed-in user
	securedRoutes := api.NewRoute().Subrouter()
	securedRoutes.Use(middleware.Authentication(opts.Tokens))
	SubmissionProtectedRoutes(securedRoutes, c.Submissions)
	InteractionProtectedRoutes(securedRoutes, c.Interactions)

	return middleware.CORS(opts.CORSOrigins)(router)
}
