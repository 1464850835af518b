package routes

import (
	"net/http"

	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"
	middleware "github.com/ramlakhangupta/City-Food-Explorer-Backend/middlewares"

	"github.com/gorilla/mux"
)

func UserRoutes(router *mux.Router, c *controller.UserController, limiter *middleware.RateLimiter) {
	router.Handle("/signup", limiter.Handler(http.HandlerFunc(c.SignUp))).Methods(http.MethodPost)
	router.Handle("/login", limiter.Handler(http.HandlerFunc(c.Login))).Methods(http.MethodPost)
}
