package routes

import (
	"net/http"

	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"

	"github.com/gorilla/mux"
)

func SubmissionRoutes(router *mux.Router, c *controller.SubmissionController) {
	router.HandleFunc("/dishAddedByUser/{userId}", c.DishAddedByUser).Methods(http.MethodGet)
}

func SubmissionProtectedRoutes(router *mux.Router, c *controller.SubmissionController) {
	router.HandleFunc("/addDish/{userId}", c.AddDish).Methods(http.MethodPost)
}

// The literal "rejected" route is registered before the {submissionId} one.
func ModerationAdminRoutes(router *mux.Router, c *controller.ModerationController) {
	router.HandleFunc("/addedDish/adminPage", c.AdminPage).Methods(http.MethodGet)
	router.HandleFunc("/addedDish/rejected/{submissionId}", c.Reject).Methods(http.MethodPost)
	router.HandleFunc("/addedDish/{submissionId}", c.Approve).Methods(http.MethodPost)
}
