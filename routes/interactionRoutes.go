package routes

import (
	"net/http"

	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"

	"github.com/gorilla/mux"
)

func InteractionRoutes(router *mux.Router, c *controller.InteractionController) {
	router.HandleFunc("/likedSavedDishes/{userId}", c.LikedSavedDishes).Methods(http.MethodGet)
}

func InteractionProtectedRoutes(router *mux.Router, c *controller.InteractionController) {
	router.HandleFunc("/RemoveSavedDish/{dishId}", c.RemoveSaved).Methods(http.MethodPost)
	router.HandleFunc("/{dishId}/like", c.Like).Methods(http.MethodPost)
	router.HandleFunc("/{dishId}/save", c.Save).Methods(http.MethodPost)
	router.HandleFunc("/{dishId}/comment", c.Comment).Methods(http.MethodPost)
}
