package routes

import (
	"net/http"

	controller "github.com/ramlakhangupta/City-Food-Explorer-Backend/controllers"

	"github.com/gorilla/mux"
)

func DishRoutes(router *mux.Router, c *controller.DishController) {
	router.HandleFunc("/allDishes/all", c.AllDishes).Methods(http.MethodGet)
	router.HandleFunc("/likedDishes", c.LikedDishes).Methods(http.MethodGet)
	router.HandleFunc("/tenlikedDishes", c.TenLikedDishes).Methods(http.MethodGet)
	router.HandleFunc("/category/{category}", c.ByCategory).Methods(http.MethodGet)
	router.HandleFunc("/searchedDish/{dishName}", c.Search).Methods(http.MethodGet)
	router.HandleFunc("/dish-of-the-day", c.DishOfTheDay).Methods(http.MethodGet)
	router.HandleFunc("/city-dishes/{state}/{city}", c.CityDishes).Methods(http.MethodGet)
}

func CategoryRoutes(router *mux.Router, c *controller.CategoryController) {
	router.HandleFunc("/categories/all", c.AllCategories).Methods(http.MethodGet)
}

func CategoryAdminRoutes(router *mux.Router, c *controller.CategoryController) {
	router.HandleFunc("/addCategory", c.AddCategory).Methods(http.MethodPost)
}
