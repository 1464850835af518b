package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

type DishController struct {
	catalog *services.CatalogService
}

func NewDishController(catalog *services.CatalogService) *DishController {
	return &DishController{catalog: catalog}
}

// Get all dishes, optionally paginated with ?page=&recordPerPage=
func (c *DishController) AllDishes(w http.ResponseWriter, r *http.Request) {
	recordPerPage, err := strconv.ParseInt(r.URL.Query().Get("recordPerPage"), 10, 64)
	if err != nil || recordPerPage < 1 {
		recordPerPage = 0
	}

	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	result, err := c.catalog.AllDishes(r.Context(), page, recordPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "Dishes retrieved successfully", result)
}

func (c *DishController) LikedDishes(w http.ResponseWriter, r *http.Request) {
	c.topLiked(w, r, services.TopLikedLimit)
}

func (c *DishController) TenLikedDishes(w http.ResponseWriter, r *http.Request) {
	c.topLiked(w, r, services.TopTenLikedLimit)
}

func (c *DishController) topLiked(w http.ResponseWriter, r *http.Request, limit int64) {
	list, err := c.catalog.TopLiked(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Top liked dishes retrieved successfully", list)
}

func (c *DishController) ByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.ByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dishes retrieved successfully", list)
}

func (c *DishController) Search(w http.ResponseWriter, r *http.Request) {
	dish, err := c.catalog.Search(r.Context(), mux.Vars(r)["dishName"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dish found", dish)
}

func (c *DishController) DishOfTheDay(w http.ResponseWriter, r *http.Request) {
	dish, err := c.catalog.DishOfTheDay(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dish of the day", dish)
}

func (c *DishController) CityDishes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := c.catalog.ByCity(r.Context(), vars["state"], vars["city"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dishes retrieved successfully", list)
}
