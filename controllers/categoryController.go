package controller

import (
	"net/http"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (c *CategoryController) AllCategories(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Categories retrieved successfully", list)
}

func (c *CategoryController) AddCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DishTaste string `json:"dishTaste"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := c.catalog.AddCategory(r.Context(), in.DishTaste)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Category added successfully", category)
}
