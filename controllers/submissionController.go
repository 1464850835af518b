package controller

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

// multipart overhead allowed on top of the image itself
const formFieldsBytes = 1 << 20

type SubmissionController struct {
	submissions    *services.SubmissionService
	actors         *ActorResolver
	maxUploadBytes int64
}

func NewSubmissionController(submissions *services.SubmissionService, actors *ActorResolver, maxUploadBytes int64) *SubmissionController {
	return &SubmissionController{submissions: submissions, actors: actors, maxUploadBytes: maxUploadBytes}
}

// AddDish accepts a proposal as multipart/form-data (with an optional "img"
// file) or as a JSON body.
func (c *SubmissionController) AddDish(w http.ResponseWriter, r *http.Request) {
	submitterID, err := c.actors.Resolve(r, mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	details, image, cleanup, err := c.parseProposal(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanup()

	result, err := c.submissions.Submit(r.Context(), submitterID, details, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Message(), result)
}

func (c *SubmissionController) parseProposal(w http.ResponseWriter, r *http.Request) (models.DishDetails, *helper.ImageUpload, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var details models.DishDetails
		if err := decodeJSON(w, r, &details); err != nil {
			return details, nil, noop, err
		}
		return details, nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+formFieldsBytes)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		return models.DishDetails{}, nil, noop, apperror.Validation("Invalid form data or image too large")
	}

	details := models.DishDetails{
		DishName:     r.FormValue("dishName"),
		DishPrice:    r.FormValue("dishPrice"),
		Description:  r.FormValue("description"),
		ShopName:     r.FormValue("shopName"),
		Category:     r.FormValue("category"),
		ShopLocation: r.FormValue("shopLocation"),
		CityName:     r.FormValue("cityName"),
		CityState:    r.FormValue("cityState"),
	}

	file, header, err := r.FormFile("img")
	if errors.Is(err, http.ErrMissingFile) {
		return details, nil, func() { r.MultipartForm.RemoveAll() }, nil
	}
	if err != nil {
		return details, nil, noop, apperror.Validation("Invalid image upload")
	}

	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}
	return details, &helper.ImageUpload{Filename: header.Filename, Body: file}, cleanup, nil
}

// DishAddedByUser lists the proposals a user still has in review.
func (c *SubmissionController) DishAddedByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := objectIDVar(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := c.submissions.ListBySubmitter(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Submitted dishes retrieved successfully", list)
}
