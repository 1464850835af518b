package controller

import (
	"net/http"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
)

// Home is the default route.
func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("City Food Explorer API is running. Everything is OK.\n"))
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, apperror.NotFound("Route not found"))
}
