package controller

import (
	"net/http"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

type ModerationController struct {
	moderation *services.ModerationService
}

func NewModerationController(moderation *services.ModerationService) *ModerationController {
	return &ModerationController{moderation: moderation}
}

func (c *ModerationController) AdminPage(w http.ResponseWriter, r *http.Request) {
	list, err := c.moderation.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Pending dishes retrieved successfully", list)
}

func (c *ModerationController) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDVar(r, "submissionId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	dish, err := c.moderation.Approve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dish approved", dish)
}

func (c *ModerationController) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDVar(r, "submissionId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := c.moderation.Reject(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dish rejected", nil)
}
