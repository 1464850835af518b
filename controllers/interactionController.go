package controller

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

type interactionRequest struct {
	UserID  string `json:"userId"`
	Comment string `json:"comment"`
}

type InteractionController struct {
	interactions *services.InteractionService
	actors       *ActorResolver
}

func NewInteractionController(interactions *services.InteractionService, actors *ActorResolver) *InteractionController {
	return &InteractionController{interactions: interactions, actors: actors}
}

type interactionTarget struct {
	dishID  primitive.ObjectID
	userID  primitive.ObjectID
	comment string
}

// target reads the dish id from the path and the acting user from the body.
func (c *InteractionController) target(w http.ResponseWriter, r *http.Request) (interactionTarget, error) {
	dishID, err := objectIDVar(r, "dishId")
	if err != nil {
		return interactionTarget{}, err
	}

	var req interactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return interactionTarget{}, err
	}

	userID, err := c.actors.Resolve(r, req.UserID)
	if err != nil {
		return interactionTarget{}, err
	}
	return interactionTarget{dishID: dishID, userID: userID, comment: req.Comment}, nil
}

func (c *InteractionController) Like(w http.ResponseWriter, r *http.Request) {
	t, err := c.target(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := c.interactions.ToggleLike(r.Context(), t.dishID, t.userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Dish unliked"
	if result.Liked {
		message = "Dish liked"
	}
	writeJSON(w, http.StatusOK, message, result.Dish)
}

func (c *InteractionController) Save(w http.ResponseWriter, r *http.Request) {
	t, err := c.target(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := c.interactions.ToggleSave(r.Context(), t.dishID, t.userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Dish removed from saved"
	if saved {
		message = "Dish saved"
	}
	writeJSON(w, http.StatusOK, message, map[string]bool{"saved": saved})
}

func (c *InteractionController) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	t, err := c.target(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := c.interactions.RemoveSaved(r.Context(), t.dishID, t.userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Dish Unsaved", nil)
}

func (c *InteractionController) Comment(w http.ResponseWriter, r *http.Request) {
	t, err := c.target(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dish, err := c.interactions.AddComment(r.Context(), t.dishID, t.userID, t.comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Comment added", dish)
}

func (c *InteractionController) LikedSavedDishes(w http.ResponseWriter, r *http.Request) {
	userID, err := objectIDVar(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := c.interactions.LikedAndSaved(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Liked and saved dishes retrieved successfully", result)
}
