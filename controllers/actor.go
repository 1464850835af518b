package controller

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	middleware "github.com/ramlakhangupta/City-Food-Explorer-Backend/middlewares"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

// ActorResolver decides which user a gated request acts for. Callers act
// for themselves; only admins may name another user.
type ActorResolver struct {
	users  repositories.UserRepository
	policy services.AdminPolicy
}

func NewActorResolver(users repositories.UserRepository, policy services.AdminPolicy) *ActorResolver {
	return &ActorResolver{users: users, policy: policy}
}

// Resolve returns the acting user id. requested is the id named in the path
// or body and may be empty, in which case the token subject is used.
func (a *ActorResolver) Resolve(r *http.Request, requested string) (primitive.ObjectID, error) {
	_, uid := middleware.GetUserFromContext(r)
	subject, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return primitive.NilObjectID, apperror.Unauthorized("Invalid token")
	}
	if requested == "" {
		return subject, nil
	}

	target, err := parseObjectID(requested, "userId")
	if err != nil {
		return primitive.NilObjectID, err
	}
	if target == subject {
		return target, nil
	}

	caller, err := a.users.FindByID(r.Context(), subject)
	if err != nil || !a.policy.IsAdmin(caller) {
		return primitive.NilObjectID, apperror.Forbidden("You can only act on your own account")
	}
	return target, nil
}
