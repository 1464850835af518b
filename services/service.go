// Package services holds the business rules of the food explorer: account
// signup and login, dish submission routing, the moderation queue, social
// interactions and the read-only catalog.
package services

import (
	"errors"
	"strings"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

// AdminPolicy decides who may publish directly and moderate submissions.
// A user is an admin when their role says so or when their email matches
// the configured admin address.
type AdminPolicy struct {
	adminEmail string
}

func NewAdminPolicy(adminEmail string) AdminPolicy {
	return AdminPolicy{adminEmail: models.NormalizeEmail(adminEmail)}
}

func (p AdminPolicy) IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return p.adminEmail != "" && models.NormalizeEmail(user.Email) == p.adminEmail
}

// IsAdminEmail is used at signup to grant the admin role.
func (p AdminPolicy) IsAdminEmail(email string) bool {
	return p.adminEmail != "" && models.NormalizeEmail(email) == p.adminEmail
}

// storeError maps a repository error onto the apperror taxonomy. entity is
// the capitalised noun used in the client message.
func storeError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperror.NotFound("%s not found", entity)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperror.Conflict("%s already exists", entity)
	default:
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Storage("Could not access "+strings.ToLower(entity)+" records", err)
	}
}
