package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

const testAdminEmail = "admin@cityfood.in"

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewMemoryStore()
}

func seedUser(t *testing.T, store *repositories.Store, name, email string) *models.User {
	t.Helper()
	user := models.NewUser(name, email, "hash")
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func seedDish(t *testing.T, store *repositories.Store, name string) *models.Dish {
	t.Helper()
	dish := models.NewDish(models.DishDetails{DishName: name, DishPrice: "150", Category: "Spicy", CityState: "Rajasthan", CityName: "Jaipur"})
	require.NoError(t, store.Dishes.Create(context.Background(), dish))
	return dish
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestAdminPolicy(t *testing.T) {
	policy := NewAdminPolicy(" Admin@CityFood.in ")

	assert.True(t, policy.IsAdmin(&models.User{Email: "admin@cityfood.in"}))
	assert.True(t, policy.IsAdmin(&models.User{Email: "other@cityfood.in", Role: models.RoleAdmin}))
	assert.False(t, policy.IsAdmin(&models.User{Email: "u1@cityfood.in", Role: models.RoleUser}))
	assert.False(t, policy.IsAdmin(nil))

	assert.False(t, NewAdminPolicy("").IsAdmin(&models.User{Email: ""}))
}
