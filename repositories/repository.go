// Package repositories is the document store behind the services: users,
// dishes, pending submissions and categories. Set-membership updates are
// exposed as atomic primitives so callers never fetch-then-save.
package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// AddLikedDish and the other set primitives report whether the set
	// changed. They return ErrNotFound when the user does not exist.
	AddLikedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error)
	RemoveLikedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error)
	AddSavedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error)
	RemoveSavedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error)
}

type DishRepository interface {
	Create(ctx context.Context, dish *models.Dish) error
	// UpsertBySource inserts dish unless a dish with the same
	// SourceSubmissionID already exists, and returns the stored dish.
	UpsertBySource(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dish, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Dish, error)
	FindAll(ctx context.Context, page Page) ([]models.Dish, error)
	Count(ctx context.Context) (int64, error)
	FindTopLiked(ctx context.Context, limit int64) ([]models.Dish, error)
	FindByCategory(ctx context.Context, category string) ([]models.Dish, error)
	FindByCity(ctx context.Context, state, city string) ([]models.Dish, error)
	// FindByName matches the whole name case-insensitively.
	FindByName(ctx context.Context, name string) (*models.Dish, error)

	AddLiker(ctx context.Context, dishID, userID primitive.ObjectID) (bool, error)
	RemoveLiker(ctx context.Context, dishID, userID primitive.ObjectID) (bool, error)
	AppendComment(ctx context.Context, dishID primitive.ObjectID, comment models.Comment) (*models.Dish, error)
}

type PendingDishRepository interface {
	Create(ctx context.Context, pending *models.PendingDish) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PendingDish, error)
	FindByStatus(ctx context.Context, status string) ([]models.PendingDish, error)
	FindBySubmitter(ctx context.Context, userID primitive.ObjectID) ([]models.PendingDish, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindAll(ctx context.Context) ([]models.Category, error)
}

// Transactor runs fn as one unit when the backing store supports it.
// Implementations without transactions simply call fn.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store groups the repositories of one backend.
type Store struct {
	Users      UserRepository
	Dishes     DishRepository
	Pending    PendingDishRepository
	Categories CategoryRepository
	Tx         Transactor
}
