package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

const (
	TopLikedLimit    = 4
	TopTenLikedLimit = 10
	dishOfTheDayPool = 10
)

type Pagination struct {
	CurrentPage    int64 `json:"current_page"`
	RecordsPerPage int64 `json:"records_per_page"`
	TotalDishes    int64 `json:"total_dishes"`
	TotalPages     int64 `json:"total_pages"`
}

type DishPage struct {
	Dishes     []models.Dish `json:"dishes"`
	Pagination Pagination    `json:"pagination"`
}

type CatalogService struct {
	dishes     repositories.DishRepository
	categories repositories.CategoryRepository
	logger     zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCatalogService(store *repositories.Store, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		dishes:     store.Dishes,
		categories: store.Categories,
		logger:     logger.With().Str("component", "catalog_service").Logger(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AllDishes lists published dishes. A perPage of zero or less returns
// everything on one page.
func (s *CatalogService) AllDishes(ctx context.Context, page, perPage int64) (*DishPage, error) {
	total, err := s.dishes.Count(ctx)
	if err != nil {
		return nil, storeError(err, "Dish")
	}

	if page < 1 {
		page = 1
	}
	if perPage > 0 && page-1 > math.MaxInt64/perPage {
		return nil, apperror.Validation("page %d is out of range", page)
	}
	q := repositories.Page{}
	if perPage > 0 {
		q.Skip = (page - 1) * perPage
		q.Limit = perPage
	}

	list, err := s.dishes.FindAll(ctx, q)
	if err != nil {
		return nil, storeError(err, "Dish")
	}

	pg := Pagination{CurrentPage: page, RecordsPerPage: perPage, TotalDishes: total, TotalPages: 1}
	if perPage > 0 {
		pg.TotalPages = total / perPage
		if total%perPage != 0 {
			pg.TotalPages++
		}
	} else {
		pg.RecordsPerPage = total
	}
	return &DishPage{Dishes: nonNil(list), Pagination: pg}, nil
}

// TopLiked returns up to limit dishes ordered by like count.
func (s *CatalogService) TopLiked(ctx context.Context, limit int64) ([]models.Dish, error) {
	list, err := s.dishes.FindTopLiked(ctx, limit)
	if err != nil {
		return nil, storeError(err, "Dish")
	}
	return nonNil(list), nil
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Dish, error) {
	list, err := s.dishes.FindByCategory(ctx, category)
	if err != nil {
		return nil, storeError(err, "Dish")
	}
	if len(list) == 0 {
		return nil, apperror.NotFound("No dishes found in this category")
	}
	return list, nil
}

func (s *CatalogService) ByCity(ctx context.Context, state, city string) ([]models.Dish, error) {
	list, err := s.dishes.FindByCity(ctx, state, city)
	if err != nil {
		return nil, storeError(err, "Dish")
	}
	if len(list) == 0 {
		return nil, apperror.NotFound("No dishes found for this location")
	}
	return list, nil
}

// Search finds the dish whose whole name matches, ignoring case.
func (s *CatalogService) Search(ctx context.Context, name string) (*models.Dish, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("dishName is required")
	}
	dish, err := s.dishes.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("No dish found")
		}
		return nil, storeError(err, "Dish")
	}
	return dish, nil
}

// DishOfTheDay picks one of the ten most liked dishes at random.
func (s *CatalogService) DishOfTheDay(ctx context.Context) (*models.Dish, error) {
	list, err := s.dishes.FindTopLiked(ctx, dishOfTheDayPool)
	if err != nil {
		return nil, storeError(err, "Dish")
	}
	if len(list) == 0 {
		return nil, apperror.NotFound("No dishes found")
	}

	s.mu.Lock()
	i := s.rng.Intn(len(list))
	s.mu.Unlock()
	return &list[i], nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	list, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "Category")
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}

func (s *CatalogService) AddCategory(ctx context.Context, dishTaste string) (*models.Category, error) {
	category := &models.Category{DishTaste: strings.TrimSpace(dishTaste)}
	if err := helper.ValidateStruct(category); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, storeError(err, "Category")
	}
	s.logger.Info().Str("dish_taste", category.DishTaste).Msg("category added")
	return category, nil
}

func nonNil(list []models.Dish) []models.Dish {
	if list == nil {
		return []models.Dish{}
	}
	return list
}
