package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/metrics"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

const (
	maxToggleAttempts = 3
	maxCommentLength  = 1000
)

type LikeResult struct {
	Dish  *models.Dish `json:"dish"`
	Liked bool         `json:"liked"`
}

// UserDishes is a user together with the dishes their liked and saved
// lists point at, in list order.
type UserDishes struct {
	User        *models.User  `json:"user"`
	LikedDishes []models.Dish `json:"likedDishes"`
	SavedDishes []models.Dish `json:"savedDishes"`
}

type InteractionService struct {
	users  repositories.UserRepository
	dishes repositories.DishRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewInteractionService(store *repositories.Store, logger zerolog.Logger) *InteractionService {
	return &InteractionService{
		users:  store.Users,
		dishes: store.Dishes,
		logger: logger.With().Str("component", "interaction_service").Logger(),
		now:    time.Now,
	}
}

type setOp func(ctx context.Context) (bool, error)

// toggleMembership flips a set membership with add-if-absent followed by
// remove-if-present. When neither changes anything another request flipped
// the set in between, so the pair is retried.
func toggleMembership(ctx context.Context, add, remove setOp) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		added, err := add(ctx)
		if err != nil {
			return false, err
		}
		if added {
			return true, nil
		}

		removed, err := remove(ctx)
		if err != nil {
			return false, err
		}
		if removed {
			return false, nil
		}
	}
	return false, apperror.Conflict("The dish was updated concurrently, please retry")
}

func (s *InteractionService) resolve(ctx context.Context, dishID, userID primitive.ObjectID) (*models.Dish, *models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, storeError(err, "User")
	}
	dish, err := s.dishes.FindByID(ctx, dishID)
	if err != nil {
		return nil, nil, storeError(err, "Dish")
	}
	return dish, user, nil
}

// ToggleLike adds the user to the dish's likers, or removes them if they
// were already there, and mirrors the change on the user's liked list.
func (s *InteractionService) ToggleLike(ctx context.Context, dishID, userID primitive.ObjectID) (*LikeResult, error) {
	if _, _, err := s.resolve(ctx, dishID, userID); err != nil {
		return nil, err
	}

	liked, err := toggleMembership(ctx,
		func(ctx context.Context) (bool, error) { return s.dishes.AddLiker(ctx, dishID, userID) },
		func(ctx context.Context) (bool, error) { return s.dishes.RemoveLiker(ctx, dishID, userID) },
	)
	if err != nil {
		return nil, storeError(err, "Dish")
	}

	// The dish side decided the outcome; the user side follows it.
	if liked {
		_, err = s.users.AddLikedDish(ctx, userID, dishID)
	} else {
		_, err = s.users.RemoveLikedDish(ctx, userID, dishID)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("dish_id", dishID.Hex()).
			Str("user_id", userID.Hex()).
			Bool("liked", liked).
			Msg("like consistency gap: dish updated but user liked list was not")
		return nil, apperror.Storage("Could not update liked dishes", err)
	}

	dish, err := s.reconcileLike(ctx, dishID, userID)
	if err != nil {
		return nil, err
	}

	metrics.RecordInteraction("like", liked)
	return &LikeResult{Dish: dish, Liked: liked}, nil
}

// reconcileLike makes the user's liked list agree with the dish's liker set.
// A concurrent toggle by the same user can land its mirror write after ours,
// so the user side is rewritten from the dish until a re-read of both sides
// agrees.
func (s *InteractionService) reconcileLike(ctx context.Context, dishID, userID primitive.ObjectID) (*models.Dish, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		dish, err := s.dishes.FindByID(ctx, dishID)
		if err != nil {
			return nil, storeError(err, "Dish")
		}
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, storeError(err, "User")
		}
		if dish.LikedBy(userID) == user.HasLiked(dishID) {
			return dish, nil
		}

		if dish.LikedBy(userID) {
			_, err = s.users.AddLikedDish(ctx, userID, dishID)
		} else {
			_, err = s.users.RemoveLikedDish(ctx, userID, dishID)
		}
		if err != nil {
			s.logger.Error().Err(err).
				Str("dish_id", dishID.Hex()).
				Str("user_id", userID.Hex()).
				Msg("like consistency gap: could not repair user liked list")
			return nil, apperror.Storage("Could not update liked dishes", err)
		}
	}

	s.logger.Warn().
		Str("dish_id", dishID.Hex()).
		Str("user_id", userID.Hex()).
		Msg("like consistency gap: liked list still changing after repair")
	return nil, apperror.Conflict("The dish was updated concurrently, please retry")
}

// ToggleSave bookmarks the dish for the user or removes the bookmark.
func (s *InteractionService) ToggleSave(ctx context.Context, dishID, userID primitive.ObjectID) (bool, error) {
	if _, _, err := s.resolve(ctx, dishID, userID); err != nil {
		return false, err
	}

	saved, err := toggleMembership(ctx,
		func(ctx context.Context) (bool, error) { return s.users.AddSavedDish(ctx, userID, dishID) },
		func(ctx context.Context) (bool, error) { return s.users.RemoveSavedDish(ctx, userID, dishID) },
	)
	if err != nil {
		return false, storeError(err, "User")
	}

	metrics.RecordInteraction("save", saved)
	return saved, nil
}

// RemoveSaved drops the dish from the user's saved list. Removing a dish
// that was never saved succeeds without changes.
func (s *InteractionService) RemoveSaved(ctx context.Context, dishID, userID primitive.ObjectID) error {
	if _, _, err := s.resolve(ctx, dishID, userID); err != nil {
		return err
	}

	removed, err := s.users.RemoveSavedDish(ctx, userID, dishID)
	if err != nil {
		return storeError(err, "User")
	}
	if removed {
		metrics.RecordInteraction("unsave", false)
	}
	return nil
}

// AddComment appends a comment signed with the author's current name and
// profile image.
func (s *InteractionService) AddComment(ctx context.Context, dishID, userID primitive.ObjectID, text string) (*models.Dish, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("comment is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, apperror.Validation("comment must be at most %d characters", maxCommentLength)
	}

	_, user, err := s.resolve(ctx, dishID, userID)
	if err != nil {
		return nil, err
	}

	dish, err := s.dishes.AppendComment(ctx, dishID, models.Comment{
		Username:     user.Name,
		ProfileImage: user.ProfileImage,
		Comment:      text,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, storeError(err, "Dish")
	}

	metrics.RecordInteraction("comment", true)
	return dish, nil
}

// LikedAndSaved loads the user and resolves both dish lists with a single
// lookup. References to dishes that no longer exist are skipped.
func (s *InteractionService) LikedAndSaved(ctx context.Context, userID primitive.ObjectID) (*UserDishes, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}

	ids := make([]primitive.ObjectID, 0, len(user.LikedDishes)+len(user.SavedDishes))
	ids = append(ids, user.LikedDishes...)
	ids = append(ids, user.SavedDishes...)

	found, err := s.dishes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "Dish")
	}
	byID := make(map[primitive.ObjectID]models.Dish, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}

	return &UserDishes{
		User:        user,
		LikedDishes: pickDishes(byID, user.LikedDishes),
		SavedDishes: pickDishes(byID, user.SavedDishes),
	}, nil
}

func pickDishes(byID map[primitive.ObjectID]models.Dish, ids []primitive.ObjectID) []models.Dish {
	out := make([]models.Dish, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}
