package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

func assertLikeInvariant(t *testing.T, store *repositories.Store, dishID primitive.ObjectID, userIDs ...primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()

	dish, err := store.Dishes.FindByID(ctx, dishID)
	require.NoError(t, err)
	for _, id := range userIDs {
		user, err := store.Users.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, dish.LikedBy(id), user.HasLiked(dishID), "user %s and dish %s disagree", id.Hex(), dishID.Hex())
	}
}

func TestInteractionService_LikeToggleScenario(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Pyaaz Kachori")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	result, err := svc.ToggleLike(ctx, d.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Contains(t, result.Dish.Likes, u.ID)

	user, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, user.LikedDishes, d.ID)

	result, err = svc.ToggleLike(ctx, d.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.NotContains(t, result.Dish.Likes, u.ID)

	user, err = store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotContains(t, user.LikedDishes, d.ID)
}

func TestInteractionService_LikeInvariantOverSequence(t *testing.T) {
	store := newTestStore(t)
	users := []*models.User{
		seedUser(t, store, "A", "a@cityfood.in"),
		seedUser(t, store, "B", "b@cityfood.in"),
		seedUser(t, store, "C", "c@cityfood.in"),
	}
	dishes := []*models.Dish{seedDish(t, store, "Samosa"), seedDish(t, store, "Jalebi")}
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	sequence := [][2]int{{0, 0}, {1, 0}, {0, 1}, {0, 0}, {2, 1}, {2, 1}, {1, 0}, {1, 1}}
	for _, step := range sequence {
		_, err := svc.ToggleLike(ctx, dishes[step[1]].ID, users[step[0]].ID)
		require.NoError(t, err)
		for _, d := range dishes {
			assertLikeInvariant(t, store, d.ID, ids...)
		}
	}
}

func TestInteractionService_ConcurrentLikesFromDifferentUsers(t *testing.T) {
	store := newTestStore(t)
	d := seedDish(t, store, "Laal Maas")
	svc := NewInteractionService(store, nopLogger())

	const n = 25
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = seedUser(t, store, "user", strings.Repeat("x", i+1)+"@cityfood.in").ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID primitive.ObjectID) {
			defer wg.Done()
			_, err := svc.ToggleLike(context.Background(), d.ID, userID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	dish, err := store.Dishes.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Len(t, dish.Likes, n)
	assertLikeInvariant(t, store, d.ID, ids...)
}

// stalledUsers holds the first AddLikedDish call until release is closed.
type stalledUsers struct {
	repositories.UserRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (u *stalledUsers) AddLikedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	u.once.Do(func() {
		close(u.entered)
		<-u.release
	})
	return u.UserRepository.AddLikedDish(ctx, userID, dishID)
}

func TestInteractionService_DoubleClickKeepsLikeInvariant(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Pyaaz Kachori")

	stalled := &stalledUsers{
		UserRepository: store.Users,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	slow := *store
	slow.Users = stalled
	svc := NewInteractionService(&slow, nopLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.ToggleLike(context.Background(), d.ID, u.ID)
		done <- err
	}()
	<-stalled.entered

	// The second click unlikes the dish while the first is still mirroring.
	second, err := svc.ToggleLike(context.Background(), d.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, second.Liked)

	close(stalled.release)
	require.NoError(t, <-done)

	assertLikeInvariant(t, store, d.ID, u.ID)
	user, err := store.Users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotContains(t, user.LikedDishes, d.ID)
}

func TestInteractionService_LikeUnknownRecords(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Samosa")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, primitive.NewObjectID(), u.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Dish not found", apperror.Message(err))

	_, err = svc.ToggleLike(ctx, d.ID, primitive.NewObjectID())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "User not found", apperror.Message(err))
}

// failingMirrorUsers breaks the user side of the like toggle.
type failingMirrorUsers struct {
	repositories.UserRepository
}

func (failingMirrorUsers) AddLikedDish(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error) {
	return false, errors.New("connection reset")
}

func TestInteractionService_MirrorFailureIsReported(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Samosa")

	broken := *store
	broken.Users = failingMirrorUsers{UserRepository: store.Users}
	svc := NewInteractionService(&broken, nopLogger())

	_, err := svc.ToggleLike(context.Background(), d.ID, u.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStorage))

	// The gap is surfaced, not repaired.
	dish, err := store.Dishes.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, dish.LikedBy(u.ID))
}

func TestInteractionService_SaveToggleLaw(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Mirchi Vada")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	saved, err := svc.ToggleSave(ctx, d.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	user, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{d.ID}, user.SavedDishes)

	dish, err := store.Dishes.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, dish.Likes, "saving must not touch the dish")

	saved, err = svc.ToggleSave(ctx, d.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	user, err = store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, user.SavedDishes)
}

func TestInteractionService_RemoveSaved(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Mirchi Vada")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	t.Run("never saved is a no-op", func(t *testing.T) {
		require.NoError(t, svc.RemoveSaved(ctx, d.ID, u.ID))
		user, err := store.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, user.SavedDishes)
	})

	t.Run("removes a saved dish and never adds", func(t *testing.T) {
		_, err := svc.ToggleSave(ctx, d.ID, u.ID)
		require.NoError(t, err)

		require.NoError(t, svc.RemoveSaved(ctx, d.ID, u.ID))
		require.NoError(t, svc.RemoveSaved(ctx, d.ID, u.ID))

		user, err := store.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, user.SavedDishes)
	})

	t.Run("missing user or dish", func(t *testing.T) {
		err := svc.RemoveSaved(ctx, d.ID, primitive.NewObjectID())
		assert.True(t, apperror.Is(err, apperror.KindNotFound))

		err = svc.RemoveSaved(ctx, primitive.NewObjectID(), u.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestInteractionService_AddComment(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	d := seedDish(t, store, "Ker Sangri")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, d.ID, u.ID, "first")
	require.NoError(t, err)
	dish, err := svc.AddComment(ctx, d.ID, u.ID, "  second  ")
	require.NoError(t, err)

	require.Len(t, dish.Comments, 2)
	assert.Equal(t, "first", dish.Comments[0].Comment)
	assert.Equal(t, "second", dish.Comments[1].Comment)
	assert.Equal(t, "Ravi", dish.Comments[1].Username)
	assert.Equal(t, models.DefaultProfileImage, dish.Comments[1].ProfileImage)

	_, err = svc.AddComment(ctx, d.ID, u.ID, "   ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.AddComment(ctx, d.ID, u.ID, strings.Repeat("a", maxCommentLength+1))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.AddComment(ctx, primitive.NewObjectID(), u.ID, "hello")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestInteractionService_LikedAndSaved(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	first := seedDish(t, store, "Samosa")
	second := seedDish(t, store, "Jalebi")
	svc := NewInteractionService(store, nopLogger())
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, second.ID, u.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, first.ID, u.ID)
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, first.ID, u.ID)
	require.NoError(t, err)

	// A reference to a dish that no longer exists is skipped.
	_, err = store.Users.AddSavedDish(ctx, u.ID, primitive.NewObjectID())
	require.NoError(t, err)

	result, err := svc.LikedAndSaved(ctx, u.ID)
	require.NoError(t, err)

	require.Len(t, result.LikedDishes, 2)
	assert.Equal(t, "Jalebi", result.LikedDishes[0].DishName)
	assert.Equal(t, "Samosa", result.LikedDishes[1].DishName)
	require.Len(t, result.SavedDishes, 1)
	assert.Equal(t, "Samosa", result.SavedDishes[0].DishName)
	assert.Equal(t, u.ID, result.User.ID)

	_, err = svc.LikedAndSaved(ctx, primitive.NewObjectID())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestToggleMembership_GivesUpAfterRepeatedFlips(t *testing.T) {
	noChange := func(context.Context) (bool, error) { return false, nil }

	_, err := toggleMembership(context.Background(), noChange, noChange)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}
