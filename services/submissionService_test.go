package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

type recordingImageStore struct {
	saved   []string
	removed []string
}

func (s *recordingImageStore) Save(_ context.Context, upload helper.ImageUpload) (string, error) {
	if _, err := io.ReadAll(upload.Body); err != nil {
		return "", err
	}
	s.saved = append(s.saved, upload.Filename)
	return "1700000000000-" + upload.Filename, nil
}

func (s *recordingImageStore) Remove(_ context.Context, ref string) error {
	s.removed = append(s.removed, ref)
	return nil
}

// brokenQueue fails every insert into the moderation queue.
type brokenQueue struct {
	repositories.PendingDishRepository
}

func (brokenQueue) Create(context.Context, *models.PendingDish) error {
	return errors.New("write concern timeout")
}

func newSubmissionService(store *repositories.Store, images helper.ImageStore) *SubmissionService {
	return NewSubmissionService(store, images, NewAdminPolicy(testAdminEmail), nopLogger())
}

func TestSubmissionService_AdminPublishesDirectly(t *testing.T) {
	store := newTestStore(t)
	admin := seedUser(t, store, "Admin", testAdminEmail)
	svc := newSubmissionService(store, nil)
	ctx := context.Background()

	result, err := svc.Submit(ctx, admin.ID, models.DishDetails{DishName: "Dal Baati", DishPrice: "180"}, nil)
	require.NoError(t, err)

	assert.True(t, result.Published)
	assert.Equal(t, "Dish added successfully", result.Message())
	require.NotNil(t, result.Dish)
	assert.Nil(t, result.Pending)

	dishes, err := store.Dishes.FindAll(ctx, repositories.Page{})
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Dal Baati", dishes[0].DishName)

	pending, err := store.Pending.FindByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubmissionService_RegularUserIsQueued(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	svc := newSubmissionService(store, nil)
	ctx := context.Background()

	result, err := svc.Submit(ctx, user.ID, models.DishDetails{DishName: "Pasta", DishPrice: "200"}, nil)
	require.NoError(t, err)

	assert.False(t, result.Published)
	assert.Equal(t, "Dish sent to Admin for review", result.Message())
	require.NotNil(t, result.Pending)
	assert.Equal(t, models.StatusPending, result.Pending.Status)
	assert.Equal(t, user.ID, result.Pending.UserInfo)

	count, err := store.Dishes.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	mine, err := svc.ListBySubmitter(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Pasta", mine[0].DishName)
}

func TestSubmissionService_AdminRoleWithoutAdminEmail(t *testing.T) {
	store := newTestStore(t)
	moderator := models.NewUser("Moderator", "mod@cityfood.in", "hash")
	moderator.Role = models.RoleAdmin
	require.NoError(t, store.Users.Create(context.Background(), moderator))

	result, err := newSubmissionService(store, nil).Submit(context.Background(), moderator.ID, models.DishDetails{DishName: "Kachori", DishPrice: "30"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Published)
}

func TestSubmissionService_StoresImage(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	images := &recordingImageStore{}
	svc := newSubmissionService(store, images)

	upload := &helper.ImageUpload{Filename: "pasta.png", Body: strings.NewReader("png")}
	result, err := svc.Submit(context.Background(), user.ID, models.DishDetails{DishName: "Pasta", DishPrice: "200", Img: "ignored"}, upload)
	require.NoError(t, err)

	assert.Equal(t, []string{"pasta.png"}, images.saved)
	assert.Equal(t, "1700000000000-pasta.png", result.Pending.Img)
}

func TestSubmissionService_FailedWriteRemovesImage(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	images := &recordingImageStore{}

	broken := *store
	broken.Pending = brokenQueue{PendingDishRepository: store.Pending}
	svc := newSubmissionService(&broken, images)

	upload := &helper.ImageUpload{Filename: "pasta.png", Body: strings.NewReader("png")}
	_, err := svc.Submit(context.Background(), user.ID, models.DishDetails{DishName: "Pasta", DishPrice: "200"}, upload)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindStorage))
	assert.Equal(t, []string{"1700000000000-pasta.png"}, images.removed)
}

func TestSubmissionService_Errors(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	svc := newSubmissionService(store, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, primitive.NewObjectID(), models.DishDetails{DishName: "Pasta", DishPrice: "200"}, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.Submit(ctx, user.ID, models.DishDetails{DishPrice: "200"}, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSubmissionService_ResubmissionIsAllowed(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "Ravi", "ravi@cityfood.in")
	svc := newSubmissionService(store, nil)
	ctx := context.Background()

	details := models.DishDetails{DishName: "Pasta", DishPrice: "200"}
	_, err := svc.Submit(ctx, user.ID, details, nil)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, user.ID, details, nil)
	require.NoError(t, err)

	mine, err := svc.ListBySubmitter(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
