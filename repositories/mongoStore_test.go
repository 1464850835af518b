package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

const testNamespace = "foodexplorer.dishes"

func TestMongoDishRepository_AddLiker(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("set changed", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		changed, err := repo.AddLiker(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.True(t, changed)
	})

	mt.Run("already present", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		changed, err := repo.AddLiker(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, changed)
	})

	mt.Run("dish missing", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		_, err := repo.RemoveLiker(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMongoDishRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, testNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "dishName", Value: "Pasta"},
			{Key: "dishPrice", Value: "200"},
			{Key: "likes", Value: bson.A{}},
		}))

		dish, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, dish.ID)
		assert.Equal(t, "Pasta", dish.DishName)
		assert.Equal(t, "200", dish.DishPrice)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMongoDishRepository_AppendComment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated dish", func(mt *mtest.T) {
		repo := NewDishRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "dishName", Value: "Pasta"},
			{Key: "comments", Value: bson.A{
				bson.D{{Key: "username", Value: "Asha"}, {Key: "comment", Value: "Great"}},
			}},
		}}))

		dish, err := repo.AppendComment(context.Background(), id, models.Comment{Username: "Asha", Comment: "Great"})
		require.NoError(t, err)
		require.Len(t, dish.Comments, 1)
		assert.Equal(t, "Great", dish.Comments[0].Comment)
	})
}

func TestMongoUserRepository_CreateDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: foodexplorer.users index: email_1",
		}))

		err := repo.Create(context.Background(), models.NewUser("Asha", "asha@example.com", "hash"))
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestMongoPendingDishRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewPendingDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		deleted, err := repo.Delete(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	mt.Run("already gone", func(mt *mtest.T) {
		repo := NewPendingDishRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		deleted, err := repo.Delete(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
