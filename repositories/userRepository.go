package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) AddLikedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, userID, "$addToSet", "likedDishes", dishID)
}

func (r *MongoUserRepository) RemoveLikedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, userID, "$pull", "likedDishes", dishID)
}

func (r *MongoUserRepository) AddSavedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, userID, "$addToSet", "savedDishes", dishID)
}

func (r *MongoUserRepository) RemoveSavedDish(ctx context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, userID, "$pull", "savedDishes", dishID)
}
