package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

type MongoPendingDishRepository struct {
	coll *mongo.Collection
}

func NewPendingDishRepository(coll *mongo.Collection) *MongoPendingDishRepository {
	return &MongoPendingDishRepository{coll: coll}
}

func (r *MongoPendingDishRepository) Create(ctx context.Context, pending *models.PendingDish) error {
	_, err := r.coll.InsertOne(ctx, pending)
	return translate(err)
}

func (r *MongoPendingDishRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PendingDish, error) {
	var pending models.PendingDish
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&pending); err != nil {
		return nil, translate(err)
	}
	return &pending, nil
}

func (r *MongoPendingDishRepository) FindByStatus(ctx context.Context, status string) ([]models.PendingDish, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoPendingDishRepository) FindBySubmitter(ctx context.Context, userID primitive.ObjectID) ([]models.PendingDish, error) {
	return r.find(ctx, bson.M{"userInfo": userID})
}

func (r *MongoPendingDishRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPendingDishRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoPendingDishRepository) find(ctx context.Context, filter interface{}) ([]models.PendingDish, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pending := []models.PendingDish{}
	if err := cursor.All(ctx, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}
