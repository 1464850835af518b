package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

type MongoCategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(coll *mongo.Collection) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: coll}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, category)
	return translate(err)
}

func (r *MongoCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
