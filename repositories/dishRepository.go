package repositories

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

type MongoDishRepository struct {
	coll *mongo.Collection
}

func NewDishRepository(coll *mongo.Collection) *MongoDishRepository {
	return &MongoDishRepository{coll: coll}
}

func (r *MongoDishRepository) Create(ctx context.Context, dish *models.Dish) error {
	_, err := r.coll.InsertOne(ctx, dish)
	return translate(err)
}

func (r *MongoDishRepository) UpsertBySource(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	filter := bson.M{"sourceSubmissionId": dish.SourceSubmissionID}
	update := bson.M{"$setOnInsert": dish}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Dish
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *MongoDishRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Dish, error) {
	var dish models.Dish
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&dish); err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *MongoDishRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Dish, error) {
	if len(ids) == 0 {
		return []models.Dish{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoDishRepository) FindAll(ctx context.Context, page Page) ([]models.Dish, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoDishRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoDishRepository) FindTopLiked(ctx context.Context, limit int64) ([]models.Dish, error) {
	addFieldsStage := bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "likeCount", Value: bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}}}},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "likeCount", Value: -1}, {Key: "_id", Value: 1}}}}
	limitStage := bson.D{{Key: "$limit", Value: limit}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{{Key: "likeCount", Value: 0}}}}

	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{addFieldsStage, sortStage, limitStage, projectStage})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	dishes := []models.Dish{}
	if err := cursor.All(ctx, &dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *MongoDishRepository) FindByCategory(ctx context.Context, category string) ([]models.Dish, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *MongoDishRepository) FindByCity(ctx context.Context, state, city string) ([]models.Dish, error) {
	return r.find(ctx, bson.M{"cityState": state, "cityName": city})
}

func (r *MongoDishRepository) FindByName(ctx context.Context, name string) (*models.Dish, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}

	var dish models.Dish
	if err := r.coll.FindOne(ctx, bson.M{"dishName": pattern}).Decode(&dish); err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *MongoDishRepository) AddLiker(ctx context.Context, dishID, userID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, dishID, "$addToSet", "likes", userID)
}

func (r *MongoDishRepository) RemoveLiker(ctx context.Context, dishID, userID primitive.ObjectID) (bool, error) {
	return updateSet(ctx, r.coll, dishID, "$pull", "likes", userID)
}

func (r *MongoDishRepository) AppendComment(ctx context.Context, dishID primitive.ObjectID, comment models.Comment) (*models.Dish, error) {
	update := bson.M{"$push": bson.M{"comments": comment}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var dish models.Dish
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": dishID}, update, opts).Decode(&dish); err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *MongoDishRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Dish, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	dishes := []models.Dish{}
	if err := cursor.All(ctx, &dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}
