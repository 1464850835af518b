package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the ones the existing deployment already uses.
const (
	UserCollection        = "users"
	DishCollection        = "dishes"
	PendingDishCollection = "addeddishes"
	CategoryCollection    = "dishcategories"
)

// NewMongoStore wires the Mongo repositories of one database. When
// transactions is false, Tx runs the callback without a session.
func NewMongoStore(client *mongo.Client, db *mongo.Database, transactions bool) *Store {
	return &Store{
		Users:      NewUserRepository(db.Collection(UserCollection)),
		Dishes:     NewDishRepository(db.Collection(DishCollection)),
		Pending:    NewPendingDishRepository(db.Collection(PendingDishCollection)),
		Categories: NewCategoryRepository(db.Collection(CategoryCollection)),
		Tx:         &MongoTransactor{client: client, enabled: transactions},
	}
}

// EnsureIndexes creates the indexes the services rely on for uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		DishCollection: {
			{Keys: bson.D{{Key: "sourceSubmissionId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "cityState", Value: 1}, {Key: "cityName", Value: 1}}},
		},
		PendingDishCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "userInfo", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

type MongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// updateSet applies a single-field set operator ($addToSet, $pull) to the
// document with the given id and reports whether it changed.
func updateSet(ctx context.Context, coll *mongo.Collection, id interface{}, op, field string, value interface{}) (bool, error) {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{op: bson.M{field: value}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}
