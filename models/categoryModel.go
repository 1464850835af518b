package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	DishTaste string             `bson:"dishTaste" json:"dishTaste" validate:"required,min=2,max=50"`
}
