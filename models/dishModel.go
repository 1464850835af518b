package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DishDetails holds the descriptive fields shared by published dishes and
// pending submissions. Approval copies exactly this struct.
type DishDetails struct {
	DishName     string `bson:"dishName" json:"dishName" validate:"required,min=1,max=100"`
	DishPrice    string `bson:"dishPrice" json:"dishPrice" validate:"required,max=20"`
	Img          string `bson:"img" json:"img"`
	Description  string `bson:"description" json:"description" validate:"max=2000"`
	ShopName     string `bson:"shopName" json:"shopName" validate:"max=100"`
	Category     string `bson:"category" json:"category" validate:"max=50"`
	ShopLocation string `bson:"shopLocation" json:"shopLocation" validate:"max=200"`
	CityName     string `bson:"cityName" json:"cityName" validate:"max=100"`
	CityState    string `bson:"cityState" json:"cityState" validate:"max=100"`
}

type Comment struct {
	Username     string    `bson:"username" json:"username"`
	ProfileImage string    `bson:"profileImage" json:"profileImage"`
	Comment      string    `bson:"comment" json:"comment"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Dish is a published recommendation visible to every read query.
type Dish struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	DishDetails `bson:",inline"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments    []Comment            `bson:"comments" json:"comments"`

	// SourceSubmissionID is set when the dish was promoted from a pending
	// submission. It keys the idempotent approval upsert.
	SourceSubmissionID *primitive.ObjectID `bson:"sourceSubmissionId,omitempty" json:"sourceSubmissionId,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
}

func NewDish(details DishDetails) *Dish {
	return &Dish{
		ID:          primitive.NewObjectID(),
		DishDetails: details,
		Likes:       []primitive.ObjectID{},
		Comments:    []Comment{},
		CreatedAt:   time.Now().UTC(),
	}
}

// LikedBy reports whether userID is in the dish's liker set.
func (d *Dish) LikedBy(userID primitive.ObjectID) bool {
	return containsID(d.Likes, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
