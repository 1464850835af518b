package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// PendingDish is a user proposal waiting for moderation. It is deleted as
// soon as it is approved or rejected.
type PendingDish struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	DishDetails `bson:",inline"`
	UserInfo    primitive.ObjectID `bson:"userInfo" json:"userInfo"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewPendingDish(details DishDetails, submitter primitive.ObjectID) *PendingDish {
	return &PendingDish{
		ID:          primitive.NewObjectID(),
		DishDetails: details,
		UserInfo:    submitter,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// ToDish builds the published dish for an approved submission. Only the
// descriptive fields are carried over.
func (p *PendingDish) ToDish() *Dish {
	dish := NewDish(p.DishDetails)
	source := p.ID
	dish.SourceSubmissionID = &source
	return dish
}
