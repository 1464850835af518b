package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultProfileImage = "https://static.vecteezy.com/system/resources/previews/008/442/086/non_2x/illustration-of-human-icon-user-symbol-icon-modern-design-on-blank-background-free-vector.jpg"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	State        string             `bson:"state,omitempty" json:"state,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Occupation   string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	AboutMe      string             `bson:"aboutMe,omitempty" json:"aboutMe,omitempty"`
	MobileNo     string             `bson:"mobileNo,omitempty" json:"mobileNo,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Role         string             `bson:"role" json:"role"`

	LikedDishes []primitive.ObjectID `bson:"likedDishes" json:"likedDishes"`
	SavedDishes []primitive.ObjectID `bson:"savedDishes" json:"savedDishes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        NormalizeEmail(email),
		Password:     passwordHash,
		ProfileImage: DefaultProfileImage,
		Role:         RoleUser,
		LikedDishes:  []primitive.ObjectID{},
		SavedDishes:  []primitive.ObjectID{},
		CreatedAt:    time.Now().UTC(),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) HasLiked(dishID primitive.ObjectID) bool {
	return containsID(u.LikedDishes, dishID)
}

func (u *User) HasSaved(dishID primitive.ObjectID) bool {
	return containsID(u.SavedDishes, dishID)
}
