package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	UniversityID string             `bson:"universityId,omitempty" json:"universityId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
