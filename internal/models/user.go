package models

import (
	"time"
)

type User struct {
	ID           string    `firestore:"id" bson:"_id" json:"id"`
	Name         string    `firestore:"name" bson:"name" json:"name"`
	Email        string    `firestore:"email" bson:"email" json:"email"`
	PasswordHash string    `firestore:"passwordHash" bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}
