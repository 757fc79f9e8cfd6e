// models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commenter is a denormalized snapshot of the commenting account
type Commenter struct {
	ID              string `json:"id" bson:"id"`
	Name            string `json:"name" bson:"name"`
	ProfileImageURL string `json:"profileImageURL,omitempty" bson:"profileImageURL,omitempty"`
}

// Comment model
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Commenter Commenter          `json:"commenter" bson:"commenter"`
	ProjectID string             `json:"projectId" bson:"projectId"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CommentRequest is the create payload for a comment
type CommentRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}
