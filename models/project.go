// models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
)

// ProjectCategories are the accepted values for Project.Category
var ProjectCategories = []string{"Engineering", "Software", "IOT", "Business", "Art", "Other"}

// Owner is a denormalized snapshot of the publishing account
type Owner struct {
	ID              string `json:"id" bson:"id"`
	Name            string `json:"name" bson:"name"`
	ProfileImageURL string `json:"profileImageURL,omitempty" bson:"profileImageURL,omitempty"`
}

// Project model
type Project struct {
	ID                 primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Owner              Owner              `json:"owner" bson:"owner"`
	Likes              []string           `json:"likes" bson:"likes"`
	NoOfLikes          int                `json:"noOfLikes" bson:"noOfLikes"`
	NoOfComments       int                `json:"noOfComments" bson:"noOfComments"`
	Status             string             `json:"status" bson:"status"`
	Category           string             `json:"category" bson:"category"`
	ContactPhoneNumber string             `json:"contactPhoneNumber" bson:"contactPhoneNumber"`
	ContactEmail       string             `json:"contactEmail" bson:"contactEmail"`
	Attachments        []string           `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Link               string             `json:"link,omitempty" bson:"link,omitempty"`
	Summary            string             `json:"summary" bson:"summary"`
	Description        string             `json:"description" bson:"description"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProjectRequest is the create/update payload for a project
type ProjectRequest struct {
	Title              string   `json:"title" validate:"required,max=255"`
	Status             string   `json:"status" validate:"required,oneof=draft published"`
	Category           string   `json:"category" validate:"required,oneof=Engineering Software IOT Business Art Other"`
	ContactPhoneNumber string   `json:"contactPhoneNumber" validate:"required,max=15"`
	ContactEmail       string   `json:"contactEmail" validate:"required,email"`
	Attachments        []string `json:"attachments,omitempty"`
	Link               string   `json:"link,omitempty" validate:"omitempty,url"`
	Summary            string   `json:"summary" validate:"required"`
	Description        string   `json:"description" validate:"required"`
}
