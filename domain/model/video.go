package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Asset is an object-storage reference returned by the media store collaborator
type Asset struct {
	URL      string  `bson:"url" json:"url"`
	PublicID string  `bson:"public_id" json:"public_id"`
	Duration float64 `bson:"duration,omitempty" json:"duration,omitempty"`
}

// Video represents a catalog record as stored in MongoDB
type Video struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Tags        []string      `bson:"tags" json:"tags"`
	VideoFile   Asset         `bson:"video_file" json:"video_file"`
	Thumbnail   Asset         `bson:"thumbnail" json:"thumbnail"`
	Duration    float64       `bson:"duration" json:"duration"`
	Owner       bson.ObjectID `bson:"owner" json:"owner"`
	IsPublished bool          `bson:"is_published" json:"is_published"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}
