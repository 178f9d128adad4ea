package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in its post document. Comments are append-only:
// once pushed they are never edited, removed, or reordered.
type Comment struct {
	Text      string             `bson:"text" json:"text"`
	PostedBy  primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	CreatedAt time.Time          `bson:"created" json:"created"`
	// Username is populated at query time from the users collection; not persisted
	Username string `bson:"-" json:"username,omitempty"`
}

// Post is a single blog post document. Likes and dislikes are sets of user
// IDs; a user ID never appears in both at once, and the reaction update that
// maintains this runs as one atomic document mutation.
type Post struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title    string               `bson:"title" json:"title"`
	Summary  string               `bson:"summary" json:"summary"`
	Content  string               `bson:"content" json:"content"`
	Cover    string               `bson:"cover" json:"cover"`
	Author   primitive.ObjectID   `bson:"author" json:"author"`
	Likes    []primitive.ObjectID `bson:"likes" json:"likes"`
	Dislikes []primitive.ObjectID `bson:"dislikes" json:"dislikes"`
	Comments []Comment            `bson:"comments" json:"comments"`
	// AuthorName is populated at query time; not persisted
	AuthorName string    `bson:"-" json:"authorName,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// LikedBy reports whether the given user is in the post's likes set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// DislikedBy reports whether the given user is in the post's dislikes set.
func (p *Post) DislikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Dislikes {
		if id == userID {
			return true
		}
	}
	return false
}
