package repository

import (
	"context"
	"time"

	"github.com/Keyur200/blogappapi/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReactionKind selects which reaction set an engagement targets.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// PostRepository defines the interface for post data operations.
//
// AppendComment and React are the atomic-update surface: each call maps to
// exactly one conditional document mutation, so concurrent engagements
// against the same post interleave without lost updates.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListRecent(ctx context.Context, limit int64) ([]*models.Post, error)
	AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	React(ctx context.Context, postID string, userID primitive.ObjectID, kind ReactionKind) (*models.Post, error)
}

type postRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates a new post repository backed by the posts collection.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{collection: db.Collection("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Dislikes == nil {
		post.Dislikes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("Invalid post ID")
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListRecent(ctx context.Context, limit int64) ([]*models.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var post models.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, models.NewInternalError(err)
		}
		posts = append(posts, &post)
	}
	if err := cursor.Err(); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, models.NewValidationError("Invalid post ID")
	}
	return r.findOneAndUpdate(ctx, objectID, appendCommentUpdate(comment), postID)
}

func (r *postRepository) React(ctx context.Context, postID string, userID primitive.ObjectID, kind ReactionKind) (*models.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, models.NewValidationError("Invalid post ID")
	}
	return r.findOneAndUpdate(ctx, objectID, reactionUpdate(userID, kind), postID)
}

func (r *postRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M, hexID string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Post", hexID)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// reactionUpdate builds the single-operation mutation for a like or dislike:
// set-insert into the chosen reaction array and set-remove from the opposite
// one. $addToSet keeps the arrays duplicate-free, $pull is a no-op when the
// user is absent, and running both in one update enforces mutual exclusivity
// without a read-modify-write cycle.
func reactionUpdate(userID primitive.ObjectID, kind ReactionKind) bson.M {
	add, remove := "likes", "dislikes"
	if kind == ReactionDislike {
		add, remove = "dislikes", "likes"
	}
	return bson.M{
		"$addToSet": bson.M{add: userID},
		"$pull":     bson.M{remove: userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
}

// appendCommentUpdate builds the single-operation mutation appending a
// comment to the post's embedded comment array.
func appendCommentUpdate(comment models.Comment) bson.M {
	return bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now()},
	}
}
