// Package service implements the application's domain logic over the
// repository interfaces.
package service

import (
	"context"
	"time"

	"github.com/Keyur200/blogappapi/internal/cache"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementService attaches comments and reactions to posts. Every
// mutation it requests from the store is a single atomic document update;
// no code path here reads a post, modifies it in memory, and writes it back.
type EngagementService struct {
	postRepo repository.PostRepository
}

// CommentInput carries an authenticated comment request.
type CommentInput struct {
	PostID string
	UserID string
	Text   string
}

func NewEngagementService(postRepo repository.PostRepository) *EngagementService {
	return &EngagementService{postRepo: postRepo}
}

// Comment appends a comment to the target post. The comment sequence is
// append-only and keeps call order.
func (s *EngagementService) Comment(ctx context.Context, in CommentInput) (*models.Post, error) {
	userID, err := requireIdentity(in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	comment := models.Comment{
		Text:      in.Text,
		PostedBy:  userID,
		CreatedAt: time.Now(),
	}

	post, err := s.postRepo.AppendComment(ctx, in.PostID, comment)
	if err != nil {
		return nil, err
	}

	invalidatePost(ctx, in.PostID)
	return post, nil
}

// Like puts the user into the post's likes set and out of its dislikes set
// in one store operation. Re-liking an already-liked post is a no-op, not a
// toggle-off.
func (s *EngagementService) Like(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.react(ctx, postID, userID, repository.ReactionLike)
}

// Dislike is symmetric to Like with the reaction sets swapped.
func (s *EngagementService) Dislike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.react(ctx, postID, userID, repository.ReactionDislike)
}

func (s *EngagementService) react(ctx context.Context, postID, userID string, kind repository.ReactionKind) (*models.Post, error) {
	uid, err := requireIdentity(userID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.React(ctx, postID, uid, kind)
	if err != nil {
		return nil, err
	}

	invalidatePost(ctx, postID)
	return post, nil
}

// requireIdentity rejects anonymous callers before any store access.
func requireIdentity(userID string) (primitive.ObjectID, error) {
	if userID == "" {
		return primitive.NilObjectID, models.NewUnauthorizedError("Please login first.")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, models.NewUnauthorizedError("Please login first.")
	}
	return uid, nil
}

func invalidatePost(ctx context.Context, postID string) {
	cache.Invalidate(ctx, recentPostsKey, postKey(postID))
}
