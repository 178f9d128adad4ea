package service

import (
	"context"
	"time"

	"github.com/Keyur200/blogappapi/internal/cache"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecentPostsLimit is the fixed most-recent window returned by ListRecent.
const RecentPostsLimit = 20

const (
	recentPostsKey = "posts:recent"
	postCacheTTL   = 2 * time.Minute
)

func postKey(id string) string {
	return "posts:" + id
}

// PostService creates and reads posts. Reads on the public endpoints go
// through the cache; every engagement mutation invalidates the affected keys.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// CreatePostInput carries an authenticated post creation request.
type CreatePostInput struct {
	UserID  string
	Title   string
	Summary string
	Content string
	Cover   string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost creates a post authored by the authenticated user. The author
// reference is fixed at creation and never changes.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	authorID, err := requireIdentity(in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post := &models.Post{
		Title:   in.Title,
		Summary: in.Summary,
		Content: in.Content,
		Cover:   in.Cover,
		Author:  authorID,
	}

	created, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, recentPostsKey)
	return created, nil
}

// ListRecent returns the most recent posts, newest first, with author
// usernames populated.
func (s *PostService) ListRecent(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.CacheAside(ctx, recentPostsKey, &posts, postCacheTTL, func() error {
		fetched, err := s.postRepo.ListRecent(ctx, RecentPostsLimit)
		if err != nil {
			return err
		}
		if err := s.populateUsernames(ctx, fetched); err != nil {
			return err
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns a single post with author and commenter usernames populated.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post *models.Post
	err := cache.CacheAside(ctx, postKey(id), &post, postCacheTTL, func() error {
		fetched, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.populateUsernames(ctx, []*models.Post{fetched}); err != nil {
			return err
		}
		post = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// populateUsernames resolves author and commenter IDs to usernames with a
// single users query per call.
func (s *PostService) populateUsernames(ctx context.Context, posts []*models.Post) error {
	seen := map[primitive.ObjectID]struct{}{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.Author)
		for _, c := range p.Comments {
			add(c.PostedBy)
		}
	}

	names, err := s.userRepo.UsernamesByID(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.AuthorName = names[p.Author]
		for i := range p.Comments {
			p.Comments[i].Username = names[p.Comments[i].PostedBy]
		}
	}
	return nil
}
