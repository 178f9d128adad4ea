package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/Keyur200/blogappapi/internal/config"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) (*models.User, error)
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	usernamesFn     func(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) UsernamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return s.usernamesFn(ctx, ids)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) (*models.User, error) {
			u.ID = primitive.NewObjectID()
			return u, nil
		},
		getByIDFn:       func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		usernamesFn: func(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
			return map[primitive.ObjectID]string{}, nil
		},
	}
}

// memPostStore is an in-memory PostRepository tracking mutation counts so
// tests can assert that rejected requests never touched the store.
type memPostStore struct {
	mu        sync.Mutex
	posts     map[string]*models.Post
	mutations int
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: map[string]*models.Post{}}
}

func (f *memPostStore) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	post.ID = primitive.NewObjectID()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Dislikes == nil {
		post.Dislikes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	clone := *post
	f.posts[post.ID.Hex()] = &clone
	return post, nil
}

func (f *memPostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	clone := *post
	return &clone, nil
}

func (f *memPostStore) ListRecent(_ context.Context, limit int64) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Post{}
	for _, p := range f.posts {
		clone := *p
		out = append(out, &clone)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *memPostStore) AppendComment(_ context.Context, postID string, comment models.Comment) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}
	f.mutations++
	post.Comments = append(post.Comments, comment)
	clone := *post
	return &clone, nil
}

func (f *memPostStore) React(_ context.Context, postID string, userID primitive.ObjectID, kind repository.ReactionKind) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return nil, models.NewNotFoundError("Post", postID)
	}
	f.mutations++
	add, remove := &post.Likes, &post.Dislikes
	if kind == repository.ReactionDislike {
		add, remove = &post.Dislikes, &post.Likes
	}
	present := false
	for _, id := range *add {
		if id == userID {
			present = true
		}
	}
	if !present {
		*add = append(*add, userID)
	}
	kept := (*remove)[:0]
	for _, id := range *remove {
		if id != userID {
			kept = append(kept, id)
		}
	}
	*remove = kept
	clone := *post
	return &clone, nil
}

func (f *memPostStore) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

const testSecret = "test-signing-secret"

// newTestServer builds a Server over stub repositories and a fresh Fiber app.
func newTestServer(userRepo repository.UserRepository, postRepo repository.PostRepository) (*Server, *fiber.App, error) {
	cfg := &config.Config{
		Port:      "0",
		JWTSecret: testSecret,
		MongoURL:  "mongodb://unused",
	}
	srv, err := NewServerWithDeps(cfg, userRepo, postRepo)
	if err != nil {
		return nil, nil, err
	}
	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app, nil
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
