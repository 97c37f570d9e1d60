package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"questlog/internal/models"
	"questlog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// limitRepoStub is a stub for repository.PostLimitRepository.
type limitRepoStub struct {
	reserveFn func(context.Context, string, string) (bool, error)
	releaseFn func(context.Context, string, string) error
	getFn     func(context.Context, string, string) (*models.PostLimit, error)
}

func (s *limitRepoStub) Reserve(ctx context.Context, userID, date string) (bool, error) {
	return s.reserveFn(ctx, userID, date)
}
func (s *limitRepoStub) Release(ctx context.Context, userID, date string) error {
	return s.releaseFn(ctx, userID, date)
}
func (s *limitRepoStub) Get(ctx context.Context, userID, date string) (*models.PostLimit, error) {
	return s.getFn(ctx, userID, date)
}

func openLimitRepo() *limitRepoStub {
	return &limitRepoStub{
		reserveFn: func(_ context.Context, _, _ string) (bool, error) { return true, nil },
		releaseFn: func(_ context.Context, _, _ string) error { return nil },
		getFn:     func(_ context.Context, _, _ string) (*models.PostLimit, error) { return nil, nil },
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func validCreateInput() CreatePostInput {
	return CreatePostInput{
		UserID:          "u1",
		QuestID:         "quest-7",
		Title:           "Finished the times tables quest",
		Body:            "It took three tries but the last run was clean.",
		EffortScore:     intPtr(4),
		ExcitementScore: intPtr(5),
	}
}

func TestPostServiceCreatePostValidation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), openLimitRepo())
	ctx := context.Background()

	mutations := []struct {
		name    string
		mutate  func(*CreatePostInput)
		wantMsg string
	}{
		{"missing quest_id", func(in *CreatePostInput) { in.QuestID = " " }, "quest_id"},
		{"title too long", func(in *CreatePostInput) { in.Title = strings.Repeat("x", maxTitleLen+1) }, "title"},
		{"body too long", func(in *CreatePostInput) { in.Body = strings.Repeat("x", maxBodyLen+1) }, "body"},
		{"missing effort score", func(in *CreatePostInput) { in.EffortScore = nil }, "effort_score"},
		{"missing excitement score", func(in *CreatePostInput) { in.ExcitementScore = nil }, "excitement_score"},
		{"effort score below range", func(in *CreatePostInput) { in.EffortScore = intPtr(0) }, "effort_score"},
		{"effort score above range", func(in *CreatePostInput) { in.EffortScore = intPtr(6) }, "effort_score"},
		{"excitement score below range", func(in *CreatePostInput) { in.ExcitementScore = intPtr(0) }, "excitement_score"},
		{"excitement score above range", func(in *CreatePostInput) { in.ExcitementScore = intPtr(6) }, "excitement_score"},
		{"too many images", func(in *CreatePostInput) {
			in.ImageURLs = []string{"a", "b", "c", "d", "e"}
		}, "images"},
		{"blank image URL", func(in *CreatePostInput) { in.ImageURLs = []string{"a.png", " "} }, "image"},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validCreateInput()
			tt.mutate(&in)
			_, err := svc.CreatePost(ctx, in)
			assertAppCode(t, err, models.CodeValidation)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}

	t.Run("title is optional", func(t *testing.T) {
		t.Parallel()
		in := validCreateInput()
		in.Title = ""
		_, err := svc.CreatePost(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("score error names the field even without a title", func(t *testing.T) {
		t.Parallel()
		in := CreatePostInput{
			UserID:          "u3",
			QuestID:         "q1",
			EffortScore:     intPtr(6),
			ExcitementScore: intPtr(3),
		}
		_, err := svc.CreatePost(ctx, in)
		assertAppCode(t, err, models.CodeValidation)
		assert.ErrorContains(t, err, "effort_score")
	})

	t.Run("boundary scores pass", func(t *testing.T) {
		t.Parallel()
		for _, score := range []int{models.MinScore, models.MaxScore} {
			in := validCreateInput()
			in.EffortScore = intPtr(score)
			in.ExcitementScore = intPtr(score)
			_, err := svc.CreatePost(ctx, in)
			assert.NoError(t, err)
		}
	})

	t.Run("four images pass", func(t *testing.T) {
		t.Parallel()
		in := validCreateInput()
		in.ImageURLs = []string{"a.png", "b.png", "c.png", "d.png"}
		_, err := svc.CreatePost(ctx, in)
		assert.NoError(t, err)
	})
}

func TestPostServiceCreatePostDailyLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("slot taken", func(t *testing.T) {
		t.Parallel()
		limitRepo := openLimitRepo()
		limitRepo.reserveFn = func(_ context.Context, _, _ string) (bool, error) { return false, nil }
		svc := NewPostService(noopPostRepo(), limitRepo)

		_, err := svc.CreatePost(ctx, validCreateInput())
		assertAppCode(t, err, models.CodeLimitExceeded)
	})

	t.Run("reserve error propagates", func(t *testing.T) {
		t.Parallel()
		storeErr := errors.New("connection reset")
		limitRepo := openLimitRepo()
		limitRepo.reserveFn = func(_ context.Context, _, _ string) (bool, error) { return false, storeErr }
		svc := NewPostService(noopPostRepo(), limitRepo)

		_, err := svc.CreatePost(ctx, validCreateInput())
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("failed insert releases the slot", func(t *testing.T) {
		t.Parallel()
		released := false
		limitRepo := openLimitRepo()
		limitRepo.releaseFn = func(_ context.Context, userID, _ string) error {
			released = true
			assert.Equal(t, "u1", userID)
			return nil
		}
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, _ *models.Post) error {
			return errors.New("insert failed")
		}
		svc := NewPostService(postRepo, limitRepo)

		_, err := svc.CreatePost(ctx, validCreateInput())
		require.Error(t, err)
		assert.True(t, released, "daily slot should be released when the insert fails")
	})
}

func TestPostServiceCreatePostDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *models.Post
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc := NewPostService(postRepo, openLimitRepo())

	t.Run("public by default", func(t *testing.T) {
		in := validCreateInput()
		_, err := svc.CreatePost(ctx, in)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.True(t, created.IsPublic)
		assert.False(t, created.AllowPromotion)
	})

	t.Run("explicit private submission", func(t *testing.T) {
		in := validCreateInput()
		in.IsPublic = boolPtr(false)
		_, err := svc.CreatePost(ctx, in)
		require.NoError(t, err)
		assert.False(t, created.IsPublic)
	})
}

func TestPostServiceListFeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid sort rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), openLimitRepo())
		_, err := svc.ListFeed(ctx, FeedInput{Sort: "oldest"})
		assertAppCode(t, err, models.CodeValidation)
	})

	t.Run("invalid filter rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), openLimitRepo())
		_, err := svc.ListFeed(ctx, FeedInput{Filter: "friends"})
		assertAppCode(t, err, models.CodeValidation)
	})

	t.Run("follow filter requires login", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), openLimitRepo())
		_, err := svc.ListFeed(ctx, FeedInput{Filter: FeedFilterFollow})
		assertAppCode(t, err, models.CodeUnauthorized)
	})

	t.Run("defaults and clamping", func(t *testing.T) {
		t.Parallel()
		var captured repository.PostFeedQuery
		postRepo := noopPostRepo()
		postRepo.listFn = func(_ context.Context, q repository.PostFeedQuery) ([]*models.Post, error) {
			captured = q
			return []*models.Post{}, nil
		}
		svc := NewPostService(postRepo, openLimitRepo())

		_, err := svc.ListFeed(ctx, FeedInput{ViewerID: "u1", Limit: 500, Offset: -3})
		require.NoError(t, err)
		assert.Equal(t, maxFeedLimit, captured.Limit)
		assert.Equal(t, 0, captured.Offset)
		assert.Equal(t, FeedSortNewest, captured.Sort)
		assert.False(t, captured.FollowedOnly)
	})

	t.Run("follow filter wires through", func(t *testing.T) {
		t.Parallel()
		var captured repository.PostFeedQuery
		postRepo := noopPostRepo()
		postRepo.listFn = func(_ context.Context, q repository.PostFeedQuery) ([]*models.Post, error) {
			captured = q
			return []*models.Post{}, nil
		}
		svc := NewPostService(postRepo, openLimitRepo())

		_, err := svc.ListFeed(ctx, FeedInput{ViewerID: "u1", Filter: FeedFilterFollow, Sort: FeedSortClap})
		require.NoError(t, err)
		assert.True(t, captured.FollowedOnly)
		assert.Equal(t, FeedSortClap, captured.Sort)
		assert.Equal(t, "u1", captured.ViewerID)
	})
}

func TestPostServiceGetPostVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
		return &models.Post{ID: id, UserID: "owner", IsPublic: false}, nil
	}
	svc := NewPostService(postRepo, openLimitRepo())

	_, err := svc.GetPost(ctx, "p1", "stranger")
	assertAppCode(t, err, models.CodeNotFound)

	post, err := svc.GetPost(ctx, "p1", "owner")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
}

func TestPostServiceUpdateVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner can hide and publish", func(t *testing.T) {
		t.Parallel()
		var gotPublic *bool
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id, UserID: "owner", IsPublic: true}, nil
		}
		postRepo.updateVisibilityFn = func(_ context.Context, _ string, isPublic bool) error {
			gotPublic = &isPublic
			return nil
		}
		svc := NewPostService(postRepo, openLimitRepo())

		_, err := svc.UpdateVisibility(ctx, "p1", "owner", false)
		require.NoError(t, err)
		require.NotNil(t, gotPublic)
		assert.False(t, *gotPublic)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), openLimitRepo())
		_, err := svc.UpdateVisibility(ctx, "p1", "someone-else", false)
		assertAppCode(t, err, models.CodeForbidden)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ string) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(postRepo, openLimitRepo())
		_, err := svc.UpdateVisibility(ctx, "ghost", "owner", true)
		assertAppCode(t, err, models.CodeNotFound)
	})
}

func TestPostServiceForceHide(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("hides regardless of state", func(t *testing.T) {
		t.Parallel()
		hiddenCalls := 0
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
			// Already hidden; force-hide must still succeed.
			return &models.Post{ID: id, UserID: "owner", IsPublic: false}, nil
		}
		postRepo.updateVisibilityFn = func(_ context.Context, _ string, isPublic bool) error {
			hiddenCalls++
			assert.False(t, isPublic)
			return nil
		}
		svc := NewPostService(postRepo, openLimitRepo())

		_, err := svc.ForceHide(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, hiddenCalls)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ string) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(postRepo, openLimitRepo())
		_, err := svc.ForceHide(ctx, "ghost")
		assertAppCode(t, err, models.CodeNotFound)
	})
}

func TestPostServiceDeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newSvc := func(deleted *bool) *PostService {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id, UserID: "owner", IsPublic: true}, nil
		}
		postRepo.deleteFn = func(_ context.Context, _ string) error {
			*deleted = true
			return nil
		}
		return NewPostService(postRepo, openLimitRepo())
	}

	t.Run("owner", func(t *testing.T) {
		t.Parallel()
		var deleted bool
		err := newSvc(&deleted).DeletePost(ctx, "p1", "owner", models.RoleStudent)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("moderator", func(t *testing.T) {
		t.Parallel()
		var deleted bool
		err := newSvc(&deleted).DeletePost(ctx, "p1", "mod", models.RoleModerator)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("other student forbidden", func(t *testing.T) {
		t.Parallel()
		var deleted bool
		err := newSvc(&deleted).DeletePost(ctx, "p1", "stranger", models.RoleStudent)
		assertAppCode(t, err, models.CodeForbidden)
		assert.False(t, deleted)
	})
}
