package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"blogledger/app/cache"
	"blogledger/app/models"
	"blogledger/app/repositories"
	"blogledger/app/repositories/mock"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.Identity{0xa1}
	bob   = models.Identity{0xb0}
)

func strPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string { return &tags }

func setupTestService(t *testing.T) (*BlogService, *mock.Store, *FixedClock) {
	store := mock.NewStore()
	clock := &FixedClock{T: time.Unix(1700000000, 0)}
	return NewBlogService(store, WithClock(clock)), store, clock
}

func createTestBlog(t *testing.T, s *BlogService, author models.Identity) *models.Blog {
	blog, err := s.CreateBlog(context.Background(), author, "Test Blog", "About testing")
	require.NoError(t, err)
	return blog
}

func createTestPost(t *testing.T, s *BlogService, author models.Identity, blog models.Address) *models.Post {
	post, err := s.CreatePost(context.Background(), author, blog, "Test Post", []string{"go"})
	require.NoError(t, err)
	return post
}

func TestScenario(t *testing.T) {
	service, _, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := service.CreateBlog(ctx, alice, "T", "D")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), blog.PostCount)
	blogAddr := blog.Address()

	post0, err := service.CreatePost(ctx, alice, blogAddr, "P1", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), post0.ID)
	got, err := service.GetBlog(ctx, blogAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.PostCount)

	post1, err := service.CreatePost(ctx, alice, blogAddr, "P2", []string{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), post1.ID)
	got, err = service.GetBlog(ctx, blogAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.PostCount)

	updated, err := service.UpdatePostMeta(ctx, alice, post0.Address(), PostMetaUpdate{Title: strPtr("P1b")})
	require.NoError(t, err)
	assert.Equal(t, "P1b", updated.Title)

	require.NoError(t, service.DeletePost(ctx, alice, post0.Address()))

	_, err = service.GetPost(ctx, post0.Address())
	assert.True(t, errors.Is(err, ErrNotFound))

	remaining, err := service.GetPost(ctx, post1.Address())
	require.NoError(t, err)
	if diff := cmp.Diff(post1, remaining, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("post1 changed (-want +got):\n%s", diff)
	}
}

func TestCreateBlog(t *testing.T) {
	service, store, _ := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		description string
		wantErr     bool
	}{
		{name: "title at limit", title: strings.Repeat("t", 100)},
		{name: "title over limit", title: strings.Repeat("t", 101), wantErr: true},
		{name: "description at limit", description: strings.Repeat("d", 500)},
		{name: "description over limit", description: strings.Repeat("d", 501), wantErr: true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			author := models.Identity{byte(i + 1)}
			blog, err := service.CreateBlog(ctx, author, tt.title, tt.description)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidation))
				_, err := service.GetBlogByAuthor(ctx, author)
				assert.True(t, errors.Is(err, ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, author, blog.Author)
			assert.Equal(t, uint64(0), blog.PostCount)
		})
	}

	t.Run("one blog per author", func(t *testing.T) {
		_, err := service.CreateBlog(ctx, alice, "First", "")
		require.NoError(t, err)

		commits := store.Commits()
		_, err = service.CreateBlog(ctx, alice, "Second", "")
		assert.True(t, errors.Is(err, ErrAlreadyExists))
		assert.Equal(t, commits, store.Commits())

		blog, err := service.GetBlogByAuthor(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "First", blog.Title)
	})

	t.Run("author pays for the blog", func(t *testing.T) {
		usage, err := service.Usage(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(models.BlogSpace), usage.Allocated)
	})
}

func TestCreatePost(t *testing.T) {
	service, _, clock := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	blogAddr := blog.Address()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		post, err := service.CreatePost(ctx, alice, blogAddr, "Hello", []string{"a", "b"})
		require.NoError(t, err)

		want := &models.Post{
			Author:    alice,
			Blog:      blogAddr,
			ID:        0,
			Title:     "Hello",
			Content:   "",
			Tags:      []string{"a", "b"},
			CreatedAt: clock.T.Unix(),
			UpdatedAt: clock.T.Unix(),
		}
		if diff := cmp.Diff(want, post); diff != "" {
			t.Errorf("created post mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ids follow the post count", func(t *testing.T) {
		for want := uint64(1); want <= 5; want++ {
			before, err := service.GetBlog(ctx, blogAddr)
			require.NoError(t, err)

			post := createTestPost(t, service, alice, blogAddr)
			assert.Equal(t, before.PostCount, post.ID)
			assert.Equal(t, want, post.ID)

			after, err := service.GetBlog(ctx, blogAddr)
			require.NoError(t, err)
			assert.Equal(t, before.PostCount+1, after.PostCount)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		before, err := service.GetBlog(ctx, blogAddr)
		require.NoError(t, err)

		_, err = service.CreatePost(ctx, bob, blogAddr, "Intruder", nil)
		assert.True(t, errors.Is(err, ErrUnauthorized))

		after, err := service.GetBlog(ctx, blogAddr)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing blog", func(t *testing.T) {
		_, err := service.CreatePost(ctx, bob, models.BlogAddress(bob), "Nowhere", nil)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			title   string
			tags    []string
			wantErr bool
		}{
			{name: "title at limit", title: strings.Repeat("t", 200)},
			{name: "title over limit", title: strings.Repeat("t", 201), wantErr: true},
			{name: "two tags", title: "t", tags: []string{"a", "b"}},
			{name: "three tags", title: "t", tags: []string{"a", "b", "c"}, wantErr: true},
			{name: "tag at limit", title: "t", tags: []string{strings.Repeat("x", 10)}},
			{name: "tag over limit", title: "t", tags: []string{strings.Repeat("x", 11)}, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before, err := service.GetBlog(ctx, blogAddr)
				require.NoError(t, err)

				_, err = service.CreatePost(ctx, alice, blogAddr, tt.title, tt.tags)
				after, getErr := service.GetBlog(ctx, blogAddr)
				require.NoError(t, getErr)

				if tt.wantErr {
					assert.True(t, errors.Is(err, ErrValidation))
					assert.Equal(t, before.PostCount, after.PostCount)
					return
				}
				assert.NoError(t, err)
				assert.Equal(t, before.PostCount+1, after.PostCount)
			})
		}
	})
}

func TestCreatePostIsAtomic(t *testing.T) {
	service, store, _ := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)

	store.FailNextCommit(errors.New("disk full"))
	_, err := service.CreatePost(ctx, alice, blog.Address(), "Lost", nil)
	assert.Error(t, err)

	got, err := service.GetBlog(ctx, blog.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.PostCount)

	_, err = service.GetPost(ctx, models.PostAddress(blog.Address(), 0))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConcurrentCreatePost(t *testing.T) {
	store, err := repositories.NewBadgerStore(repositories.BadgerOptions{InMemory: true, MaxRetries: 1000})
	require.NoError(t, err)
	defer store.Close()

	service := NewBlogService(store)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)

	const writers = 25
	ids := make(chan uint64, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			post, err := service.CreatePost(ctx, alice, blog.Address(), "Concurrent", nil)
			if assert.NoError(t, err) {
				ids <- post.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, writers)

	got, err := service.GetBlog(ctx, blog.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(writers), got.PostCount)

	posts, err := service.ListPosts(ctx, blog.Address())
	require.NoError(t, err)
	assert.Len(t, posts, writers)
}

func TestUpdatePostMeta(t *testing.T) {
	service, _, clock := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	post := createTestPost(t, service, alice, blog.Address())
	addr := post.Address()

	t.Run("no fields still bumps updated_at", func(t *testing.T) {
		clock.T = clock.T.Add(time.Minute)

		updated, err := service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{})
		require.NoError(t, err)
		assert.Equal(t, post.Title, updated.Title)
		assert.Equal(t, post.Tags, updated.Tags)
		assert.Equal(t, post.CreatedAt, updated.CreatedAt)
		assert.Equal(t, clock.T.Unix(), updated.UpdatedAt)
		assert.Greater(t, updated.UpdatedAt, post.UpdatedAt)
	})

	t.Run("title only", func(t *testing.T) {
		updated, err := service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{Title: strPtr("New Title")})
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, []string{"go"}, updated.Tags)
	})

	t.Run("tags only", func(t *testing.T) {
		updated, err := service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{Tags: tagsPtr("x", "y")})
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, []string{"x", "y"}, updated.Tags)
	})

	t.Run("empty tags clear", func(t *testing.T) {
		updated, err := service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{Tags: tagsPtr()})
		require.NoError(t, err)
		assert.Empty(t, updated.Tags)
	})

	t.Run("invalid fields leave post unchanged", func(t *testing.T) {
		before, err := service.GetPost(ctx, addr)
		require.NoError(t, err)

		_, err = service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{
			Title: strPtr("Fine"),
			Tags:  tagsPtr("a", "b", "c"),
		})
		assert.True(t, errors.Is(err, ErrValidation))

		_, err = service.UpdatePostMeta(ctx, alice, addr, PostMetaUpdate{Title: strPtr(strings.Repeat("t", 201))})
		assert.True(t, errors.Is(err, ErrValidation))

		after, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unauthorized", func(t *testing.T) {
		before, err := service.GetPost(ctx, addr)
		require.NoError(t, err)

		_, err = service.UpdatePostMeta(ctx, bob, addr, PostMetaUpdate{Title: strPtr("Hijacked")})
		assert.True(t, errors.Is(err, ErrUnauthorized))

		after, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.UpdatePostMeta(ctx, alice, models.PostAddress(blog.Address(), 99), PostMetaUpdate{})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestAppendPostContent(t *testing.T) {
	service, _, clock := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	post := createTestPost(t, service, alice, blog.Address())
	addr := post.Address()

	t.Run("appends", func(t *testing.T) {
		_, err := service.AppendPostContent(ctx, alice, addr, "hello ")
		require.NoError(t, err)

		clock.T = clock.T.Add(time.Second)
		updated, err := service.AppendPostContent(ctx, alice, addr, "world")
		require.NoError(t, err)
		assert.Equal(t, "hello world", updated.Content)
		assert.Equal(t, clock.T.Unix(), updated.UpdatedAt)
	})

	t.Run("empty chunk resets content", func(t *testing.T) {
		updated, err := service.AppendPostContent(ctx, alice, addr, "")
		require.NoError(t, err)
		assert.Equal(t, "", updated.Content)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		_, err := service.AppendPostContent(ctx, alice, addr, strings.Repeat("a", 4000))
		require.NoError(t, err)

		updated, err := service.AppendPostContent(ctx, alice, addr, strings.Repeat("b", 1000))
		require.NoError(t, err)
		assert.Len(t, updated.Content, 5000)
	})

	t.Run("one byte over limit", func(t *testing.T) {
		_, err := service.AppendPostContent(ctx, alice, addr, "c")
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "content", verr.Field)

		current, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Len(t, current.Content, 5000)
	})

	t.Run("reset after full", func(t *testing.T) {
		updated, err := service.AppendPostContent(ctx, alice, addr, "")
		require.NoError(t, err)
		assert.Equal(t, "", updated.Content)
	})

	t.Run("unauthorized", func(t *testing.T) {
		_, err := service.AppendPostContent(ctx, alice, addr, "kept")
		require.NoError(t, err)
		before, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		clock.T = clock.T.Add(time.Minute)

		_, err = service.AppendPostContent(ctx, bob, addr, "spam")
		assert.True(t, errors.Is(err, ErrUnauthorized))

		_, err = service.AppendPostContent(ctx, bob, addr, "")
		assert.True(t, errors.Is(err, ErrUnauthorized))

		after, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, "kept", after.Content)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})
}

func TestReplacePostContent(t *testing.T) {
	service, _, clock := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	post := createTestPost(t, service, alice, blog.Address())
	addr := post.Address()

	_, err := service.AppendPostContent(ctx, alice, addr, "old content")
	require.NoError(t, err)

	t.Run("replaces", func(t *testing.T) {
		content := strings.Repeat("é", 2000) // 4000 bytes, several chunks
		updated, err := service.ReplacePostContent(ctx, alice, addr, content)
		require.NoError(t, err)
		assert.Equal(t, content, updated.Content)
	})

	t.Run("over limit leaves content", func(t *testing.T) {
		_, err := service.ReplacePostContent(ctx, alice, addr, strings.Repeat("x", 5001))
		assert.True(t, errors.Is(err, ErrValidation))

		current, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", 2000), current.Content)
	})

	t.Run("empty clears", func(t *testing.T) {
		updated, err := service.ReplacePostContent(ctx, alice, addr, "")
		require.NoError(t, err)
		assert.Equal(t, "", updated.Content)
	})

	t.Run("unauthorized", func(t *testing.T) {
		_, err := service.ReplacePostContent(ctx, alice, addr, "kept")
		require.NoError(t, err)
		before, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		clock.T = clock.T.Add(time.Minute)

		_, err = service.ReplacePostContent(ctx, bob, addr, "mine now")
		assert.True(t, errors.Is(err, ErrUnauthorized))

		after, err := service.GetPost(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, "kept", after.Content)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})
}

func TestDeletePost(t *testing.T) {
	service, store, _ := setupTestService(t)
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	post0 := createTestPost(t, service, alice, blog.Address())
	post1 := createTestPost(t, service, alice, blog.Address())

	t.Run("unauthorized", func(t *testing.T) {
		err := service.DeletePost(ctx, bob, post0.Address())
		assert.True(t, errors.Is(err, ErrUnauthorized))

		_, err = service.GetPost(ctx, post0.Address())
		assert.NoError(t, err)
	})

	t.Run("deletes and reclaims", func(t *testing.T) {
		before, err := service.Usage(ctx, alice)
		require.NoError(t, err)

		require.NoError(t, service.DeletePost(ctx, alice, post0.Address()))

		_, err = service.GetPost(ctx, post0.Address())
		assert.True(t, errors.Is(err, ErrNotFound))

		after, err := service.Usage(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, before.Allocated-int64(models.PostSpace), after.Allocated)
		assert.Equal(t, before.Reclaimed+int64(models.PostSpace), after.Reclaimed)
	})

	t.Run("other posts unaffected", func(t *testing.T) {
		got, err := service.GetPost(ctx, post1.Address())
		require.NoError(t, err)
		assert.Equal(t, post1, got)

		posts, err := service.ListPosts(ctx, blog.Address())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, post1.ID, posts[0].ID)
	})

	t.Run("ids are not reused", func(t *testing.T) {
		post := createTestPost(t, service, alice, blog.Address())
		assert.Equal(t, uint64(2), post.ID)
	})

	t.Run("already deleted", func(t *testing.T) {
		err := service.DeletePost(ctx, alice, post0.Address())
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("invalid blog reference", func(t *testing.T) {
		orphan := &models.Post{Author: alice, Title: "Orphan"}
		orphanAddr := models.PostAddress(models.Address{}, 0)
		require.NoError(t, store.Update(ctx, func(txn repositories.Txn) error {
			return txn.Create(orphanAddr, alice, orphan)
		}))

		err := service.DeletePost(ctx, alice, orphanAddr)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = service.GetPost(ctx, orphanAddr)
		assert.NoError(t, err)
	})
}

func TestListPosts(t *testing.T) {
	service, _, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("missing blog", func(t *testing.T) {
		_, err := service.ListPosts(ctx, models.BlogAddress(bob))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("empty blog", func(t *testing.T) {
		blog := createTestBlog(t, service, alice)
		posts, err := service.ListPosts(ctx, blog.Address())
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.NotNil(t, posts)
	})

	t.Run("id order", func(t *testing.T) {
		blogAddr := models.BlogAddress(alice)
		for i := 0; i < 3; i++ {
			createTestPost(t, service, alice, blogAddr)
		}
		posts, err := service.ListPosts(ctx, blogAddr)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		for i, post := range posts {
			assert.Equal(t, uint64(i), post.ID)
		}
	})
}

func TestCachedReads(t *testing.T) {
	store := mock.NewStore()
	service := NewBlogService(store, WithCache(cache.NewMemoryCache(time.Minute)))
	ctx := context.Background()
	blog := createTestBlog(t, service, alice)
	post := createTestPost(t, service, alice, blog.Address())

	// Warm the cache, then mutate; reads must not serve the stale copy.
	_, err := service.GetPost(ctx, post.Address())
	require.NoError(t, err)
	_, err = service.GetBlog(ctx, blog.Address())
	require.NoError(t, err)

	_, err = service.UpdatePostMeta(ctx, alice, post.Address(), PostMetaUpdate{Title: strPtr("Fresh")})
	require.NoError(t, err)
	got, err := service.GetPost(ctx, post.Address())
	require.NoError(t, err)
	assert.Equal(t, "Fresh", got.Title)

	createTestPost(t, service, alice, blog.Address())
	gotBlog, err := service.GetBlog(ctx, blog.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), gotBlog.PostCount)

	require.NoError(t, service.DeletePost(ctx, alice, post.Address()))
	_, err = service.GetPost(ctx, post.Address())
	assert.True(t, errors.Is(err, ErrNotFound))
}

// interleavingStore runs afterView once, right after the next View returns.
type interleavingStore struct {
	*mock.Store
	afterView func()
}

func (s *interleavingStore) View(ctx context.Context, fn func(repositories.Txn) error) error {
	err := s.Store.View(ctx, fn)
	if hook := s.afterView; hook != nil {
		s.afterView = nil
		hook()
	}
	return err
}

func TestCacheFillRacesMutation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, service *BlogService, post *models.Post)
		check  func(t *testing.T, service *BlogService, post *models.Post)
	}{
		{
			name: "update between read and fill",
			mutate: func(t *testing.T, service *BlogService, post *models.Post) {
				_, err := service.UpdatePostMeta(context.Background(), alice, post.Address(), PostMetaUpdate{Title: strPtr("Fresh")})
				require.NoError(t, err)
			},
			check: func(t *testing.T, service *BlogService, post *models.Post) {
				got, err := service.GetPost(context.Background(), post.Address())
				require.NoError(t, err)
				assert.Equal(t, "Fresh", got.Title)
			},
		},
		{
			name: "delete between read and fill",
			mutate: func(t *testing.T, service *BlogService, post *models.Post) {
				require.NoError(t, service.DeletePost(context.Background(), alice, post.Address()))
			},
			check: func(t *testing.T, service *BlogService, post *models.Post) {
				_, err := service.GetPost(context.Background(), post.Address())
				assert.True(t, errors.Is(err, ErrNotFound))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &interleavingStore{Store: mock.NewStore()}
			service := NewBlogService(store, WithCache(cache.NewMemoryCache(time.Minute)))
			blog := createTestBlog(t, service, alice)
			post := createTestPost(t, service, alice, blog.Address())

			store.afterView = func() { tt.mutate(t, service, post) }
			first, err := service.GetPost(context.Background(), post.Address())
			require.NoError(t, err)
			assert.Equal(t, "Test Post", first.Title)

			tt.check(t, service, post)
		})
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		size  int
		want  []string
	}{
		{name: "empty", input: "", size: 4, want: nil},
		{name: "short", input: "abc", size: 4, want: []string{"abc"}},
		{name: "exact", input: "abcd", size: 4, want: []string{"abcd"}},
		{name: "split", input: "abcdefghij", size: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "keeps runes whole", input: "aéé", size: 4, want: []string{"aé", "é"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitChunks(tt.input, tt.size)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, strings.Join(got, ""))
		})
	}
}
