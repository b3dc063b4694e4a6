package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"blogledger/app/cache"
	"blogledger/app/models"
	"blogledger/app/repositories"

	log "github.com/sirupsen/logrus"
)

// ContentChunkSize is the largest piece ReplacePostContent appends at once.
const ContentChunkSize = 900

// BlogService owns every rule for blogs and posts: field limits, author
// checks and the post counter. Each operation is a single store transaction.
type BlogService struct {
	store repositories.RecordStore
	cache cache.Cache
	clock Clock

	// generations counts invalidations per address stripe. A read only fills
	// the cache if its stripe did not move while it was reading the store.
	fillMutex   sync.Mutex
	generations [256]uint64
}

// Option configures a BlogService
type Option func(*BlogService)

// WithCache puts a read-through cache in front of the store
func WithCache(c cache.Cache) Option {
	return func(s *BlogService) { s.cache = c }
}

// WithClock overrides the system clock
func WithClock(c Clock) Option {
	return func(s *BlogService) { s.clock = c }
}

// NewBlogService creates a new BlogService
func NewBlogService(store repositories.RecordStore, opts ...Option) *BlogService {
	s := &BlogService{
		store: store,
		cache: cache.NoOpCache{},
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostMetaUpdate carries the optional fields of UpdatePostMeta. A nil field is
// left unchanged; a non-nil empty Tags clears the tags.
type PostMetaUpdate struct {
	Title *string   `json:"title,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

// CreateBlog creates the author's blog. An author has at most one.
func (s *BlogService) CreateBlog(ctx context.Context, author models.Identity, title, description string) (*models.Blog, error) {
	blog := &models.Blog{
		Author:      author,
		Title:       title,
		Description: description,
	}
	if err := blog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blog: %w", err)
	}

	addr := blog.Address()
	err := s.store.Update(ctx, func(txn repositories.Txn) error {
		return txn.Create(addr, author, blog)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.invalidate(ctx, addr)
	log.WithFields(log.Fields{"author": author, "blog": addr}).Info("blog created")
	return blog, nil
}

// CreatePost creates a post under blogAddr. The post takes the blog's current
// post count as its id and the count is incremented in the same transaction.
func (s *BlogService) CreatePost(ctx context.Context, author models.Identity, blogAddr models.Address, title string, tags []string) (*models.Post, error) {
	var post *models.Post
	err := s.store.Update(ctx, func(txn repositories.Txn) error {
		var blog models.Blog
		if err := txn.Read(blogAddr, &blog); err != nil {
			return fmt.Errorf("blog %s: %w", blogAddr, err)
		}
		if !blog.IsAuthor(author) {
			return ErrUnauthorized
		}

		now := s.clock.Now().Unix()
		p := &models.Post{
			Author:    author,
			Title:     title,
			Tags:      append([]string{}, tags...),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.SetBlog(&blog); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}

		if err := txn.Create(p.Address(), author, p); err != nil {
			return err
		}
		blog.PostCount++
		if err := txn.Write(blogAddr, &blog); err != nil {
			return err
		}

		post = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.invalidate(ctx, blogAddr, post.Address())
	log.WithFields(log.Fields{"author": author, "blog": blogAddr, "post_id": post.ID}).Info("post created")
	return post, nil
}

// UpdatePostMeta replaces the title and/or tags. updated_at is always bumped,
// even when update carries no fields.
func (s *BlogService) UpdatePostMeta(ctx context.Context, author models.Identity, postAddr models.Address, update PostMetaUpdate) (*models.Post, error) {
	post, err := s.mutatePost(ctx, author, postAddr, func(p *models.Post) {
		if update.Title != nil {
			p.Title = *update.Title
		}
		if update.Tags != nil {
			p.Tags = append([]string{}, (*update.Tags)...)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// AppendPostContent appends chunk to the post content. An empty chunk resets
// the content to "" instead of being a no-op.
func (s *BlogService) AppendPostContent(ctx context.Context, author models.Identity, postAddr models.Address, chunk string) (*models.Post, error) {
	post, err := s.mutatePost(ctx, author, postAddr, func(p *models.Post) {
		p.AppendContent(chunk)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append content: %w", err)
	}
	return post, nil
}

// ReplacePostContent resets the content and writes content back in chunks of
// at most ContentChunkSize bytes, all in one transaction.
func (s *BlogService) ReplacePostContent(ctx context.Context, author models.Identity, postAddr models.Address, content string) (*models.Post, error) {
	if len(content) > models.MaxPostContentLen {
		err := &models.ValidationError{Field: "content", Limit: models.MaxPostContentLen, Message: "content is too long"}
		return nil, fmt.Errorf("failed to replace content: %w", err)
	}

	chunks := splitChunks(content, ContentChunkSize)
	post, err := s.mutatePost(ctx, author, postAddr, func(p *models.Post) {
		p.AppendContent("")
		for _, chunk := range chunks {
			p.AppendContent(chunk)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace content: %w", err)
	}
	return post, nil
}

// DeletePost removes the post and returns its storage to the author.
func (s *BlogService) DeletePost(ctx context.Context, author models.Identity, postAddr models.Address) error {
	var post models.Post
	err := s.store.Update(ctx, func(txn repositories.Txn) error {
		if err := txn.Read(postAddr, &post); err != nil {
			return err
		}
		if !post.IsAuthor(author) {
			return ErrUnauthorized
		}
		if post.Blog.IsZero() {
			return fmt.Errorf("post has no blog: %w", ErrNotFound)
		}
		return txn.Delete(postAddr, author)
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.invalidate(ctx, postAddr)
	log.WithFields(log.Fields{"author": author, "blog": post.Blog, "post_id": post.ID}).Info("post deleted")
	return nil
}

// GetBlog retrieves a blog by address
func (s *BlogService) GetBlog(ctx context.Context, addr models.Address) (*models.Blog, error) {
	var blog models.Blog
	if err := s.readRecord(ctx, addr, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// GetBlogByAuthor retrieves the blog owned by author
func (s *BlogService) GetBlogByAuthor(ctx context.Context, author models.Identity) (*models.Blog, error) {
	return s.GetBlog(ctx, models.BlogAddress(author))
}

// GetPost retrieves a post by address
func (s *BlogService) GetPost(ctx context.Context, addr models.Address) (*models.Post, error) {
	var post models.Post
	if err := s.readRecord(ctx, addr, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns the blog's live posts in id order. Ids run from 0 to the
// blog's post count; deleted ids are skipped.
func (s *BlogService) ListPosts(ctx context.Context, blogAddr models.Address) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := s.store.View(ctx, func(txn repositories.Txn) error {
		var blog models.Blog
		if err := txn.Read(blogAddr, &blog); err != nil {
			return err
		}

		for id := uint64(0); id < blog.PostCount; id++ {
			var post models.Post
			err := txn.Read(models.PostAddress(blogAddr, id), &post)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read post %d: %w", id, err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Usage returns the storage accounting for id
func (s *BlogService) Usage(ctx context.Context, id models.Identity) (repositories.Usage, error) {
	var usage repositories.Usage
	err := s.store.View(ctx, func(txn repositories.Txn) error {
		var err error
		usage, err = txn.Usage(id)
		return err
	})
	return usage, err
}

// mutatePost loads the post, checks the caller is its author, applies change
// to a copy, validates the copy and writes it back with a fresh updated_at.
func (s *BlogService) mutatePost(ctx context.Context, author models.Identity, postAddr models.Address, change func(*models.Post)) (*models.Post, error) {
	var post *models.Post
	err := s.store.Update(ctx, func(txn repositories.Txn) error {
		var current models.Post
		if err := txn.Read(postAddr, &current); err != nil {
			return err
		}
		if !current.IsAuthor(author) {
			return ErrUnauthorized
		}

		next := current.Clone()
		change(next)
		next.UpdatedAt = s.clock.Now().Unix()
		if err := next.Validate(); err != nil {
			return err
		}
		if err := txn.Write(postAddr, next); err != nil {
			return err
		}

		post = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, postAddr)
	log.WithFields(log.Fields{"author": author, "post": postAddr}).Debug("post updated")
	return post, nil
}

func (s *BlogService) readRecord(ctx context.Context, addr models.Address, dst models.Record) error {
	found, err := s.cache.Get(ctx, addr, dst)
	if err != nil {
		log.WithError(err).WithField("address", addr).Warn("cache read failed")
	} else if found {
		return nil
	}

	generation := s.generation(addr)
	err = s.store.View(ctx, func(txn repositories.Txn) error {
		return txn.Read(addr, dst)
	})
	if err != nil {
		return err
	}

	s.fill(ctx, addr, dst, generation)
	return nil
}

func (s *BlogService) generation(addr models.Address) uint64 {
	s.fillMutex.Lock()
	defer s.fillMutex.Unlock()
	return s.generations[addr[0]]
}

// fill caches v unless addr was invalidated after generation was taken.
// Holding fillMutex across Set orders it before any later invalidation.
func (s *BlogService) fill(ctx context.Context, addr models.Address, v models.Record, generation uint64) {
	s.fillMutex.Lock()
	defer s.fillMutex.Unlock()

	if s.generations[addr[0]] != generation {
		log.WithField("address", addr).Debug("skipping cache fill of a changed record")
		return
	}
	if err := s.cache.Set(ctx, addr, v); err != nil {
		log.WithError(err).WithField("address", addr).Warn("cache write failed")
	}
}

func (s *BlogService) invalidate(ctx context.Context, addrs ...models.Address) {
	s.fillMutex.Lock()
	for _, addr := range addrs {
		s.generations[addr[0]]++
	}
	s.fillMutex.Unlock()

	if err := s.cache.Delete(ctx, addrs...); err != nil {
		log.WithError(err).Warn("cache invalidation failed")
	}
}

// splitChunks cuts s into pieces of at most size bytes without splitting a
// UTF-8 sequence.
func splitChunks(s string, size int) []string {
	var chunks []string
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}
