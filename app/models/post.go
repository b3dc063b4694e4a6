package models

import "errors"

// Validate checks the post's field limits
func (p *Post) Validate() error {
	return validateStruct(p)
}

// Space returns the bytes a post occupies in the store.
func (p *Post) Space() int {
	return PostSpace
}

// Address returns the post's deterministic address.
func (p *Post) Address() Address {
	return PostAddress(p.Blog, p.ID)
}

// IsAuthor reports whether id wrote the post.
func (p *Post) IsAuthor(id Identity) bool {
	return p.Author == id
}

// SetBlog attaches the post to its parent blog
func (p *Post) SetBlog(blog *Blog) error {
	if blog == nil {
		return errors.New("blog cannot be nil")
	}

	p.Blog = blog.Address()
	p.ID = blog.PostCount
	return nil
}

// AppendContent appends chunk to the content. An empty chunk clears it.
func (p *Post) AppendContent(chunk string) {
	if chunk == "" {
		p.Content = ""
		return
	}
	p.Content += chunk
}

// Clone returns a deep copy, so candidate changes can be validated before
// they replace the stored record.
func (p *Post) Clone() *Post {
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return &c
}
