package models

// Validate checks the blog's field limits
func (b *Blog) Validate() error {
	return validateStruct(b)
}

// Space returns the bytes a blog occupies in the store.
func (b *Blog) Space() int {
	return BlogSpace
}

// Address returns the blog's deterministic address.
func (b *Blog) Address() Address {
	return BlogAddress(b.Author)
}

// IsAuthor reports whether id owns the blog.
func (b *Blog) IsAuthor(id Identity) bool {
	return b.Author == id
}
