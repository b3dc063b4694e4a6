package models

// Field limits, in bytes.
const (
	MaxBlogTitleLen       = 100
	MaxBlogDescriptionLen = 500
	MaxPostTitleLen       = 200
	MaxPostContentLen     = 5000
	MaxPostTags           = 2
	MaxTagLen             = 10
)

// discriminatorLen is the per-record kind header counted against every allocation.
const discriminatorLen = 8

// Space is the number of bytes a record of each kind occupies in the store,
// sized for the largest value every field may hold.
const (
	BlogSpace = discriminatorLen + IdentitySize + // author
		(4 + MaxBlogTitleLen) +
		(4 + MaxBlogDescriptionLen) +
		8 // post_count

	PostSpace = discriminatorLen + IdentitySize + AddressSize + // author, blog
		8 + // id
		(4 + MaxPostTitleLen) +
		(4 + MaxPostContentLen) +
		(4 + MaxPostTags*(4+MaxTagLen)) +
		8 + 8 // created_at, updated_at
)

// Record is anything the record store can hold.
type Record interface {
	Space() int
}

// Blog is the single top-level record an author owns.
type Blog struct {
	Author      Identity `json:"author" msgpack:"author"`
	Title       string   `json:"title" msgpack:"title" validate:"maxbytes=100"`
	Description string   `json:"description" msgpack:"description" validate:"maxbytes=500"`
	PostCount   uint64   `json:"post_count" msgpack:"post_count"`
}

// Post is a child record of a Blog. ID is assigned from the blog's post
// counter at creation and never changes.
type Post struct {
	Author    Identity `json:"author" msgpack:"author"`
	Blog      Address  `json:"blog" msgpack:"blog"`
	ID        uint64   `json:"id" msgpack:"id"`
	Title     string   `json:"title" msgpack:"title" validate:"maxbytes=200"`
	Content   string   `json:"content" msgpack:"content" validate:"maxbytes=5000"`
	Tags      []string `json:"tags" msgpack:"tags" validate:"max=2,dive,maxbytes=10"`
	CreatedAt int64    `json:"created_at" msgpack:"created_at"`
	UpdatedAt int64    `json:"updated_at" msgpack:"updated_at"`
}
