package models

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Record kind tags. Each kind hashes into its own address space.
const (
	KindBlog = "blog"
	KindPost = "post"
)

const addressNamespace = "blogledger address v1"

// BlogAddress returns the address of the one Blog an author may own.
func BlogAddress(author Identity) Address {
	return deriveAddress(KindBlog, author[:])
}

// PostAddress returns the address of post id under the given blog.
func PostAddress(blog Address, id uint64) Address {
	var seq [8]byte
	binary.LittleEndian.PutUint64(seq[:], id)
	return deriveAddress(KindPost, blog[:], seq[:])
}

func deriveAddress(kind string, seeds ...[]byte) Address {
	h := sha3.New256()
	h.Write([]byte(addressNamespace))
	h.Write([]byte{byte(len(kind))})
	h.Write([]byte(kind))
	for _, seed := range seeds {
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}

	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}
