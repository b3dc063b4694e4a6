package repositories

import (
	"context"
	"errors"

	"blogledger/app/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrConflict      = errors.New("transaction conflict")
)

// Usage is an identity's storage accounting, in bytes.
type Usage struct {
	Allocated int64 `json:"allocated" msgpack:"allocated"`
	Reclaimed int64 `json:"reclaimed" msgpack:"reclaimed"`
	Records   int64 `json:"records" msgpack:"records"`
}

// Txn is one atomic unit of work against the addressable record store.
type Txn interface {
	// Create stores record at addr and charges its space to payer.
	// It fails with ErrAlreadyExists if addr is occupied.
	Create(addr models.Address, payer models.Identity, record models.Record) error
	// Read decodes the record at addr into dst, or returns ErrNotFound.
	Read(addr models.Address, dst models.Record) error
	// Write replaces the record at addr. It fails with ErrNotFound if addr is unoccupied.
	Write(addr models.Address, record models.Record) error
	// Delete removes the record at addr and returns its space to beneficiary.
	Delete(addr models.Address, beneficiary models.Identity) error
	// Usage returns the storage accounting for id.
	Usage(id models.Identity) (Usage, error)
}

// RecordStore runs transactions. Update commits only when fn returns nil, so
// a failed operation never leaves partial state behind.
type RecordStore interface {
	View(ctx context.Context, fn func(Txn) error) error
	Update(ctx context.Context, fn func(Txn) error) error
	Close() error
}
