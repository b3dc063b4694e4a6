package repositories

import (
	"fmt"

	"blogledger/app/models"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Key prefixes for different entity types
	RecordKeyPrefix = "record:"
	UsageKeyPrefix  = "usage:"
)

// envelope wraps every stored record with the allocation it holds.
type envelope struct {
	Payer models.Identity `msgpack:"payer"`
	Space int             `msgpack:"space"`
	Data  []byte          `msgpack:"data"`
}

func recordKey(addr models.Address) []byte {
	return append([]byte(RecordKeyPrefix), addr[:]...)
}

func usageKey(id models.Identity) []byte {
	return append([]byte(UsageKeyPrefix), id[:]...)
}

// charge moves space into an identity's allocation; a negative space releases it.
func (u *Usage) charge(space int) {
	u.Allocated += int64(space)
	if space > 0 {
		u.Records++
	} else if space < 0 {
		u.Records--
	}
}

// MarshalEntity encodes an entity with msgpack
func MarshalEntity(entity interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// UnmarshalEntity decodes msgpack data into an entity
func UnmarshalEntity(data []byte, entity interface{}) error {
	if err := msgpack.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

func newEnvelope(payer models.Identity, record models.Record) (*envelope, error) {
	data, err := MarshalEntity(record)
	if err != nil {
		return nil, err
	}
	return &envelope{Payer: payer, Space: record.Space(), Data: data}, nil
}
