package mock

import (
	"context"
	"sync"

	"blogledger/app/models"
	"blogledger/app/repositories"
)

type stored struct {
	payer models.Identity
	space int
	data  []byte
}

// Store is an in-memory RecordStore. Transactions are fully serialized and
// their writes are staged until fn returns nil.
type Store struct {
	records map[models.Address]stored
	usage   map[models.Identity]repositories.Usage
	mutex   sync.Mutex

	failCommit error
	commits    int
}

func NewStore() *Store {
	return &Store{
		records: make(map[models.Address]stored),
		usage:   make(map[models.Identity]repositories.Usage),
	}
}

func (m *Store) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.records = make(map[models.Address]stored)
	m.usage = make(map[models.Identity]repositories.Usage)
	m.commits = 0
}

// FailNextCommit makes the next Update return err instead of committing.
func (m *Store) FailNextCommit(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failCommit = err
}

// Commits returns how many Update transactions have committed.
func (m *Store) Commits() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.commits
}

func (m *Store) Close() error {
	return nil
}

func (m *Store) View(ctx context.Context, fn func(repositories.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return fn(m.newTxn())
}

func (m *Store) Update(ctx context.Context, fn func(repositories.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txn := m.newTxn()
	if err := fn(txn); err != nil {
		return err
	}
	if m.failCommit != nil {
		err := m.failCommit
		m.failCommit = nil
		return err
	}

	for addr, rec := range txn.records {
		if rec == nil {
			delete(m.records, addr)
			continue
		}
		m.records[addr] = *rec
	}
	for id, usage := range txn.usage {
		m.usage[id] = usage
	}
	m.commits++
	return nil
}

func (m *Store) newTxn() *txn {
	return &txn{
		store:   m,
		records: make(map[models.Address]*stored),
		usage:   make(map[models.Identity]repositories.Usage),
	}
}

// txn stages changes; a nil entry in records marks a deletion.
type txn struct {
	store   *Store
	records map[models.Address]*stored
	usage   map[models.Identity]repositories.Usage
}

func (t *txn) get(addr models.Address) (stored, bool) {
	if rec, staged := t.records[addr]; staged {
		if rec == nil {
			return stored{}, false
		}
		return *rec, true
	}
	rec, exists := t.store.records[addr]
	return rec, exists
}

func (t *txn) Create(addr models.Address, payer models.Identity, record models.Record) error {
	if _, exists := t.get(addr); exists {
		return repositories.ErrAlreadyExists
	}
	data, err := repositories.MarshalEntity(record)
	if err != nil {
		return err
	}
	t.records[addr] = &stored{payer: payer, space: record.Space(), data: data}

	usage, _ := t.Usage(payer)
	usage.Allocated += int64(record.Space())
	usage.Records++
	t.usage[payer] = usage
	return nil
}

func (t *txn) Read(addr models.Address, dst models.Record) error {
	rec, exists := t.get(addr)
	if !exists {
		return repositories.ErrNotFound
	}
	return repositories.UnmarshalEntity(rec.data, dst)
}

func (t *txn) Write(addr models.Address, record models.Record) error {
	rec, exists := t.get(addr)
	if !exists {
		return repositories.ErrNotFound
	}
	data, err := repositories.MarshalEntity(record)
	if err != nil {
		return err
	}
	rec.data = data
	t.records[addr] = &rec
	return nil
}

func (t *txn) Delete(addr models.Address, beneficiary models.Identity) error {
	rec, exists := t.get(addr)
	if !exists {
		return repositories.ErrNotFound
	}
	t.records[addr] = nil

	usage, _ := t.Usage(rec.payer)
	usage.Allocated -= int64(rec.space)
	usage.Records--
	t.usage[rec.payer] = usage

	usage, _ = t.Usage(beneficiary)
	usage.Reclaimed += int64(rec.space)
	t.usage[beneficiary] = usage
	return nil
}

func (t *txn) Usage(id models.Identity) (repositories.Usage, error) {
	if usage, staged := t.usage[id]; staged {
		return usage, nil
	}
	return t.store.usage[id], nil
}
