package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	"blogledger/app/models"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

const defaultMaxRetries = 16

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	Path             string
	InMemory         bool
	SyncWrites       bool
	ValueLogFileSize int64
	MaxRetries       int
}

// BadgerStore implements RecordStore using BadgerDB
type BadgerStore struct {
	db         *badger.DB
	maxRetries int
}

// NewBadgerStore opens (or creates) the badger database described by opts
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("badger path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.
		WithLogger(badgerLogger{log.WithField("component", "badger")}).
		WithSyncWrites(opts.SyncWrites).
		WithNumVersionsToKeep(1)
	if opts.ValueLogFileSize > 0 {
		bopts = bopts.WithValueLogFileSize(opts.ValueLogFileSize)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", opts.Path, err)
	}
	return NewBadgerStoreWithDB(db, opts.MaxRetries), nil
}

// NewBadgerStoreWithDB wraps an already opened badger database
func NewBadgerStoreWithDB(db *badger.DB, maxRetries int) *BadgerStore {
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	return &BadgerStore{db: db, maxRetries: maxRetries}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// View runs fn in a read-only transaction
func (s *BadgerStore) View(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// Update runs fn in a read-write transaction. Badger detects concurrent
// transactions that touched the same keys and rejects the later commit with
// ErrConflict; fn is then rerun against fresh state, up to maxRetries times.
func (s *BadgerStore) Update(ctx context.Context, fn func(Txn) error) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerTxn{txn: txn})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if attempt >= s.maxRetries {
			return fmt.Errorf("%w: gave up after %d attempts", ErrConflict, attempt)
		}
		log.WithField("attempt", attempt).Debug("transaction conflict, retrying")
	}
}

// Backup writes a full backup of the store to w
func (s *BadgerStore) Backup(w io.Writer) (uint64, error) {
	return s.db.Backup(w, 0)
}

// Load restores a backup produced by Backup
func (s *BadgerStore) Load(r io.Reader) error {
	return s.db.Load(r, 16)
}

type badgerTxn struct {
	txn *badger.Txn
}

func (t *badgerTxn) Create(addr models.Address, payer models.Identity, record models.Record) error {
	key := recordKey(addr)

	// Verify address is free
	_, err := t.txn.Get(key)
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	env, err := newEnvelope(payer, record)
	if err != nil {
		return err
	}
	if err := t.setEnvelope(key, env); err != nil {
		return err
	}
	return t.adjustUsage(payer, func(u *Usage) { u.charge(env.Space) })
}

func (t *badgerTxn) Read(addr models.Address, dst models.Record) error {
	env, err := t.envelope(addr)
	if err != nil {
		return err
	}
	return UnmarshalEntity(env.Data, dst)
}

func (t *badgerTxn) Write(addr models.Address, record models.Record) error {
	env, err := t.envelope(addr)
	if err != nil {
		return err
	}

	data, err := MarshalEntity(record)
	if err != nil {
		return err
	}
	env.Data = data
	return t.setEnvelope(recordKey(addr), env)
}

func (t *badgerTxn) Delete(addr models.Address, beneficiary models.Identity) error {
	env, err := t.envelope(addr)
	if err != nil {
		return err
	}
	if err := t.txn.Delete(recordKey(addr)); err != nil {
		return err
	}

	if err := t.adjustUsage(env.Payer, func(u *Usage) { u.charge(-env.Space) }); err != nil {
		return err
	}
	return t.adjustUsage(beneficiary, func(u *Usage) { u.Reclaimed += int64(env.Space) })
}

func (t *badgerTxn) Usage(id models.Identity) (Usage, error) {
	var usage Usage
	item, err := t.txn.Get(usageKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return usage, nil
	}
	if err != nil {
		return usage, err
	}
	err = item.Value(func(val []byte) error {
		return UnmarshalEntity(val, &usage)
	})
	return usage, err
}

func (t *badgerTxn) envelope(addr models.Address) (*envelope, error) {
	item, err := t.txn.Get(recordKey(addr))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := UnmarshalEntity(val, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (t *badgerTxn) setEnvelope(key []byte, env *envelope) error {
	data, err := MarshalEntity(env)
	if err != nil {
		return err
	}
	return t.txn.Set(key, data)
}

func (t *badgerTxn) adjustUsage(id models.Identity, apply func(*Usage)) error {
	usage, err := t.Usage(id)
	if err != nil {
		return err
	}
	apply(&usage)

	data, err := MarshalEntity(&usage)
	if err != nil {
		return err
	}
	return t.txn.Set(usageKey(id), data)
}

// badgerLogger routes badger's internal logging through logrus. Badger is
// chatty at info level, so its info lines are demoted to debug.
type badgerLogger struct {
	entry *log.Entry
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.entry.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.entry.Warningf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.entry.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.entry.Tracef(format, args...) }
