package keygen

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"blogledger/app/models"

	log "github.com/sirupsen/logrus"
)

// KeyFileName is the file Save writes inside a key directory
const KeyFileName = "author.json"

const identityAlphabet = "abcdefghijklmnopqrstuvwxyz234567"

const progressInterval = 1000000

// Options controls key generation
type Options struct {
	// Prefix the identity's text form must start with. Empty accepts the first key.
	Prefix  string
	Workers int
}

// Key is a generated author keypair
type Key struct {
	Identity   models.Identity
	PrivateKey ed25519.PrivateKey
	Attempts   uint64
}

// Blog returns the address the author's blog will live at
func (k *Key) Blog() models.Address {
	return models.BlogAddress(k.Identity)
}

// ValidatePrefix checks that prefix can appear in an identity's text form
func ValidatePrefix(prefix string) error {
	if len(prefix) > 52 {
		return fmt.Errorf("prefix %q is longer than an identity", prefix)
	}
	for _, r := range prefix {
		if !strings.ContainsRune(identityAlphabet, r) {
			return fmt.Errorf("prefix %q contains %q; identities use only %s", prefix, r, identityAlphabet)
		}
	}
	return nil
}

// Generate searches for an ed25519 key whose identity starts with
// opts.Prefix, using opts.Workers goroutines. It stops when a key is found or
// ctx is done.
func Generate(ctx context.Context, opts Options) (*Key, error) {
	prefix := strings.ToLower(opts.Prefix)
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var totalAttempts uint64
	resultChan := make(chan *Key, 1)
	errChan := make(chan error, 1)

	worker := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			pub, priv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				select {
				case errChan <- fmt.Errorf("failed to generate key pair: %w", err):
				default:
				}
				return
			}
			attempts := atomic.AddUint64(&totalAttempts, 1)

			id, _ := models.IdentityFromPublicKey(pub)
			if strings.HasPrefix(id.String(), prefix) {
				select {
				case resultChan <- &Key{Identity: id, PrivateKey: priv, Attempts: attempts}:
				default:
				}
				return
			}

			if attempts%progressInterval == 0 {
				log.WithField("attempts", attempts).Info("still searching")
			}
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker()
		}()
	}
	defer func() {
		cancel()
		wg.Wait()
	}()

	select {
	case key := <-resultChan:
		return key, nil
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type keyFile struct {
	Identity   models.Identity `json:"identity"`
	Blog       models.Address  `json:"blog"`
	PublicKey  string          `json:"public_key"`
	PrivateKey string          `json:"private_key"`
	Attempts   uint64          `json:"attempts"`
	Timestamp  string          `json:"timestamp"`
}

// Save writes key to <dir>/<name>/author.json, readable only by the owner,
// and returns the file path.
func Save(dir, name string, key *Key) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid key name %q", name)
	}

	keyDir := filepath.Join(dir, name)
	if err := os.MkdirAll(keyDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(keyDir, KeyFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("key file %s already exists", path)
	}

	data, err := json.MarshalIndent(keyFile{
		Identity:   key.Identity,
		Blog:       key.Blog(),
		PublicKey:  hex.EncodeToString(key.Identity[:]),
		PrivateKey: hex.EncodeToString(key.PrivateKey.Seed()),
		Attempts:   key.Attempts,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write key: %w", err)
	}
	return path, nil
}

// Load reads a key written by Save and checks it is self-consistent
func Load(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to decode key file: %w", err)
	}

	seed, err := hex.DecodeString(kf.PrivateKey)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, errors.New("key file has an invalid private key")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	id, err := models.IdentityFromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	if id != kf.Identity {
		return nil, errors.New("key file identity does not match its private key")
	}
	return &Key{Identity: id, PrivateKey: priv, Attempts: kf.Attempts}, nil
}
