// Package userdb is the relay's account database: usernames and bcrypt
// password hashes kept in a bbolt file.
package userdb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"cipherchat/internal/domain"
)

// MaxUsernameSize is the longest username in bytes.
const MaxUsernameSize = 64

const (
	metadataBucket = "metadata"
	usersBucket    = "users"
	versionKey     = "version"
	schemaVersion  = 0
)

var (
	// ErrNoSuchUser is returned when an operation names an unknown user.
	ErrNoSuchUser = errors.New("userdb: no such user")

	// ErrUserExists is returned when adding a user that is already present.
	ErrUserExists = errors.New("userdb: user already exists")

	// ErrInvalidUsername is returned for names that cannot be used on the wire.
	ErrInvalidUsername = errors.New("userdb: invalid username")

	// ErrInUse is returned by Open when another process, usually a running
	// relay, holds the database lock.
	ErrInUse = errors.New("userdb: database in use by a running relay")
)

// DefaultLockTimeout is how long Open waits for the file lock.
const DefaultLockTimeout = time.Second

// Option configures a DB.
type Option func(*DB)

// WithBcryptCost sets the cost for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(d *DB) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			d.cost = cost
		}
	}
}

// WithLockTimeout sets how long Open waits for another holder of the file
// to let go.
func WithLockTimeout(d time.Duration) Option {
	return func(db *DB) {
		if d > 0 {
			db.lockTimeout = d
		}
	}
}

// DB implements domain.UserStore on top of bbolt.
type DB struct {
	sync.RWMutex

	db          *bolt.DB
	userCache   map[domain.Username]bool
	cost        int
	lockTimeout time.Duration

	// dummyHash is compared on a miss so unknown users cost a bcrypt run too.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

// Open creates (or loads) the user database in file f.
func Open(f string, opts ...Option) (*DB, error) {
	d := &DB{
		userCache:   make(map[domain.Username]bool),
		cost:        bcrypt.DefaultCost,
		lockTimeout: DefaultLockTimeout,
		compare:     bcrypt.CompareHashAndPassword,
	}
	for _, opt := range opts {
		opt(d)
	}

	var err error
	if d.dummyHash, err = bcrypt.GenerateFromPassword([]byte("cipherchat"), d.cost); err != nil {
		return nil, fmt.Errorf("userdb: hash password: %w", err)
	}

	d.db, err = bolt.Open(f, 0o600, &bolt.Options{Timeout: d.lockTimeout})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrInUse, f)
	}
	if err != nil {
		return nil, err
	}

	if err = d.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return err
		}
		uBkt, err := tx.CreateBucketIfNotExists([]byte(usersBucket))
		if err != nil {
			return err
		}

		if b := bkt.Get([]byte(versionKey)); b != nil {
			if len(b) != 1 || b[0] != schemaVersion {
				return fmt.Errorf("userdb: incompatible version: %v", b)
			}
			return uBkt.ForEach(func(k, _ []byte) error {
				d.userCache[domain.Username(k)] = true
				return nil
			})
		}

		return bkt.Put([]byte(versionKey), []byte{schemaVersion})
	}); err != nil {
		d.db.Close()
		return nil, err
	}

	return d, nil
}

// ValidUsername reports whether u can be registered: non-empty, at most
// MaxUsernameSize bytes, free of the field separator and line breaks, and not
// the reserved administrator name.
func ValidUsername(u domain.Username) bool {
	s := u.String()
	return len(s) > 0 && len(s) <= MaxUsernameSize &&
		!strings.ContainsAny(s, domain.FieldSeparator+"\r\n") &&
		u != domain.AdministratorName
}

// Exists reports whether u has an account.
func (d *DB) Exists(u domain.Username) bool {
	d.RLock()
	defer d.RUnlock()
	return d.userCache[u]
}

// Add stores a new password hash for u. With update set, u must already
// exist; without it, u must not.
func (d *DB) Add(u domain.Username, password string, update bool) error {
	if !ValidUsername(u) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, u)
	}
	switch d.Exists(u) {
	case true:
		if !update {
			return ErrUserExists
		}
	case false:
		if update {
			return ErrNoSuchUser
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return fmt.Errorf("userdb: hash password: %w", err)
	}

	err = d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(usersBucket)).Put([]byte(u), hash)
	})
	if err == nil {
		d.Lock()
		defer d.Unlock()
		d.userCache[u] = true
	}
	return err
}

// Remove deletes u's account.
func (d *DB) Remove(u domain.Username) error {
	err := d.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(usersBucket))
		if ent := bkt.Get([]byte(u)); ent == nil {
			return ErrNoSuchUser
		}
		return bkt.Delete([]byte(u))
	})
	if err == nil {
		d.Lock()
		defer d.Unlock()
		delete(d.userCache, u)
	}
	return err
}

// List returns every username in lexical order.
func (d *DB) List() []domain.Username {
	d.RLock()
	defer d.RUnlock()

	out := make([]domain.Username, 0, len(d.userCache))
	for u := range d.userCache {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Verify reports whether password matches u's stored hash. Any lookup
// failure yields false, after the same bcrypt work as a real check.
func (d *DB) Verify(u domain.Username, password string) bool {
	var hash []byte
	if err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(usersBucket)).Get([]byte(u))
		if v == nil {
			return ErrNoSuchUser
		}
		hash = append([]byte(nil), v...)
		return nil
	}); err != nil {
		_ = d.compare(d.dummyHash, []byte(password))
		return false
	}
	return d.compare(hash, []byte(password)) == nil
}

// Close flushes and closes the database file.
func (d *DB) Close() error {
	if err := d.db.Sync(); err != nil {
		d.db.Close()
		return err
	}
	return d.db.Close()
}

var _ domain.UserStore = (*DB)(nil)
