package sessions

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/users"
	"github.com/pkg/errors"
)

// Store is the process-wide owner of the Session. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns a copy of the current session
	Get() Session

	// Epoch identifies the current login; it changes on Login and Clear but not on SetTokens
	Epoch() uint64

	// Login replaces the session with freshly issued credentials
	Login(session Session) error

	// SetTokens stores a refreshed token pair for the login identified by epoch, keeping the user.
	// An empty refreshToken keeps the current one. It returns ErrSessionEnded and changes nothing
	// once that login has ended.
	SetTokens(epoch uint64, accessToken, refreshToken string) error

	// SetUser replaces the cached profile of the login identified by epoch, like SetTokens
	SetUser(epoch uint64, user *users.Profile) error

	// Clear removes every credential and the persisted copy
	Clear() error
}

// Persister is durable storage for a single session, keyed under one namespace.
type Persister interface {
	// Load returns ErrSessionNotFound when nothing has been persisted
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context) error
}

// ErrSessionNotFound is returned by Persister.Load when there is no persisted session
var ErrSessionNotFound = apperrors.ErrSessionNotFound

// ErrSessionEnded is returned by conditional writes whose login has been replaced or cleared
var ErrSessionEnded = apperrors.ErrSessionEnded

const defaultPersistTimeout = 5 * time.Second

// MemoryStore serves reads from memory and writes through to an optional Persister.
// A persister failure is returned to the caller but the in-memory state has already changed,
// so the in-process contract holds even when durable storage is unavailable.
type MemoryStore struct {
	lock           sync.RWMutex
	session        Session
	epoch          uint64
	persister      Persister
	persistTimeout time.Duration
	nowTime        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// StoreOption configures a MemoryStore
type StoreOption func(*MemoryStore)

// WithPersistTimeout bounds each persister call
func WithPersistTimeout(d time.Duration) StoreOption {
	return func(s *MemoryStore) {
		s.persistTimeout = d
	}
}

// WithNowTime sets the clock used for UpdatedAt (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *MemoryStore) {
		s.nowTime = nowFunc
	}
}

// NewStore restores any persisted session. persister may be nil for a memory-only store.
func NewStore(ctx context.Context, persister Persister, options ...StoreOption) (*MemoryStore, error) {
	s := &MemoryStore{
		persister:      persister,
		persistTimeout: defaultPersistTimeout,
		nowTime:        time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	if persister == nil {
		return s, nil
	}

	restored, err := persister.Load(ctx)
	switch {
	case apperrors.Is(err, ErrSessionNotFound):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "[sessions NewStore] load persisted session")
	}
	s.session = restored.clone()
	if !s.session.IsZero() {
		s.epoch = 1
	}
	return s, nil
}

func (s *MemoryStore) Get() Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.clone()
}

func (s *MemoryStore) Epoch() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.epoch
}

func (s *MemoryStore) Login(session Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	session = session.clone()
	session.UpdatedAt = s.nowTime()
	s.session = session
	s.epoch++
	return s.save()
}

func (s *MemoryStore) SetTokens(epoch uint64, accessToken, refreshToken string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkEpoch(epoch); err != nil {
		return err
	}
	s.session.AccessToken = accessToken
	if refreshToken != "" {
		s.session.RefreshToken = refreshToken
	}
	s.session.UpdatedAt = s.nowTime()
	return s.save()
}

func (s *MemoryStore) SetUser(epoch uint64, user *users.Profile) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkEpoch(epoch); err != nil {
		return err
	}
	s.session.User = user.Clone()
	s.session.UpdatedAt = s.nowTime()
	return s.save()
}

func (s *MemoryStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.session = Session{}
	s.epoch++
	if s.persister == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.persister.Delete(ctx); err != nil {
		return errors.Wrap(err, "[sessions Clear] delete persisted session")
	}
	return nil
}

// checkEpoch must be called with the write lock held
func (s *MemoryStore) checkEpoch(epoch uint64) error {
	if s.epoch != epoch || s.session.AccessToken == "" {
		return errors.Wrapf(ErrSessionEnded, "[sessions] epoch %d is no longer current", epoch)
	}
	return nil
}

// save must be called with the write lock held so persisted writes keep memory order
func (s *MemoryStore) save() error {
	if s.persister == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, s.session.clone()); err != nil {
		return errors.Wrap(err, "[sessions save] persist session")
	}
	return nil
}
