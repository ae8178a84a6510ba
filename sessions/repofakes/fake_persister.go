package fakesessionrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/labit-client/sessions"
)

var _ sessions.Persister = (*FakePersister)(nil)

// FakePersister keeps the persisted session in memory and counts calls
type FakePersister struct {
	session *sessions.Session
	Saves   int
	Deletes int
	// Fail makes every call return an error
	Fail bool
	lock sync.RWMutex
}

func NewFakePersister() *FakePersister {
	return &FakePersister{}
}

// NewFakePersisterWith starts with an already persisted session
func NewFakePersisterWith(session sessions.Session) *FakePersister {
	return &FakePersister{session: &session}
}

func (fp *FakePersister) Load(_ context.Context) (*sessions.Session, error) {
	fp.lock.RLock()
	defer fp.lock.RUnlock()
	if fp.Fail {
		return nil, errors.New("fake persister failure")
	}
	if fp.session == nil {
		return nil, sessions.ErrSessionNotFound
	}
	s := *fp.session
	return &s, nil
}

func (fp *FakePersister) Save(_ context.Context, session sessions.Session) error {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	if fp.Fail {
		return errors.New("fake persister failure")
	}
	fp.Saves++
	fp.session = &session
	return nil
}

func (fp *FakePersister) Delete(_ context.Context) error {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	if fp.Fail {
		return errors.New("fake persister failure")
	}
	fp.Deletes++
	fp.session = nil
	return nil
}

// Persisted returns the stored session, or nil
func (fp *FakePersister) Persisted() *sessions.Session {
	fp.lock.RLock()
	defer fp.lock.RUnlock()
	if fp.session == nil {
		return nil
	}
	s := *fp.session
	return &s
}

func (fp *FakePersister) SetFail(fail bool) {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	fp.Fail = fail
}
