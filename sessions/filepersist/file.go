// Package filepersist stores the session as a JSON file, optionally sealed with ChaCha20-Poly1305.
package filepersist

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jrsteele09/labit-client/sessions"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

var _ sessions.Persister = (*Persister)(nil)

// envelope keys the session under its namespace so one file cannot be mistaken for another app's
type envelope struct {
	Namespace string            `json:"namespace"`
	Session   *sessions.Session `json:"session,omitempty"`
	Sealed    []byte            `json:"sealed,omitempty"`
}

type Persister struct {
	path      string
	namespace string
	key       []byte
}

// Option configures a Persister
type Option func(*Persister) error

// WithKey seals the session with the given 32 byte key
func WithKey(key []byte) Option {
	return func(p *Persister) error {
		if len(key) != chacha20poly1305.KeySize {
			return errors.Errorf("[filepersist WithKey] key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
		}
		p.key = key
		return nil
	}
}

// WithHexKey is WithKey for a hex encoded key, the form it takes in the environment
func WithHexKey(hexKey string) Option {
	return func(p *Persister) error {
		if hexKey == "" {
			return nil
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return errors.Wrap(err, "[filepersist WithHexKey] decode key")
		}
		return WithKey(key)(p)
	}
}

func New(path, namespace string, options ...Option) (*Persister, error) {
	if path == "" {
		return nil, errors.New("[filepersist New] path is required")
	}
	p := &Persister{path: path, namespace: namespace}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Persister) Load(_ context.Context) (*sessions.Session, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, sessions.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[filepersist Load] read")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "[filepersist Load] decode")
	}
	if env.Namespace != p.namespace {
		return nil, sessions.ErrSessionNotFound
	}

	if env.Sealed == nil {
		if env.Session == nil {
			return nil, sessions.ErrSessionNotFound
		}
		return env.Session, nil
	}

	plain, err := p.open(env.Sealed)
	if err != nil {
		return nil, err
	}
	var s sessions.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, errors.Wrap(err, "[filepersist Load] decode sealed session")
	}
	return &s, nil
}

func (p *Persister) Save(_ context.Context, session sessions.Session) error {
	env := envelope{Namespace: p.namespace}
	if p.key == nil {
		env.Session = &session
	} else {
		plain, err := json.Marshal(session)
		if err != nil {
			return errors.Wrap(err, "[filepersist Save] encode session")
		}
		if env.Sealed, err = p.seal(plain); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[filepersist Save] encode")
	}
	return p.writeAtomic(data)
}

func (p *Persister) Delete(_ context.Context) error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filepersist Delete]")
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory and renames it over the target
func (p *Persister) writeAtomic(data []byte) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[filepersist writeAtomic] create dir")
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "[filepersist writeAtomic] create temp")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[filepersist writeAtomic] write")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[filepersist writeAtomic] chmod")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[filepersist writeAtomic] close")
	}
	return errors.Wrap(os.Rename(tmp.Name(), p.path), "[filepersist writeAtomic] rename")
}

// seal prefixes the nonce to the ciphertext; the namespace is bound as additional data
func (p *Persister) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return nil, errors.Wrap(err, "[filepersist seal]")
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "[filepersist seal] nonce")
	}
	return aead.Seal(nonce, nonce, plain, []byte(p.namespace)), nil
}

func (p *Persister) open(sealed []byte) ([]byte, error) {
	if p.key == nil {
		return nil, errors.New("[filepersist open] session is sealed but no key is configured")
	}
	aead, err := chacha20poly1305.NewX(p.key)
	if err != nil {
		return nil, errors.Wrap(err, "[filepersist open]")
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("[filepersist open] sealed session too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(p.namespace))
	if err != nil {
		return nil, errors.Wrap(err, "[filepersist open] authenticate")
	}
	return plain, nil
}
