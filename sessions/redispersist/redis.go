// Package redispersist shares one session between processes through a Redis key.
package redispersist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/labit-client/sessions"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Persister = (*Persister)(nil)

// Persister stores the session JSON under "<namespace>:session"
type Persister struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// New wraps an existing client; ttl of zero keeps the key until the session is cleared
func New(client redis.Cmdable, namespace string, ttl time.Duration) (*Persister, error) {
	if client == nil {
		return nil, errors.New("[redispersist New] redis client is required")
	}
	if namespace == "" {
		return nil, errors.New("[redispersist New] namespace is required")
	}
	return &Persister{client: client, key: Key(namespace), ttl: ttl}, nil
}

// Dial connects to addr and checks the connection with a PING
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "[redispersist Dial] ping %s", addr)
	}
	return client, nil
}

// Key is the Redis key a namespace's session lives under
func Key(namespace string) string {
	return namespace + ":session"
}

func (p *Persister) Load(ctx context.Context) (*sessions.Session, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sessions.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[redispersist Load]")
	}
	var s sessions.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "[redispersist Load] decode")
	}
	return &s, nil
}

func (p *Persister) Save(ctx context.Context, session sessions.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "[redispersist Save] encode")
	}
	if err := p.client.Set(ctx, p.key, data, p.ttl).Err(); err != nil {
		return errors.Wrap(err, "[redispersist Save]")
	}
	return nil
}

func (p *Persister) Delete(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key).Err(); err != nil {
		return errors.Wrap(err, "[redispersist Delete]")
	}
	return nil
}
