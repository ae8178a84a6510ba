package filepersist_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/labit-client/sessions"
	"github.com/jrsteele09/labit-client/sessions/filepersist"
	"github.com/jrsteele09/labit-client/users"
	"github.com/stretchr/testify/require"
)

var testSession = sessions.Session{
	AccessToken:  "T1",
	RefreshToken: "R1",
	User:         &users.Profile{ID: 9, Nickname: "labit", Role: users.RoleAdmin},
}

func TestPersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	p, err := filepersist.New(path, "labit-session")
	require.NoError(t, err)

	_, err = p.Load(ctx)
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)

	require.NoError(t, p.Save(ctx, testSession))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "T1", got.AccessToken)
	require.Equal(t, users.RoleAdmin, got.User.Role)

	require.NoError(t, p.Delete(ctx))
	_, err = p.Load(ctx)
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)

	// Deleting twice is fine
	require.NoError(t, p.Delete(ctx))
}

func TestPersister_OtherNamespaceIsNotFound(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	a, err := filepersist.New(path, "app-a")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, testSession))

	b, err := filepersist.New(path, "app-b")
	require.NoError(t, err)
	_, err = b.Load(ctx)
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestPersister_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	key := bytes.Repeat([]byte{7}, 32)

	p, err := filepersist.New(path, "labit-session", filepersist.WithKey(key))
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, testSession))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "R1")

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "R1", got.RefreshToken)

	t.Run("wrong key", func(t *testing.T) {
		other, err := filepersist.New(path, "labit-session", filepersist.WithKey(bytes.Repeat([]byte{8}, 32)))
		require.NoError(t, err)
		_, err = other.Load(ctx)
		require.Error(t, err)
	})

	t.Run("no key", func(t *testing.T) {
		plain, err := filepersist.New(path, "labit-session")
		require.NoError(t, err)
		_, err = plain.Load(ctx)
		require.Error(t, err)
	})
}

func TestPersister_Options(t *testing.T) {
	_, err := filepersist.New("", "ns")
	require.Error(t, err)

	_, err = filepersist.New("x.json", "ns", filepersist.WithKey([]byte("short")))
	require.Error(t, err)

	_, err = filepersist.New("x.json", "ns", filepersist.WithHexKey("zz"))
	require.Error(t, err)

	_, err = filepersist.New("x.json", "ns", filepersist.WithHexKey(""))
	require.NoError(t, err)

	_, err = filepersist.New("x.json", "ns", filepersist.WithHexKey("0707070707070707070707070707070707070707070707070707070707070707"))
	require.NoError(t, err)
}

func TestPersister_BacksMemoryStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	p, err := filepersist.New(path, "labit-session")
	require.NoError(t, err)

	s, err := sessions.NewStore(ctx, p)
	require.NoError(t, err)
	require.NoError(t, s.Login(testSession))

	reloaded, err := sessions.NewStore(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "T1", reloaded.Get().AccessToken)

	require.NoError(t, reloaded.Clear())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
