package config

import (
	"os"
	"path/filepath"
	"time"
)

type SessionConfig interface {
	GetSessionFile() string
	GetSessionNamespace() string
	GetSessionKey() string
	GetSessionTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionFile defaults to ~/.labit/session.json
func (Session) GetSessionFile() string {
	if f := GetEnv("LABIT_SESSION_FILE", ""); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".labit", "session.json")
	}
	return filepath.Join(home, ".labit", "session.json")
}

func (Session) GetSessionNamespace() string {
	return GetEnv("LABIT_SESSION_NAMESPACE", "labit-session")
}

// GetSessionKey is a hex encoded 32 byte key; when set the persisted session is sealed
func (Session) GetSessionKey() string {
	return GetEnv("LABIT_SESSION_KEY", "")
}

func (Session) GetSessionTTL() time.Duration {
	return 14 * 24 * time.Hour
}
