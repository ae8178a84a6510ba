package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
}

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetLogLevel() string
	GetRedisAddr() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Client
	Session
}

// New loads any .env files found in the working directory before reading the environment.
// Missing files are not an error; variables already set in the process take precedence.
func New(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	_ = godotenv.Load(envFiles...)
	return mainConfig{}
}
