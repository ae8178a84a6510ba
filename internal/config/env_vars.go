package config

import (
	"os"
	"strings"
)

const (
	apiURLEnvVar   = "LABIT_API_URL"
	appNameVar     = "APP_NAME"
	logLevelEnvVar = "LOG_LEVEL"
	redisAddrVar   = "REDIS_ADDR"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetAPIBaseURL returns the LABit REST API root (e.g. "https://labit.kr/api"), without a trailing slash
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLEnvVar, "http://localhost:8080/api"), "/")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "LABit")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

// GetRedisAddr is empty unless sessions should be shared through Redis
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
