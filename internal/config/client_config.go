package config

import (
	"strconv"
	"time"
)

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetRefreshPath() string
	GetProactiveRefresh() bool
	GetRefreshSkew() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(GetEnv("LABIT_REQUEST_TIMEOUT", "")); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

func (Client) GetRefreshPath() string {
	return GetEnv("LABIT_REFRESH_PATH", "/auth/token/refresh")
}

// GetProactiveRefresh enables refreshing an access token whose exp claim has passed before sending
func (Client) GetProactiveRefresh() bool {
	v, err := strconv.ParseBool(GetEnv("LABIT_PROACTIVE_REFRESH", "false"))
	return err == nil && v
}

func (Client) GetRefreshSkew() time.Duration {
	return 30 * time.Second
}
