package config

import "time"

type Config interface {
	EnvConfig
	WebConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAPIBaseURL() string
	GetEnv() string
}

type WebConfig interface {
	GetSessionTTL() time.Duration
	GetCookieSecure() bool
}

type mainConfig struct {
	EnvVars
	Web
}

func New() Config {
	return mainConfig{}
}
