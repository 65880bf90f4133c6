package config

import (
	"strconv"
	"time"
)

type Web struct{}

var _ WebConfig = Web{}

// GetSessionTTL returns how long a browser session stays valid without a
// fresh login. Expiry here only forgets the stored tokens server-side; token
// validity itself is owned by the REST API.
func (Web) GetSessionTTL() time.Duration {
	hours, err := strconv.Atoi(GetEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (Web) GetCookieSecure() bool {
	return GetEnv("COOKIE_SECURE", "false") == "true"
}
