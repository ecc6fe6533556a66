package config

import "time"

// Rate limit configuration for the public API
type RateLimitConfig struct {
	RequestsPerMinute int           // Sustained number of requests allowed per client
	Burst             int           // Burst capacity on top of the sustained rate
	VisitorTTL        time.Duration // Idle time after which a client's limiter is forgotten
}

var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerMinute: 600,
	Burst:             100,
	VisitorTTL:        10 * time.Minute,
}

// Stricter limits applied to login and registration
var AuthRateLimitConfig = RateLimitConfig{
	RequestsPerMinute: 10,
	Burst:             5,
	VisitorTTL:        30 * time.Minute,
}
