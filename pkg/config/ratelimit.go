package config

import "time"

// LoginRateLimitConfig throttles login attempts per client IP.
type LoginRateLimitConfig struct {
	Enabled    bool          `env:"RATELIMIT_LOGIN_ENABLED" env-default:"true"`
	Capacity   int           `env:"RATELIMIT_LOGIN_CAPACITY" env-default:"10"`
	RefillRate float64       `env:"RATELIMIT_LOGIN_REFILL_RATE" env-default:"0.167"` // ~10 per minute
	BucketTTL  time.Duration `env:"RATELIMIT_BUCKET_TTL" env-default:"1h"`
	TrustProxy bool          `env:"RATELIMIT_TRUST_PROXY" env-default:"false"`
}

func (c LoginRateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return Validate(func() ValidationErrors {
		return CollectErrors(
			RequirePositive("ratelimit_login_capacity", c.Capacity),
			RequirePositiveFloat("ratelimit_login_refill_rate", c.RefillRate),
		)
	})
}
