package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be > 0 (got %d)", c.Server.RateLimit)
	}

	if c.Jobs.QueueSize <= 0 {
		return fmt.Errorf("jobs.queue_size must be > 0 (got %d)", c.Jobs.QueueSize)
	}
	if c.Jobs.Workers <= 0 {
		return fmt.Errorf("jobs.workers must be > 0 (got %d)", c.Jobs.Workers)
	}

	if c.Docs.SiteBaseURL != "" {
		u, err := url.Parse(c.Docs.SiteBaseURL)
		if err != nil {
			return fmt.Errorf("docs.site_base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("docs.site_base_url must be http(s) (got %q)", c.Docs.SiteBaseURL)
		}
	}

	return nil
}
