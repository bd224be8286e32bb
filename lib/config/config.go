// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrNoToken is returned when no authentication token is configured.
var ErrNoToken = errors.New("no GitLab token configured, set GITLAB_PERSONAL_ACCESS_TOKEN or GITLAB_TOKEN")

// Config is the server configuration. All values come from GITLAB_*
// environment variables.
type Config struct {
	// Base URL of the GitLab instance, without the /api/v4 suffix.
	URL string

	// Token is the effective authentication token, picked by priority:
	// OAuth token, then personal access token, then generic token.
	Token      string
	OAuthToken string

	DefaultProjectID string
	ReadOnly         bool

	RetryCount   int
	RetryBackoff time.Duration
	Timeout      time.Duration

	DisableWiki     bool
	DisableReleases bool
	DisableGraphQL  bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("gitlab")
	v.AutomaticEnv()

	v.SetDefault("api_url", "https://gitlab.com")
	v.SetDefault("retry_count", 3)
	v.SetDefault("retry_backoff", 0.5)
	v.SetDefault("timeout", 30)

	cfg := &Config{
		URL:              strings.TrimSuffix(v.GetString("api_url"), "/api/v4"),
		OAuthToken:       v.GetString("oauth_token"),
		DefaultProjectID: v.GetString("project_id"),
		ReadOnly:         v.GetBool("read_only_mode"),
		RetryCount:       v.GetInt("retry_count"),
		RetryBackoff:     time.Duration(v.GetFloat64("retry_backoff") * float64(time.Second)),
		Timeout:          time.Duration(v.GetInt("timeout")) * time.Second,
		DisableWiki:      v.GetBool("disable_wiki"),
		DisableReleases:  v.GetBool("disable_releases"),
		DisableGraphQL:   v.GetBool("disable_graphql"),
	}

	cfg.Token = v.GetString("personal_access_token")
	if cfg.Token == "" {
		cfg.Token = v.GetString("token")
	}

	if cfg.OAuthToken != "" {
		cfg.Token = cfg.OAuthToken
	}

	if cfg.Token == "" {
		return nil, ErrNoToken
	}

	if cfg.RetryCount < 0 {
		return nil, fmt.Errorf("invalid GITLAB_RETRY_COUNT: %d", cfg.RetryCount)
	}

	return cfg, nil
}

// APIURL returns the REST endpoint for client-go.
func (c *Config) APIURL() string {
	return strings.TrimSuffix(c.URL, "/") + "/api/v4"
}
