package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "glpat-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.URL != "https://gitlab.com" {
		t.Errorf("URL = %q, want default gitlab.com", cfg.URL)
	}

	if cfg.Token != "glpat-test" {
		t.Errorf("Token = %q, want the personal access token", cfg.Token)
	}

	if cfg.RetryCount != 3 {
		t.Errorf("RetryCount = %d, want 3", cfg.RetryCount)
	}

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}

	if cfg.ReadOnly || cfg.DisableWiki || cfg.DisableReleases || cfg.DisableGraphQL {
		t.Error("feature toggles enabled by default")
	}
}

func TestLoadNoToken(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "")
	t.Setenv("GITLAB_TOKEN", "")
	t.Setenv("GITLAB_OAUTH_TOKEN", "")

	if _, err := Load(); !errors.Is(err, ErrNoToken) {
		t.Errorf("Load() = %v, want ErrNoToken", err)
	}
}

func TestLoadTokenPriority(t *testing.T) {
	t.Setenv("GITLAB_TOKEN", "generic")
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "personal")
	t.Setenv("GITLAB_OAUTH_TOKEN", "oauth")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Token != "oauth" {
		t.Errorf("Token = %q, want the OAuth token to win", cfg.Token)
	}
}

func TestLoadGenericTokenFallback(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "")
	t.Setenv("GITLAB_OAUTH_TOKEN", "")
	t.Setenv("GITLAB_TOKEN", "generic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Token != "generic" {
		t.Errorf("Token = %q, want the generic token fallback", cfg.Token)
	}
}

func TestLoadURLNormalization(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "glpat-test")
	t.Setenv("GITLAB_API_URL", "https://gitlab.example.com/api/v4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.URL != "https://gitlab.example.com" {
		t.Errorf("URL = %q, want the /api/v4 suffix stripped", cfg.URL)
	}

	if got, want := cfg.APIURL(), "https://gitlab.example.com/api/v4"; got != want {
		t.Errorf("APIURL() = %q, want %q", got, want)
	}
}

func TestLoadToggles(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "glpat-test")
	t.Setenv("GITLAB_READ_ONLY_MODE", "true")
	t.Setenv("GITLAB_DISABLE_WIKI", "true")
	t.Setenv("GITLAB_RETRY_COUNT", "5")
	t.Setenv("GITLAB_RETRY_BACKOFF", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if !cfg.ReadOnly || !cfg.DisableWiki {
		t.Errorf("toggles = %+v, want read-only and wiki disabled", cfg)
	}

	if cfg.RetryCount != 5 {
		t.Errorf("RetryCount = %d, want 5", cfg.RetryCount)
	}

	if cfg.RetryBackoff != 1500*time.Millisecond {
		t.Errorf("RetryBackoff = %v, want 1.5s", cfg.RetryBackoff)
	}
}

func TestLoadInvalidRetryCount(t *testing.T) {
	t.Setenv("GITLAB_PERSONAL_ACCESS_TOKEN", "glpat-test")
	t.Setenv("GITLAB_RETRY_COUNT", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil, want error for negative retry count")
	}
}
