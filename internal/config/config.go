package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Branch           string `mapstructure:"branch"`
	Remote           string `mapstructure:"remote"`
	ManifestPath     string `mapstructure:"manifest"`
	RequireReconcile bool   `mapstructure:"require_reconcile"`
	GithubToken      string `mapstructure:"github_token"`
	GithubOwner      string `mapstructure:"github_owner"`
	GithubRepo       string `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Branch:           "main",
		Remote:           "origin",
		ManifestPath:     "pyproject.toml",
		RequireReconcile: true,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("manifest path cannot be empty")
	}
	if strings.Contains(c.ManifestPath, "..") {
		return fmt.Errorf("manifest path contains invalid path traversal")
	}
	// GitHub token is optional - only validate if provided
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
	}
	if c.GithubOwner != "" || c.GithubRepo != "" {
		if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

// ValidateForPublishing checks that the publisher credentials are present.
func (c *Config) ValidateForPublishing() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for publishing releases")
	}
	if c.GithubOwner == "" || c.GithubRepo == "" {
		return fmt.Errorf("github_owner and github_repo are required for publishing releases")
	}
	return c.Validate()
}

// ValidateGitHubToken validates GitHub token format (exported for reuse).
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names.
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".relmint")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Configure environment variables
	viper.SetEnvPrefix("RELMINT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - it checks them in order
	if err := viper.BindEnv("github_token", "GITHUB_TOKEN", "RELMINT_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := viper.BindEnv("github_owner", "GITHUB_OWNER", "RELMINT_GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := viper.BindEnv("github_repo", "GITHUB_REPO", "RELMINT_GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	if err := viper.BindEnv("branch", "RELMINT_BRANCH"); err != nil {
		return nil, fmt.Errorf("failed to bind branch env: %w", err)
	}
	if err := viper.BindEnv("remote", "RELMINT_REMOTE"); err != nil {
		return nil, fmt.Errorf("failed to bind remote env: %w", err)
	}
	if err := viper.BindEnv("manifest", "RELMINT_MANIFEST"); err != nil {
		return nil, fmt.Errorf("failed to bind manifest env: %w", err)
	}
	if err := viper.BindEnv("require_reconcile", "RELMINT_REQUIRE_RECONCILE"); err != nil {
		return nil, fmt.Errorf("failed to bind require_reconcile env: %w", err)
	}
	if err := viper.BindEnv("github_repository", "GITHUB_REPOSITORY"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repository env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	viper.SetDefault("branch", defaults.Branch)
	viper.SetDefault("remote", defaults.Remote)
	viper.SetDefault("manifest", defaults.ManifestPath)
	viper.SetDefault("require_reconcile", defaults.RequireReconcile)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Fall back to GITHUB_REPOSITORY ("owner/repo") for owner and repo,
	// matching what GitHub Actions exports.
	if config.GithubOwner == "" || config.GithubRepo == "" {
		if repoEnv := viper.GetString("github_repository"); repoEnv != "" {
			if idx := strings.Index(repoEnv, "/"); idx > 0 && idx < len(repoEnv)-1 {
				if config.GithubOwner == "" {
					config.GithubOwner = repoEnv[:idx]
				}
				if config.GithubRepo == "" {
					config.GithubRepo = repoEnv[idx+1:]
				}
			}
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
