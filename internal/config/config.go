// Package config assembles the service configuration from environment
// variables (optionally a config file) via viper, exposed through small
// capability interfaces so components depend only on what they read.
package config

import "strings"

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
	GuardConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetDataFile() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type AuthConfig interface {
	// GetAccessTeamDomain names the access proxy team domain whose
	// signed assertions are verified. Empty disables verification and
	// falls back to the trusted email header.
	GetAccessTeamDomain() string
	GetAccessAudience() string

	// GetDevUserEmail is the configured fallback identity for local
	// development without an auth proxy.
	GetDevUserEmail() string

	// GetDevGitHubToken enables the dev-login endpoint.
	GetDevGitHubToken() string

	// GetDevSessionSecret signs the local identity cookie.
	GetDevSessionSecret() string
}

type GuardConfig interface {
	// GetGuardEnabled turns the rate guard off entirely, for tests.
	GetGuardEnabled() bool
}

type AllowedOrigins map[string]struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	origins := make([]string, 0, len(a))
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func ParseAllowedOrigins(raw []string) AllowedOrigins {
	origins := make(AllowedOrigins, len(raw))
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = struct{}{}
		}
	}
	return origins
}
