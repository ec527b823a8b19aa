package config

import "strings"

// Environments
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// NormalizeEnvironment lowercases env and defaults an empty value to
// development.
func NormalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		return EnvDevelopment
	}
	return env
}

// IsProductionLike reports whether env requires hardened settings.
func IsProductionLike(env string) bool {
	switch NormalizeEnvironment(env) {
	case EnvStaging, EnvProduction:
		return true
	}
	return false
}

// IsDevelopment reports whether the server runs with development defaults.
func (c ServerConfig) IsDevelopment() bool {
	return NormalizeEnvironment(c.Environment) == EnvDevelopment
}
