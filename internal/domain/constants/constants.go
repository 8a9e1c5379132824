// Package constants holds shared domain-level constants.
package constants

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider identifiers used in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage driver identifiers used in configuration.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)
