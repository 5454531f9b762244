package constants

// Pub/Sub providers accepted by pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// EnvDevelop is the env.env value of local development deployments.
const EnvDevelop = "develop"

// Event types published for account lifecycle changes.
const (
	EventTypeAccountRegistered = "account.registered"
)
