package ports

import "context"

// SecretStore holds credentials, keyed by name. The gateway API key lives
// here when it is not provided via configuration.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
