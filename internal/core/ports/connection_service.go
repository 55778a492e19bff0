package ports

import "context"

type ConnectionService interface {
	// TestConnection pings an instance with the supplied credentials.
	TestConnection(ctx context.Context, url, username, password string) error
	// ProxyCredentials lists upstream credentials using the stored tower config.
	ProxyCredentials(ctx context.Context) ([]map[string]any, error)
}
