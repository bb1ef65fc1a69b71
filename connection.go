package checkls

import "context"

// Notifier is the outbound half of a jsonrpc2 connection. The publisher
// depends on it instead of *jsonrpc2.Connection so tests can capture
// notifications.
type Notifier interface {
	// see [golang.org/x/exp/jsonrpc2.Connection.Notify]
	Notify(ctx context.Context, method string, params any) error
}
