package checkls

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/exp/jsonrpc2"
)

// Start serves the check language server on stdin/stdout until the editor
// disconnects.
func Start(ctx context.Context, cfg *Config) error {
	pipe, err := NewIOPipeListener(ctx, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer pipe.Close()

	handler := NewHandler(cfg)
	binder := NewMiddlewareBinder(NewBinder(handler), ContextLogMiddleware("checkls"))
	conn, err := jsonrpc2.Dial(ctx, pipe.Dialer(), binder)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.InfoContext(ctx, "checkls started")

	conn.Wait()
	return nil
}
