package checkls

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
)

func CLI(args []string) error {
	flags := flag.NewFlagSet("checkls", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to config file (optional)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	slog.SetDefault(NewLogger(os.Stderr, cfg.LogLevel))
	return Start(context.Background(), &cfg)
}

// NewLogger builds the process logger. Logs go to w, normally stderr,
// because stdout is the LSP channel.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slogctx.NewHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil)
	return slog.New(h)
}
