package checkls

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Config
	}{
		{
			name: "empty input yields defaults",
			data: "",
			want: DefaultConfig(),
		},
		{
			name: "explicit false survives default merge",
			data: `check: {buildOnSave: false}`,
			want: Config{
				LogLevel: slog.LevelInfo,
				Check: CheckConfig{
					BuildOnSave: Ptr(false),
					VetOnSave:   Ptr(true),
					LintOnSave:  LintGolint,
					Timeout:     Duration(30 * time.Second),
				},
			},
		},
		{
			name: "custom lint tool",
			data: `
logLevel: debug
check:
  lintOnSave: custom
  lintCommand: staticcheck
  lintArgs: [-f, text]
  timeout: 5s
`,
			want: Config{
				LogLevel: slog.LevelDebug,
				Check: CheckConfig{
					BuildOnSave: Ptr(true),
					VetOnSave:   Ptr(true),
					LintOnSave:  LintCustom,
					LintCommand: "staticcheck",
					LintArgs:    []string{"-f", "text"},
					Timeout:     Duration(5 * time.Second),
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(&tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown lint flavor",
			data:    `check: {lintOnSave: clippy}`,
			wantErr: "unknown flavor",
		},
		{
			name:    "custom flavor requires command",
			data:    `check: {lintOnSave: custom}`,
			wantErr: "lintCommand is required",
		},
		{
			name:    "negative timeout",
			data:    `check: {timeout: -1s}`,
			wantErr: "timeout must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyOptions(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ApplyOptions(map[string]any{
		"buildOnSave": false,
		"lintOnSave":  "none",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if OrZeroValue(cfg.Check.BuildOnSave) {
		t.Error("BuildOnSave = true, want false")
	}
	if !OrZeroValue(cfg.Check.VetOnSave) {
		t.Error("VetOnSave = false, want true (untouched)")
	}
	if cfg.Check.LintOnSave != LintNone {
		t.Errorf("LintOnSave = %q, want none", cfg.Check.LintOnSave)
	}
	if cfg.Check.Timeout != Duration(30*time.Second) {
		t.Errorf("Timeout = %v, want untouched default", cfg.Check.Timeout)
	}
}

func TestConfig_ApplyOptions_Empty(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyOptions(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultConfig()
	if diff := cmp.Diff(&want, &cfg); diff != "" {
		t.Errorf("config changed by empty options (-want +got):\n%s", diff)
	}
}

func TestConfig_ApplyOptions_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyOptions(map[string]any{"lintOnSave": "clippy"}); err == nil {
		t.Fatal("expected error for unknown flavor")
	}
}
