package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired sets the two mandatory variables so a test can focus on the
// knob under scrutiny.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPERATOR_ID", "9000")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DBPath != "bot.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.PollTimeout != 30 {
		t.Errorf("PollTimeout = %d", cfg.PollTimeout)
	}
	if cfg.PageSize != 5 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if !cfg.EnforceTerminalStatuses || !cfg.EnforceReviewOwnership {
		t.Error("lifecycle guards should default on")
	}
	if cfg.WarnOnFlowAbandon {
		t.Error("abandon warning should default off")
	}
	if cfg.BroadcastRPS != 25.0 || cfg.BroadcastBurst != 5 {
		t.Errorf("broadcast limits = %v/%d", cfg.BroadcastRPS, cfg.BroadcastBurst)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Errorf("logging = %q pretty=%v", cfg.LogLevel, cfg.LogPretty)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL should default off")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("ENFORCE_TERMINAL_STATUSES", "off")
	t.Setenv("WARN_ON_FLOW_ABANDON", "yes")
	t.Setenv("GIN_MODE", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, warning not normalized", cfg.LogLevel)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.EnforceTerminalStatuses {
		t.Error("terminal guard not disabled")
	}
	if !cfg.WarnOnFlowAbandon {
		t.Error("abandon warning not enabled")
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, bogus not normalized", cfg.GinMode)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(t *testing.T)
		wantSub string
	}{
		{"missing token", func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "")
			t.Setenv("OPERATOR_ID", "9000")
		}, "BOT_TOKEN"},
		{"missing operator", func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv("OPERATOR_ID", "")
		}, "OPERATOR_ID"},
		{"bad log level", func(t *testing.T) {
			setRequired(t)
			t.Setenv("LOG_LEVEL", "loud")
		}, "LOG_LEVEL"},
		{"zero page size", func(t *testing.T) {
			setRequired(t)
			t.Setenv("PAGE_SIZE", "0")
		}, "PAGE_SIZE"},
		{"zero broadcast rps", func(t *testing.T) {
			setRequired(t)
			t.Setenv("BROADCAST_RPS", "0")
		}, "BROADCAST_RPS"},
		{"bad sample ratio", func(t *testing.T) {
			setRequired(t)
			t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.prepare(t)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("err = %v, want mention of %s", err, tc.wantSub)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	// force the required variables empty regardless of the host env
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPERATOR_ID", "")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad did not panic")
		}
	}()
	MustLoad()
}
