package logging

import (
	"testing"

	"github.com/ogurasousui/roster-sync/internal/platform/config"
	"github.com/rs/zerolog"
)

func TestNew_ParsesLevel(t *testing.T) {
	t.Parallel()

	log := New(config.LoggingConfig{Level: "warn"})
	if log.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", log.GetLevel())
	}
}

func TestNew_FallsBackToInfo(t *testing.T) {
	t.Parallel()

	log := New(config.LoggingConfig{Level: "nonsense"})
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", log.GetLevel())
	}
}
