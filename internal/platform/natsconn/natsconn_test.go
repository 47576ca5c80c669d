package natsconn

import (
	"errors"
	"testing"
	"time"

	"github.com/example/anime-catalog/internal/platform/config"
)

func TestEnvInt(t *testing.T) {
	if v := envInt("NATSCONN_TEST_NONEXISTENT", 42); v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	t.Setenv("NATSCONN_TEST_INT", "7")
	if v := envInt("NATSCONN_TEST_INT", 42); v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
	t.Setenv("NATSCONN_TEST_INT", "-1")
	if v := envInt("NATSCONN_TEST_INT", 42); v != 42 {
		t.Fatalf("expected fallback for negative, got %d", v)
	}
}

func TestEnvDuration(t *testing.T) {
	if v := envDuration("NATSCONN_TEST_NONEXISTENT", 5*time.Second); v != 5*time.Second {
		t.Fatalf("expected 5s, got %s", v)
	}
	t.Setenv("NATSCONN_TEST_DUR", "3s")
	if v := envDuration("NATSCONN_TEST_DUR", 5*time.Second); v != 3*time.Second {
		t.Fatalf("expected 3s, got %s", v)
	}
	t.Setenv("NATSCONN_TEST_DUR", "soon")
	if v := envDuration("NATSCONN_TEST_DUR", 5*time.Second); v != 5*time.Second {
		t.Fatalf("expected fallback for garbage, got %s", v)
	}
}

func TestConnect_Disabled(t *testing.T) {
	opts := OptionsFrom(config.AppConfig{AppName: "anicat"}, nil)
	if _, err := Connect(opts); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19999",
		MaxReconnects: 1,
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error connecting to unreachable NATS server")
	}
}
