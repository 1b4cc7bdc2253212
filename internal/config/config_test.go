package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadSSHDefaults(t *testing.T) {
	ssh, game, err := LoadSSH()
	if err != nil {
		t.Fatal(err)
	}
	if ssh.Host != "::" || ssh.Port != "2222" || ssh.ShutdownGrace != 15*time.Second {
		t.Fatalf("unexpected SSH defaults: %+v", ssh)
	}
	if !game.Audio || game.LogLevel != "info" {
		t.Fatalf("unexpected game defaults: %+v", game)
	}
}

func TestLoadSSHFromEnv(t *testing.T) {
	t.Setenv("SSH_PORT", "2323")
	t.Setenv("SSH_SHUTDOWN_GRACE", "3s")
	t.Setenv("SKYFALL_AUDIO", "false")

	ssh, game, err := LoadSSH()
	if err != nil {
		t.Fatal(err)
	}
	if ssh.Port != "2323" || ssh.ShutdownGrace != 3*time.Second {
		t.Fatalf("env not applied: %+v", ssh)
	}
	if game.Audio {
		t.Fatal("SKYFALL_AUDIO=false not applied")
	}
}

func TestLoadWeb(t *testing.T) {
	t.Setenv("SSH_DISPLAY_HOST", "play.example.com")
	web, err := LoadWeb()
	if err != nil {
		t.Fatal(err)
	}
	if web.DisplayHost != "play.example.com" || web.Port != "8080" {
		t.Fatalf("unexpected web config: %+v", web)
	}
}

func TestParseInvalidValue(t *testing.T) {
	t.Setenv("SKYFALL_VOLUME", "loud")
	if _, err := LoadGame(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("err = %v, want wrapped parse error", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "test")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "key", 1)
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("log output = %q", buf.String())
	}

	if _, err := NewLogger(&buf, "chatty", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOpenLogFile(t *testing.T) {
	w, err := OpenLogFile("")
	if err != nil {
		t.Fatal(err)
	}
	w.Close()

	path := filepath.Join(t.TempDir(), "game.log")
	w, err = OpenLogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	w.Close()
}

func TestGameLoadPolicy(t *testing.T) {
	p, err := Game{}.LoadPolicy()
	if err != nil || p != nil {
		t.Fatalf("no tuning file: got %v, %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("base_damage: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = Game{TuningFile: path}.LoadPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if p.BaseDamage != 4 {
		t.Fatalf("BaseDamage = %d, want 4", p.BaseDamage)
	}

	if _, err := (Game{TuningFile: filepath.Join(t.TempDir(), "missing.yaml")}).LoadPolicy(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
