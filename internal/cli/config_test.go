package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/levelforge/levelforge/pkg/gen"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Generate.Width != nil {
		t.Error("missing config should leave fields unset")
	}
}

func TestLoadConfigApply(t *testing.T) {
	path := writeConfig(t, `
[generate]
width = 120
height = 40
mode = "marble"
elevation = true

[serve]
addr = ":9090"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	params := gen.DefaultParams()
	if err := cfg.Generate.apply(&params); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if params.Width != 120 || params.Height != 40 {
		t.Errorf("dimensions not applied: %dx%d", params.Width, params.Height)
	}
	if params.Mode != gen.ModeMarble {
		t.Errorf("mode not applied: %s", params.Mode)
	}
	if !params.EnableElevation {
		t.Error("elevation not applied")
	}
	// Unset fields keep defaults
	if params.Rooms != gen.DefaultRooms {
		t.Errorf("rooms should keep default, got %d", params.Rooms)
	}

	if cfg.Serve.Addr == nil || *cfg.Serve.Addr != ":9090" {
		t.Error("serve addr not loaded")
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	path := writeConfig(t, `
[generate]
mode = "spiral"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	params := gen.DefaultParams()
	if err := cfg.Generate.apply(&params); err == nil {
		t.Error("invalid mode in config should error")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `[generate`)
	if _, err := loadConfig(path); err == nil {
		t.Error("malformed config should error")
	}
}
