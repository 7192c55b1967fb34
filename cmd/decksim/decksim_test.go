package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/tinyland/lab/deckflow/pkg/view"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cols != 5 || cfg.Rows != 3 {
		t.Errorf("expected default 5x3 grid, got %dx%d", cfg.Cols, cfg.Rows)
	}
	if cfg.Theme != "dark" || cfg.Protocol != "auto" {
		t.Errorf("unexpected defaults: theme=%q protocol=%q", cfg.Theme, cfg.Protocol)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "cols: 8\nrows: 4\ntheme: midnight\nprotocol: halfblocks\ncell_width: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cols != 8 || cfg.Rows != 4 {
		t.Errorf("expected 8x4 grid, got %dx%d", cfg.Cols, cfg.Rows)
	}
	if cfg.Theme != "midnight" {
		t.Errorf("expected theme midnight, got %q", cfg.Theme)
	}
	if cfg.CellWidth != 10 {
		t.Errorf("expected cell width 10, got %d", cfg.CellWidth)
	}
	// Unset keys keep their defaults.
	if cfg.CellHeight != 6 {
		t.Errorf("expected default cell height 6, got %d", cfg.CellHeight)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := defaultSimConfig()
	cfg.Cols = 0
	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero columns")
	}
	cfg = defaultSimConfig()
	cfg.CellHeight = -1
	if err := cfg.validate(); err == nil {
		t.Error("expected error for negative cell height")
	}
}

func TestScreenEquality(t *testing.T) {
	if !screenMain.Equal(screenMain) {
		t.Error("expected main to equal itself")
	}
	if screenMain.Equal(screenSettings) {
		t.Error("expected main and settings to differ")
	}
}

func TestMainScreenLayout(t *testing.T) {
	app := newDemoApp(5, 3)
	v, err := screenMain.View(context.Background(), app)
	if err != nil {
		t.Fatalf("build main: %v", err)
	}
	m, err := v.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantText := map[int]string{
		0:  "Lamp",
		1:  "Fan",
		2:  "Count",
		5:  "CPU 0%",
		14: "Settings",
	}
	for idx, text := range wantText {
		b, err := m.GetIndex(idx)
		if err != nil {
			t.Fatalf("cell %d: %v", idx, err)
		}
		if b.Text != text {
			t.Errorf("cell %d: expected %q, got %q", idx, text, b.Text)
		}
	}
}

func TestSettingsResetClearsCounter(t *testing.T) {
	app := newDemoApp(5, 3)
	app.press()
	app.press()

	v, err := screenSettings.View(context.Background(), app)
	if err != nil {
		t.Fatalf("build settings: %v", err)
	}

	nav := make(chan view.Entry[*demoApp], 1)
	if err := v.HandleClick(context.Background(), app, 0, nav); err != nil {
		t.Fatalf("click reset: %v", err)
	}
	if got := app.pressCount(); got != 0 {
		t.Errorf("expected counter reset, got %d", got)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	app := newDemoApp(5, 3)
	v, err := screenMain.View(context.Background(), app)
	if err != nil {
		t.Fatalf("build main: %v", err)
	}

	nav := make(chan view.Entry[*demoApp], 1)
	if err := v.HandleClick(context.Background(), app, 0, nav); err != nil {
		t.Fatalf("click lamp: %v", err)
	}
	if !app.switchOn("lamp") {
		t.Error("expected lamp on after click")
	}
	if err := v.HandleClick(context.Background(), app, 0, nav); err != nil {
		t.Fatalf("second click: %v", err)
	}
	if app.switchOn("lamp") {
		t.Error("expected lamp off after second click")
	}
}
