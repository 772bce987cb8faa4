package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pimedia/hdmilink/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)

	cfg, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != "bcm2711-hdmi0" {
		t.Errorf("default variant = %q", cfg.Variant)
	}
	if cfg.PreferredMode != "1920x1080@60" {
		t.Errorf("default mode = %q", cfg.PreferredMode)
	}
	if cfg.DeviceID == "" {
		t.Error("no device id generated")
	}

	// The defaults must have been written back so the ID sticks.
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("defaults not persisted: %v", err)
	}
	again, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if again.DeviceID != cfg.DeviceID {
		t.Errorf("device id changed across loads: %q then %q", cfg.DeviceID, again.DeviceID)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)

	cfg, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.PreferredMode = "1280x720@60"
	cfg.Margins = config.Margins{Top: 24, Bottom: 24}
	cfg.Audio.SpeakerAlloc = 0x0f
	cfg.ForceDVI = true

	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}
	if err := store.Flush(); err != nil {
		t.Fatal(err)
	}

	got, err := config.NewStore(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hdmilink.toml")
	if err := os.WriteFile(path, []byte("variant = [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.NewStore(dir).Load(); err == nil {
		t.Error("corrupt file did not error")
	}
}

func TestWatchSeesExternalEdit(t *testing.T) {
	dir := t.TempDir()
	store := config.NewStore(dir)
	if _, err := store.Load(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan config.Config, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.Watch(ctx, func(c config.Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to install before touching the file.
	time.Sleep(100 * time.Millisecond)
	edited := `device_id = "test-id"
variant = "bcm2835"
preferred_mode = "1280x720@60"
`
	if err := os.WriteFile(store.Path(), []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-got:
		if c.Variant != "bcm2835" || c.PreferredMode != "1280x720@60" {
			t.Errorf("reloaded config = %+v", c)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never fired")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
