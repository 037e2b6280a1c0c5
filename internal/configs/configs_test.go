package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	settings, err := Load(tempDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if settings.Keys.RSABits != 2048 {
		t.Errorf("Expected default RSA bits 2048, got %d", settings.Keys.RSABits)
	}
	if settings.Raster.DPI != 150 {
		t.Errorf("Expected default DPI 150, got %d", settings.Raster.DPI)
	}
	if settings.Storage.VaultPath != filepath.Join(tempDir, "vault") {
		t.Errorf("Unexpected vault path: %s", settings.Storage.VaultPath)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	settings := Default(tempDir)
	settings.Raster.DPI = 300
	settings.Watermark.Opacity = 0.25

	if err := Save(tempDir, settings); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(tempDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Raster.DPI != 300 {
		t.Errorf("Expected DPI 300, got %d", loaded.Raster.DPI)
	}
	if loaded.Watermark.Opacity != 0.25 {
		t.Errorf("Expected opacity 0.25, got %f", loaded.Watermark.Opacity)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	partial := "[raster]\ndpi = 72\n"
	if err := os.WriteFile(filepath.Join(tempDir, "config.toml"), []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := Load(tempDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Raster.DPI != 72 {
		t.Errorf("Expected DPI 72 from file, got %d", loaded.Raster.DPI)
	}
	if loaded.Keys.RSABits != 2048 {
		t.Errorf("Expected default RSA bits to survive, got %d", loaded.Keys.RSABits)
	}
}
