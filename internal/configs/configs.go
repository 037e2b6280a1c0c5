package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds every path and tunable the pipeline needs. Loaded from
// config.toml inside the vault directory; missing fields get defaults.
type Settings struct {
	Storage   StorageSettings   `toml:"storage"`
	Keys      KeySettings       `toml:"keys"`
	Raster    RasterSettings    `toml:"raster"`
	Watermark WatermarkSettings `toml:"watermark"`
}

type StorageSettings struct {
	// VaultPath is the directory holding all per-document artifacts.
	VaultPath string `toml:"vault_path"`

	// DatabaseFile is the sqlite file holding document metadata records.
	DatabaseFile string `toml:"database_file"`

	// AuditFile is the append-only JSON Lines access log.
	AuditFile string `toml:"audit_file"`
}

type KeySettings struct {
	// PublicKeyFile and PrivateKeyFile are the PEM halves of the
	// process keypair, generated once and reused across restarts.
	PublicKeyFile  string `toml:"public_key_file"`
	PrivateKeyFile string `toml:"private_key_file"`

	// RSABits is the keypair size used when generating a new pair.
	RSABits int `toml:"rsa_bits"`
}

type RasterSettings struct {
	// DPI is the page render resolution.
	DPI int `toml:"dpi"`

	// JPEGQuality is the encoder quality for page images.
	JPEGQuality int `toml:"jpeg_quality"`
}

type WatermarkSettings struct {
	// FontSize is the point size of the primary watermark label.
	FontSize float64 `toml:"font_size"`

	// Opacity is the alpha of the primary label, 0..1. The secondary and
	// center labels derive their lower opacities from it.
	Opacity float64 `toml:"opacity"`
}

// Default returns settings rooted at the given base directory.
func Default(baseDir string) *Settings {
	s := &Settings{}
	s.Storage.VaultPath = filepath.Join(baseDir, "vault")
	s.Storage.DatabaseFile = filepath.Join(baseDir, "pagevault.db")
	s.Storage.AuditFile = filepath.Join(baseDir, "audit.jsonl")
	s.Keys.PublicKeyFile = filepath.Join(baseDir, "keys", "vault_rsa.pub")
	s.Keys.PrivateKeyFile = filepath.Join(baseDir, "keys", "vault_rsa.pem")
	s.Keys.RSABits = 2048
	s.Raster.DPI = 150
	s.Raster.JPEGQuality = 85
	s.Watermark.FontSize = 14
	s.Watermark.Opacity = 0.4
	return s
}

// Load reads config.toml under baseDir, filling in defaults for any field
// the file leaves unset. A missing file yields pure defaults.
func Load(baseDir string) (*Settings, error) {
	configPath := filepath.Join(baseDir, "config.toml")

	settings := Default(baseDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return settings, nil
	}

	loaded := &Settings{}
	if err := LoadTOML(configPath, loaded); err != nil {
		return nil, fmt.Errorf("failed to load vault config: %w", err)
	}
	settings.merge(loaded)

	return settings, nil
}

// Save writes the settings to config.toml under baseDir.
func Save(baseDir string, settings *Settings) error {
	configPath := filepath.Join(baseDir, "config.toml")

	if err := SaveTOML(configPath, settings); err != nil {
		return fmt.Errorf("failed to save vault config: %w", err)
	}

	return nil
}

func (s *Settings) merge(o *Settings) {
	if o.Storage.VaultPath != "" {
		s.Storage.VaultPath = o.Storage.VaultPath
	}
	if o.Storage.DatabaseFile != "" {
		s.Storage.DatabaseFile = o.Storage.DatabaseFile
	}
	if o.Storage.AuditFile != "" {
		s.Storage.AuditFile = o.Storage.AuditFile
	}
	if o.Keys.PublicKeyFile != "" {
		s.Keys.PublicKeyFile = o.Keys.PublicKeyFile
	}
	if o.Keys.PrivateKeyFile != "" {
		s.Keys.PrivateKeyFile = o.Keys.PrivateKeyFile
	}
	if o.Keys.RSABits != 0 {
		s.Keys.RSABits = o.Keys.RSABits
	}
	if o.Raster.DPI != 0 {
		s.Raster.DPI = o.Raster.DPI
	}
	if o.Raster.JPEGQuality != 0 {
		s.Raster.JPEGQuality = o.Raster.JPEGQuality
	}
	if o.Watermark.FontSize != 0 {
		s.Watermark.FontSize = o.Watermark.FontSize
	}
	if o.Watermark.Opacity != 0 {
		s.Watermark.Opacity = o.Watermark.Opacity
	}
}
