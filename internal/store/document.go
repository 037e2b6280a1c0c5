package store

import "time"

// Document is the metadata record for one protected document. An active
// document always has a consistent artifact triple (ciphertext, wrapped
// key, metadata) and a raster directory holding exactly PageCount pages;
// the ingestor flips Active only after all of them are durably written.
type Document struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Author      string
	Description string

	// Artifact references, relative to the vault directory.
	EncryptedFile string
	KeyFile       string
	MetadataFile  string
	RasterDir     string

	PageCount int
	FileSize  int64
	Active    bool   `gorm:"index"`
	OwnerID   string `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
