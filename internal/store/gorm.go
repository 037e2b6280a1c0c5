package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	verrors "github.com/pagevault/pagevault/internal/errors"
)

// GormStore is the sqlite-backed Store used by the CLI.
type GormStore struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and runs migrations.
func Open(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata database: %w", err)
	}

	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (s *GormStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database handle: %w", err)
	}
	return db.Close()
}

func (s *GormStore) Create(ctx context.Context, doc *Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document record: %w", err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, doc *Document) error {
	doc.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("failed to update document record: %w", err)
	}
	return nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, verrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

func (s *GormStore) FindActive(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "id = ? AND active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, verrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

func (s *GormStore) ListActive(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *GormStore) Deactivate(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return verrors.ErrNotFound
	}
	return nil
}
