package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/pagevault/pagevault/internal/envelope"
	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/identity"
	"github.com/pagevault/pagevault/internal/keystore"
	"github.com/pagevault/pagevault/internal/store"
)

// stubRaster stands in for the fitz-backed converter so the pipeline can be
// exercised without a real PDF.
type stubRaster struct {
	pages       int
	countErr    error
	convertErr  error
	convertCall int
}

func (s *stubRaster) PageCount(data []byte) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.pages, nil
}

func (s *stubRaster) ConvertAll(ctx context.Context, data []byte, viewer identity.Identity, destDir string) ([]string, error) {
	s.convertCall++
	if s.convertErr != nil {
		return nil, s.convertErr
	}
	if err := os.MkdirAll(destDir, 0700); err != nil {
		return nil, err
	}
	var names []string
	for i := 1; i <= s.pages; i++ {
		name := fmt.Sprintf("page_%03d.jpg", i)
		if err := os.WriteFile(filepath.Join(destDir, name), []byte("jpeg"), 0600); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func newTestIngestor(t *testing.T, raster Rasterizer) (*Ingestor, store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	keys := keystore.New(filepath.Join(dir, "vault_rsa.pub"), filepath.Join(dir, "vault_rsa.pem"), 2048)
	if err := keys.Initialize(); err != nil {
		t.Fatalf("failed to initialize keystore: %v", err)
	}
	st := store.NewMemStore()
	vault := filepath.Join(dir, "vault")
	return New(st, keys, raster, vault, zap.NewNop()), st, vault
}

func uploader() identity.Identity {
	return identity.Identity{
		ID:          "user-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Tier:        identity.TierAdmin,
	}
}

func TestIngestCommitsAllArtifacts(t *testing.T) {
	ing, st, vault := newTestIngestor(t, &stubRaster{pages: 3})

	res, err := ing.Ingest(context.Background(), Options{
		Title:       "Quarterly Report",
		Author:      "Alice",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 payload"),
		Uploader:    uploader(),
	})
	if err != nil {
		t.Fatalf("failed to ingest document: %v", err)
	}

	doc := res.Document
	if !doc.Active {
		t.Error("expected committed document to be active")
	}
	if doc.PageCount != 3 {
		t.Errorf("expected 3 pages, got %d", doc.PageCount)
	}
	if doc.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %q", doc.OwnerID)
	}

	for _, name := range []string{doc.EncryptedFile, doc.KeyFile, doc.MetadataFile} {
		if _, err := os.Stat(filepath.Join(vault, name)); err != nil {
			t.Errorf("expected artifact %s to exist: %v", name, err)
		}
	}
	for i := 1; i <= 3; i++ {
		page := filepath.Join(vault, doc.RasterDir, fmt.Sprintf("page_%03d.jpg", i))
		if _, err := os.Stat(page); err != nil {
			t.Errorf("expected page image %s to exist: %v", page, err)
		}
	}

	stored, err := st.FindByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("failed to load committed document: %v", err)
	}
	if !stored.Active {
		t.Error("expected stored document to be active")
	}
}

func TestIngestWritesDecodableMetadata(t *testing.T) {
	ing, _, vault := newTestIngestor(t, &stubRaster{pages: 1})

	payload := []byte("%PDF-1.4 metadata payload")
	res, err := ing.Ingest(context.Background(), Options{
		Title:       "Doc",
		Filename:    "original.pdf",
		ContentType: "application/pdf",
		Data:        payload,
		Uploader:    uploader(),
	})
	if err != nil {
		t.Fatalf("failed to ingest document: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(vault, res.Document.MetadataFile))
	if err != nil {
		t.Fatalf("failed to read metadata artifact: %v", err)
	}
	meta, err := envelope.UnmarshalMetadata(raw)
	if err != nil {
		t.Fatalf("failed to decode metadata artifact: %v", err)
	}
	if meta.OriginalFilename != "original.pdf" {
		t.Errorf("expected original filename original.pdf, got %q", meta.OriginalFilename)
	}
	if meta.FileSize != int64(len(payload)) {
		t.Errorf("expected file size %d, got %d", len(payload), meta.FileSize)
	}
	iv, err := meta.DecodeIV()
	if err != nil {
		t.Fatalf("failed to decode IV: %v", err)
	}
	if len(iv) != envelope.IVSize {
		t.Errorf("expected %d byte IV, got %d", envelope.IVSize, len(iv))
	}
}

func TestIngestRejectsEmptyPayload(t *testing.T) {
	ing, _, _ := newTestIngestor(t, &stubRaster{pages: 1})

	_, err := ing.Ingest(context.Background(), Options{
		ContentType: "application/pdf",
		Uploader:    uploader(),
	})
	if !errors.Is(err, verrors.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestIngestRejectsWrongContentType(t *testing.T) {
	ing, _, _ := newTestIngestor(t, &stubRaster{pages: 1})

	_, err := ing.Ingest(context.Background(), Options{
		ContentType: "image/png",
		Data:        []byte("not a pdf"),
		Uploader:    uploader(),
	})
	if !errors.Is(err, verrors.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestIngestPropagatesFormatError(t *testing.T) {
	raster := &stubRaster{countErr: fmt.Errorf("%w: broken document", verrors.ErrFormat)}
	ing, _, _ := newTestIngestor(t, raster)

	_, err := ing.Ingest(context.Background(), Options{
		ContentType: "application/pdf",
		Data:        []byte("garbage"),
		Uploader:    uploader(),
	})
	if !errors.Is(err, verrors.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestIngestCleansUpOnRasterFailure(t *testing.T) {
	raster := &stubRaster{pages: 2, convertErr: errors.New("render exploded")}
	ing, st, vault := newTestIngestor(t, raster)

	_, err := ing.Ingest(context.Background(), Options{
		Title:       "Doomed",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 payload"),
		Uploader:    uploader(),
	})
	if !errors.Is(err, verrors.ErrIngest) {
		t.Fatalf("expected ErrIngest, got %v", err)
	}
	if raster.convertCall != 1 {
		t.Fatalf("expected one conversion attempt, got %d", raster.convertCall)
	}

	// Cleanup must leave nothing behind in the vault.
	entries, err := os.ReadDir(vault)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to list vault: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty vault after failed ingestion, found %d entries", len(entries))
	}

	// The record stays behind but must never be active.
	docs, err := st.ListActive(context.Background())
	if err != nil {
		t.Fatalf("failed to list active documents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no active documents after failed ingestion, found %d", len(docs))
	}
}

func TestIngestCleansUpOnCancellation(t *testing.T) {
	ing, _, vault := newTestIngestor(t, &stubRaster{pages: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Ingest(ctx, Options{
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 payload"),
		Uploader:    uploader(),
	})
	if !errors.Is(err, verrors.ErrIngest) {
		t.Fatalf("expected ErrIngest on cancelled context, got %v", err)
	}

	entries, err := os.ReadDir(vault)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to list vault: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty vault after cancelled ingestion, found %d entries", len(entries))
	}
}
