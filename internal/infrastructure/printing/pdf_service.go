package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// PDFPrefix is the storage prefix every generated PDF lives under
const PDFPrefix = "pdfs/"

// ErrURLRequired is returned when no page URL was given
var ErrURLRequired = errors.New("URL must be provided")

// GeneratedPDF is a stored PDF with its expiry
type GeneratedPDF struct {
	Path      string
	ExpiresAt time.Time
}

// PDFService renders pages to PDF and manages the stored files
type PDFService struct {
	renderer   Renderer
	storage    storage.Storage
	expiryDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewPDFService creates a service keeping PDFs for expiryDays
func NewPDFService(renderer Renderer, store storage.Storage, expiryDays int, logger *zap.Logger) *PDFService {
	if expiryDays <= 0 {
		expiryDays = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFService{
		renderer:   renderer,
		storage:    store,
		expiryDays: expiryDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate renders url and stores the file at pdfs/YYYY/MM/DD/<uuid>.pdf
func (s *PDFService) Generate(ctx context.Context, url string) (*GeneratedPDF, error) {
	if url == "" {
		return nil, ErrURLRequired
	}

	data, err := s.renderer.RenderURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("Failed to generate PDF from %s: %w", url, err)
	}

	key := s.storagePath(uuid.NewString() + ".pdf")
	if err := s.storage.Save(ctx, key, data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("Failed to generate PDF from %s: %w", url, err)
	}

	s.logger.Info("PDF stored", zap.String("path", key), zap.Int("bytes", len(data)))
	return &GeneratedPDF{Path: key, ExpiresAt: s.ExpiryDate()}, nil
}

func (s *PDFService) storagePath(filename string) string {
	return path.Join(PDFPrefix, s.now().Format("2006/01/02"), filename)
}

// ExpiryDate returns when a PDF created now expires
func (s *PDFService) ExpiryDate() time.Time {
	return s.now().AddDate(0, 0, s.expiryDays)
}

// IsExpired reports whether a PDF created at createdAt has expired
func (s *PDFService) IsExpired(createdAt time.Time) bool {
	return s.now().After(createdAt.AddDate(0, 0, s.expiryDays))
}

// URL returns where the stored PDF can be fetched
func (s *PDFService) URL(ctx context.Context, p string) (string, error) {
	return s.storage.URL(ctx, p)
}

// Open reads a stored PDF
func (s *PDFService) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, p)
}

// Delete removes a stored PDF and reports whether it existed
func (s *PDFService) Delete(ctx context.Context, p string) bool {
	if err := s.storage.Delete(ctx, p); err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("Failed to delete PDF", zap.String("path", p), zap.Error(err))
		}
		return false
	}
	return true
}

// CleanupExpired deletes every stored PDF past its expiry and returns the count
func (s *PDFService) CleanupExpired(ctx context.Context) (int, error) {
	objects, err := s.storage.List(ctx, PDFPrefix)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, obj := range objects {
		if path.Ext(obj.Key) != ".pdf" || !s.IsExpired(obj.ModifiedAt) {
			continue
		}
		if s.Delete(ctx, obj.Key) {
			deleted++
		}
	}
	s.logger.Info("Expired PDFs cleaned up",
		zap.Int("deleted", deleted),
		zap.Int("scanned", len(objects)),
		zap.Int("expiry_days", s.expiryDays),
	)
	return deleted, nil
}
