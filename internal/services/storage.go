package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// UploadService validates uploaded résumés and reads them into memory.
type UploadService interface {
	ReadUpload(file *multipart.FileHeader) ([]byte, error)
	ReadFile(path string) ([]byte, error)
}

type uploadService struct {
	maxFileSize int64
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{maxFileSize: maxFileSize}
}

func (s *uploadService) validate(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".pdf" {
		return fmt.Errorf("%w: invalid file extension %q", ErrInvalidUpload, ext)
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return fmt.Errorf("%w: file too large, max size: %d bytes", ErrInvalidUpload, s.maxFileSize)
	}
	return nil
}

// ReadUpload implements UploadService.
func (s *uploadService) ReadUpload(file *multipart.FileHeader) ([]byte, error) {
	if err := s.validate(file.Filename, file.Size); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return data, nil
}

// ReadFile implements UploadService for résumés given as a local path.
func (s *uploadService) ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open résumé: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidUpload, path)
	}

	if err := s.validate(path, info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read résumé: %w", err)
	}

	return data, nil
}
