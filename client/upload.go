package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/krishkalaria12/imageworld/models"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
)

// DefaultAcceptedTypes mirrors what the server accepts.
var DefaultAcceptedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}

// HEICTypes are accepted by the HEIC to JPG tool.
var HEICTypes = []string{"image/heic", "image/heif"}

type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// PrepareUpload reads path and applies the same type and plan size filter the
// server applies, so a doomed upload never leaves the machine.
func PrepareUpload(path string, accepted []string, isPro bool) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(accepted) == 0 {
		accepted = DefaultAcceptedTypes
	}

	contentType := sniff(data)
	if !containsType(accepted, contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	limit := models.FreeUploadLimitMB
	if isPro {
		limit = models.ProUploadLimitMB
	}
	if sizeMB := models.BytesToMB(int64(len(data))); sizeMB > float64(limit) {
		return nil, fmt.Errorf("%w: %.2fMB exceeds the %dMB limit", ErrFileTooLarge, sizeMB, limit)
	}

	return &Upload{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func sniff(data []byte) string {
	mtype := mimetype.Detect(data)
	base, _, _ := strings.Cut(mtype.String(), ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func containsType(types []string, t string) bool {
	for _, a := range types {
		if strings.EqualFold(a, t) {
			return true
		}
	}
	return false
}

// ReplaceExt swaps the extension of name, or appends one when there is none.
func ReplaceExt(name, ext string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + strings.TrimPrefix(ext, ".")
}
