package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// File is an image handed in by a client, before it is stored.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PrepareQRCode validates an upload and buffers it. The declared type and size
// are checked before any byte is read; the payload must then sniff as the
// declared type, and raster images must decode.
func PrepareQRCode(file *File) (*File, error) {
	if err := ValidateQRCode(file.ContentType, file.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, MaxQRCodeSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxQRCodeSize {
		return nil, ErrTooLarge
	}

	declared := normalizeType(file.ContentType)
	if !mimetype.Detect(data).Is(declared) {
		return nil, ErrInvalidType
	}
	if declared != "image/svg+xml" {
		if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
			return nil, ErrInvalidType
		}
	}

	return &File{
		Name:        file.Name,
		ContentType: declared,
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, nil
}

// UploadQRCode validates file, stores it under the contract's key (replacing any
// previous image) and returns its public URL.
func UploadQRCode(ctx context.Context, store ObjectStore, file *File, supplierID, contractID uuid.UUID) (string, error) {
	prepared, err := PrepareQRCode(file)
	if err != nil {
		return "", err
	}
	p := QRCodePath(supplierID, contractID, prepared.Name, prepared.ContentType)
	if err := store.Upload(ctx, p, prepared.ContentType, prepared.Content); err != nil {
		return "", fmt.Errorf("upload qr code: %w", err)
	}
	return store.PublicURL(p), nil
}

// DeleteQRCode removes every stored variant of a contract's QR image.
func DeleteQRCode(ctx context.Context, store ObjectStore, supplierID, contractID uuid.UUID) error {
	return store.Delete(ctx, QRCodePaths(supplierID, contractID)...)
}
