package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// MaxUploadSize is the largest file accepted for receipts and profile
// pictures. Oversized files are rejected locally, before any network call.
const MaxUploadSize = 5 * 1024 * 1024

var (
	// ErrFileTooLarge is returned when an upload exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file exceeds 5 MB limit")

	// ErrNotAnImage is returned when an upload's content is not an image.
	ErrNotAnImage = errors.New("file is not an image")
)

// Upload is an in-memory file to be sent as multipart form data.
type Upload struct {
	Filename string
	Data     []byte
}

// Validate enforces the local upload constraints: size cap and image
// content. The content check sniffs magic bytes rather than trusting a
// client-declared type.
func (u Upload) Validate() error {
	if len(u.Data) > MaxUploadSize {
		return ErrFileTooLarge
	}
	sniff := u.Data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	detected := http.DetectContentType(sniff)
	if !strings.HasPrefix(detected, "image/") {
		return fmt.Errorf("%w: detected %s", ErrNotAnImage, detected)
	}
	return nil
}

// doUpload sends the file as a multipart request with field name "file".
// Callers are expected to have validated the upload already.
func (c *Client) doUpload(ctx context.Context, op, path string, file Upload, out any) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("%s: write form: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: close form: %w", op, err)
	}

	return c.do(ctx, op, http.MethodPost, path, &body, writer.FormDataContentType(), out)
}
