package image

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"apartments/internal/pkg/validator"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 2 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type UploadInput struct {
	Header    *multipart.FileHeader
	IsPrimary bool
}

// ParseBool accepts the usual form encodings of true.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// sniff opens the file and checks size and content type.
// On success the returned file is rewound to the start.
func sniff(h *multipart.FileHeader) (multipart.File, string, error) {
	if h == nil || h.Size == 0 {
		return nil, "", validator.Single("image", MsgImageRequired)
	}
	if h.Size > MaxUploadSize {
		return nil, "", validator.Single("image", MsgImageTooLarge)
	}

	file, err := h.Open()
	if err != nil {
		return nil, "", err
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		_ = file.Close()
		return nil, "", err
	}
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !allowedMimeTypes[mimeType] {
		_ = file.Close()
		return nil, "", validator.Single("image", MsgImageType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, "", err
	}
	return file, mimeType, nil
}
