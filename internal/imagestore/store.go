package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPublicID = errors.New("invalid public id")

// UploadOptions describes where an uploaded image should land.
type UploadOptions struct {
	PublicID string
	Filename string
	MimeType string
}

// UploadResult is the metadata the remote host reports for a stored image.
type UploadResult struct {
	URL      string
	PublicID string
	Width    int
	Height   int
	Format   string
	Bytes    int64
}

// Store is the remote image host. Implementations never retry.
type Store interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// NewPublicID builds "apartment-<id>-<unix>-<random>".
func NewPublicID(apartmentID int64, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("apartment-%d-%d-%s", apartmentID, now.Unix(), random)
}
