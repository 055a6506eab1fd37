// Package imagestoretest provides a testify mock of imagestore.Store.
package imagestoretest

import (
	"context"
	"io"

	"apartments/internal/imagestore"

	"github.com/stretchr/testify/mock"
)

type Store struct {
	mock.Mock
}

var _ imagestore.Store = (*Store)(nil)

func (m *Store) Upload(ctx context.Context, file io.Reader, opts imagestore.UploadOptions) (*imagestore.UploadResult, error) {
	args := m.Called(ctx, file, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagestore.UploadResult), args.Error(1)
}

func (m *Store) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// Result is a canned upload result for publicID.
func Result(publicID string) *imagestore.UploadResult {
	return &imagestore.UploadResult{
		URL:      "https://res.cloudinary.com/demo/image/upload/" + publicID + ".jpg",
		PublicID: publicID,
		Width:    1200,
		Height:   800,
		Format:   "jpg",
		Bytes:    2048,
	}
}
