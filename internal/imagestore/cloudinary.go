package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Cloudinary stores images on Cloudinary over HTTPS.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.Logger
}

func NewCloudinary(cfg CloudinaryConfig, log *zap.Logger) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	if log == nil {
		log = zap.NewNop()
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder, log: log}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       opts.PublicID,
		Folder:         c.folder,
		ResourceType:   "image",
		Overwrite:      api.Bool(false),
		Transformation: "q_auto:good",
	})
	if err != nil {
		return nil, err
	}
	if resp.Error.Message != "" {
		return nil, errors.New(resp.Error.Message)
	}

	c.log.Debug("cloudinary upload",
		zap.String("public_id", resp.PublicID),
		zap.Int("bytes", resp.Bytes),
		zap.String("format", resp.Format),
	)

	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
		Format:   resp.Format,
		Bytes:    int64(resp.Bytes),
	}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return ErrInvalidPublicID
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return err
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Result)
	}
	return nil
}
