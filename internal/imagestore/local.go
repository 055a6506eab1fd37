package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const (
	DefaultUploadsDir = "./uploads"
	DefaultURLBase    = "/static/uploads"
)

// Local keeps images on disk under YYYY/MM/DD and serves them as static files.
// The public id of a stored image is its path relative to the base directory.
type Local struct {
	baseDir string
	urlBase string
	now     func() time.Time
	log     *zap.Logger
}

func NewLocal(baseDir, urlBase string, log *zap.Logger) (*Local, error) {
	if baseDir == "" {
		baseDir = DefaultUploadsDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{
		baseDir: abs,
		urlBase: strings.TrimRight(urlBase, "/"),
		now:     time.Now,
		log:     log,
	}, nil
}

func (l *Local) BaseDir() string { return l.baseDir }

func (l *Local) URLBase() string { return l.urlBase }

func (l *Local) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	now := l.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(l.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := sanitizeName(opts.PublicID)
	if name == "" {
		name = sanitizeName(strings.TrimSuffix(filepath.Base(opts.Filename), filepath.Ext(opts.Filename)))
	}
	if name == "" {
		name = "image"
	}
	filename := name + extFor(format, opts.MimeType)

	absPath := filepath.Join(absDir, filename)
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	relPath := relDir + "/" + filename
	l.log.Debug("stored image on disk", zap.String("path", relPath), zap.Int("bytes", len(data)))

	return &UploadResult{
		URL:      l.urlBase + "/" + relPath,
		PublicID: relPath,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   format,
		Bytes:    int64(len(data)),
	}, nil
}

func (l *Local) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	absPath, err := l.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a public id to a path inside the base directory.
func (l *Local) resolve(publicID string) (string, error) {
	if publicID == "" || strings.Contains(publicID, "\\") {
		return "", ErrInvalidPublicID
	}
	cleaned := filepath.Clean(filepath.FromSlash(publicID))
	if filepath.IsAbs(cleaned) || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidPublicID
	}
	abs := filepath.Join(l.baseDir, cleaned)
	if !strings.HasPrefix(abs, l.baseDir+string(filepath.Separator)) {
		return "", ErrInvalidPublicID
	}
	return abs, nil
}

func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 80 {
		name = name[:80]
	}
	return name
}

func extFor(format, mime string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "webp":
		return ".webp"
	}
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}

// StaticHandler serves the stored files.
func (l *Local) StaticHandler() http.Handler {
	return http.StripPrefix(l.urlBase, http.FileServer(http.Dir(l.baseDir)))
}
