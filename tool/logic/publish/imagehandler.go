package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

var _ ImageHandler = HandleImage{}

var (
	ErrImageNotFound = errors.New("local image file not found")
	ErrImageDecode   = errors.New("error decoding local image")
)

const (
	// maxImageWidth is the widest Blogger renders content images; wider
	// inputs are downsized proportionally.
	maxImageWidth = 1600
	jpegQuality   = 85
	// largeImageBytes is the encoded size past which a warning is logged.
	// Blogger rejects requests that grow too large.
	largeImageBytes = 200 << 10
)

var (
	imgTagRegex = regexp.MustCompile(`(?i)<img\s[^>]*>`)
	// src attributes come double-quoted, single-quoted or bare
	srcAttrRegex = regexp.MustCompile(`(?i)src\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>'"]+))`)
)

type (
	ImageHandler interface {
		EmbedImages(ctx context.Context, body string, baseDir string) (string, error)
	}
	HandleImage struct {
	}
)

func NewHandleImage() *HandleImage {
	return &HandleImage{}
}

// EmbedImages replaces every local img src in body with an inline JPEG data
// URI, resolving paths against baseDir. All other attributes of the tag are
// left in place. The first failing image aborts the whole pass.
func (h HandleImage) EmbedImages(ctx context.Context, body string, baseDir string) (string, error) {
	var embedErr error
	result := imgTagRegex.ReplaceAllStringFunc(body, func(match string) string {
		if embedErr != nil {
			return match
		}
		srcMatch := srcAttrRegex.FindStringSubmatch(match)
		if srcMatch == nil {
			return match
		}
		src := srcValue(srcMatch)
		if !isLocalSource(src) {
			return match
		}

		imgPath := src
		if !filepath.IsAbs(imgPath) {
			imgPath = filepath.Join(baseDir, imgPath)
		}
		dataURI, err := h.encodeImage(imgPath)
		if err != nil {
			embedErr = err
			return match
		}
		return strings.Replace(match, srcMatch[0], `src="`+dataURI+`"`, 1)
	})
	if embedErr != nil {
		slog.Error("error embedding image", "error", embedErr)
		return "", embedErr
	}
	return result, nil
}

func (h HandleImage) encodeImage(imgPath string) (string, error) {
	img, err := imaging.Open(imgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image %s: %w", imgPath, ErrImageNotFound)
		}
		return "", fmt.Errorf("image %s: %w - %w", imgPath, err, ErrImageDecode)
	}

	width := img.Bounds().Dx()
	if width > maxImageWidth {
		// Lanczos keeps the output reproducible for identical input.
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
		slog.Info("resized image", "path", imgPath, "from", width, "to", maxImageWidth)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("image %s: %w - %w", imgPath, err, ErrImageDecode)
	}
	if buf.Len() > largeImageBytes {
		slog.Warn("encoded image is large, publish may hit request limits", "path", imgPath, "bytes", buf.Len())
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func srcValue(srcMatch []string) string {
	for _, group := range srcMatch[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

// isLocalSource checks if an img src points at the local filesystem.
func isLocalSource(src string) bool {
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return false
	}
	if strings.HasPrefix(src, "//") {
		return false
	}
	if strings.HasPrefix(src, "data:") {
		return false
	}
	if src[0] == '#' {
		return false
	}
	return true
}
