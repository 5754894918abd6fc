package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/genprobe/internal/proto"
)

// supportedImageFormats maps file extensions to MIME types.
var supportedImageFormats = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

const (
	maxImageSize = 5 * 1024 * 1024
	maxImages    = 10
)

func readImages(paths []string) ([]proto.Image, error) {
	if len(paths) > maxImages {
		return nil, fmt.Errorf("too many images: maximum %d images allowed, got %d", maxImages, len(paths))
	}

	images := make([]proto.Image, 0, len(paths))
	for _, path := range paths {
		img, err := readImage(path)
		if err != nil {
			return nil, probeError{err, fmt.Sprintf("Could not attach image %s.", path)}
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(path string) (proto.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := supportedImageFormats[ext]
	if !ok {
		return proto.Image{}, fmt.Errorf("unsupported image format %q (supported: %s)", ext, supportedFormats())
	}

	info, err := os.Stat(path)
	if err != nil {
		return proto.Image{}, err //nolint:wrapcheck
	}
	if info.Size() > maxImageSize {
		return proto.Image{}, fmt.Errorf(
			"image file too large: %.2f MB > 5 MB",
			float64(info.Size())/(1024*1024), //nolint:mnd
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return proto.Image{}, err //nolint:wrapcheck
	}
	return proto.Image{
		Data:     data,
		MimeType: mimeType,
		Filename: filepath.Base(path),
	}, nil
}

func supportedFormats() string {
	formats := make([]string, 0, len(supportedImageFormats))
	for ext := range supportedImageFormats {
		formats = append(formats, ext)
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}
