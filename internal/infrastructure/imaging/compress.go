package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	apperrors "trifoody/pkg/errors"
)

const ContentTypeJPEG = "image/jpeg"

// MaxPixels bounds the decoded size of an accepted image.
const MaxPixels = 40_000_000

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// DetectImageType returns the sniffed MIME type, or a BadRequest error if data is not a supported image.
func DetectImageType(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if acceptedTypes[m.String()] {
			return m.String(), nil
		}
	}
	return "", apperrors.BadRequest(fmt.Sprintf("unsupported image type %s", mtype.String()), nil)
}

// CompressJPEG re-encodes the image in r as JPEG at the given quality (1-100).
func CompressJPEG(r io.Reader, quality int) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if _, err := DetectImageType(data); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.BadRequest("image could not be decoded", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, apperrors.BadRequest(fmt.Sprintf("image dimensions %dx%d are too large", cfg.Width, cfg.Height), nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.BadRequest("image could not be decoded", err)
	}

	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Internal("failed to encode jpeg", err)
	}
	return buf.Bytes(), nil
}
