package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

var formatExt = map[imaging.Format]string{
	imaging.JPEG: ".jpg",
	imaging.PNG:  ".png",
	imaging.GIF:  ".gif",
}

type ImageProcessor struct {
	MaxSize int // pixel bound for both width and height
}

func NewImageProcessor(maxSize int) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 512
	}
	return &ImageProcessor{MaxSize: maxSize}
}

// Processed is an image ready for storage.
type Processed struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Process sniffs the content, shrinks the image to fit MaxSize and re-encodes
// it in its original format. The filename's extension is corrected to match.
func (p *ImageProcessor) Process(data []byte, filename string) (*Processed, error) {
	mt := mimetype.Detect(data)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]

	format, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	resized := imaging.Fit(img, p.MaxSize, p.MaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return &Processed{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Filename:    base + formatExt[format],
	}, nil
}
