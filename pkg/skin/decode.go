package skin

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrSheetTooSmall is returned when a decoded image cannot contain the head
// regions of the canonical layout.
var ErrSheetTooSmall = errors.New("skin: sheet too small for head layout")

// Decode reads a skin sheet and returns it with the detected format name.
// Images too small for the head layout are rejected.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := DecodeImage(r)
	if err != nil {
		return nil, format, err
	}
	if err := CheckSheet(img); err != nil {
		return nil, format, err
	}
	return img, format, nil
}

// DecodeImage decodes any supported image without checking its size.
//
// The format is chosen from the leading magic bytes; data with no known
// signature is treated as TGA, which has none.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading image: %w", err)
	}

	format := sniff(data)
	var img image.Image
	rd := bytes.NewReader(data)
	switch format {
	case "png":
		img, err = png.Decode(rd)
	case "jpeg":
		img, err = jpeg.Decode(rd)
	case "gif":
		img, err = gif.Decode(rd)
	case "bmp":
		img, err = bmp.Decode(rd)
	case "webp":
		img, err = webp.Decode(rd)
	default:
		img, err = tga.Decode(rd)
	}
	if err != nil {
		return nil, format, fmt.Errorf("decoding %s image: %w", format, err)
	}
	return img, format, nil
}

// CheckSheet verifies that every HeadLayout region lies inside img.
func CheckSheet(img image.Image) error {
	b := img.Bounds()
	if b.Dx() < minSheetWidth || b.Dy() < minSheetHeight {
		return fmt.Errorf("%w: %dx%d", ErrSheetTooSmall, b.Dx(), b.Dy())
	}
	return nil
}

func sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return "jpeg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp"
	default:
		return "tga"
	}
}
