// Package texture uploads images to OpenGL textures.
package texture

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/Faultbox/skinhead/pkg/skin"
)

// Options control how an image is sampled.
type Options struct {
	SRGB    bool
	Nearest bool
	Mipmaps bool
}

// FaceOptions maps a face texture's sampling state to upload options.
func FaceOptions(t *skin.FaceTexture) Options {
	return Options{
		SRGB:    t.ColorSpace == skin.ColorSpaceSRGB,
		Nearest: t.Filter == skin.FilterNearest,
		Mipmaps: t.Mipmaps,
	}
}

// UploadFace uploads one cube face texture.
func UploadFace(t *skin.FaceTexture) (uint32, error) {
	if t == nil || t.Image == nil {
		return 0, fmt.Errorf("uploading face: no image")
	}
	return Upload(t.Image, FaceOptions(t))
}

// Upload creates a 2D texture from img. Row 0 of the image is uploaded
// first, so v=0 samples the image's top row.
func Upload(img image.Image, opts Options) (uint32, error) {
	nrgba := ToNRGBA(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("uploading texture: empty image")
	}

	internal := int32(gl.RGBA8)
	if opts.SRGB {
		internal = gl.SRGB8_ALPHA8
	}
	minFilter, magFilter := int32(gl.LINEAR), int32(gl.LINEAR)
	if opts.Nearest {
		minFilter, magFilter = gl.NEAREST, gl.NEAREST
	}
	if opts.Mipmaps {
		if opts.Nearest {
			minFilter = gl.NEAREST_MIPMAP_NEAREST
		} else {
			minFilter = gl.LINEAR_MIPMAP_LINEAR
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(nrgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if opts.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("uploading texture: gl error 0x%x", code)
	}
	return id, nil
}

// Delete releases a texture created by Upload.
func Delete(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

// ToNRGBA returns img as a tightly packed NRGBA image with origin (0,0).
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
