package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga" // self-registers the "tga" format, matching drsaluml-mu-bmd-to-webp/internal/texture/loader.go
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/lumetra/pathbench/pkg/gbsdf"
	"github.com/lumetra/pathbench/pkg/rterr"
	"github.com/lumetra/pathbench/pkg/vmath"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff-be", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
}

// ImageTexture is a gbsdf.ColorSource backed by a decoded bitmap, adapted
// from the teacher's material.ImageTexture (nearest-neighbor sampling,
// V-flip for top-left image origin), generalized to decode any of the
// png/jpeg/tga/bmp/tiff formats SPEC_FULL.md's DOMAIN STACK wires in
// (ftrvxmtrx/tga, golang.org/x/image/{bmp,tiff}) behind the single
// image.Decode dispatch the stdlib's format registry provides.
type ImageTexture struct {
	Width, Height int
	Pixels        []vmath.Vec3
}

// LoadTexture decodes path via the stdlib image.Decode dispatch (format
// auto-detected from content/registered magic, spec §6 "named textures
// (bitmap HDR)").
func LoadTexture(path string) (*ImageTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, rterr.NewAssetError(path, path, fmt.Errorf("decode: %w", err))
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]vmath.Vec3, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*w+x] = vmath.Vec3{X: float64(r) / 65535, Y: float64(g) / 65535, Z: float64(b) / 65535}
		}
	}
	return &ImageTexture{Width: w, Height: h, Pixels: pixels}, nil
}

// Evaluate samples the texture at uv with nearest-neighbor filtering and
// wraparound addressing, V=0 at the bottom (matching the teacher's
// material.ImageTexture.Evaluate convention).
func (t *ImageTexture) Evaluate(uv vmath.Vec2) vmath.Vec3 {
	u := uv.X - float64(int(uv.X))
	if u < 0 {
		u += 1
	}
	v := uv.Y - float64(int(uv.Y))
	if v < 0 {
		v += 1
	}
	x := int(u * float64(t.Width))
	y := int((1 - v) * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return t.Pixels[y*t.Width+x]
}

var _ gbsdf.ColorSource = (*ImageTexture)(nil)
