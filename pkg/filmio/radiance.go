// Package filmio implements film output: Radiance HDR and OpenEXR (spec
// §6 "Film output"), plus an additive WebP preview export (SPEC_FULL.md
// DOMAIN STACK, nativewebp). None of this existed in the teacher, which
// only emits PNG (pkg/renderer writes image.RGBA via the stdlib); these
// encoders are grounded on the Radiance/OpenEXR file-format definitions
// referenced by spec §6 and written in the teacher's plain-function,
// explicit-error-return style.
package filmio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/lumetra/pathbench/pkg/vmath"
)

// ImageType selects the output encoder (spec §6, "image-type in
// {radiancehdr, openexr}").
type ImageType int

const (
	RadianceHDR ImageType = iota
	OpenEXR
)

// PixelSource is the minimal read surface Save needs from a film;
// render.Film satisfies it directly through its At method, so filmio
// never needs to import pkg/render.
type PixelSource interface {
	At(x, y int) vmath.Vec3
}

// Save writes width x height pixels sampled from src to path, using the
// encoder named by format (spec §6). The Radiance/OpenEXR choice is the
// implementer's per spec §6; both are offered here.
func Save(path string, width, height int, src PixelSource, format ImageType) error {
	pixels := make([]vmath.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = src.At(x, y)
		}
	}
	switch format {
	case OpenEXR:
		return SaveEXR(path, width, height, pixels)
	default:
		return SaveRadianceHDR(path, width, height, pixels)
	}
}

// SaveRadianceHDR writes a flat (non run-length-encoded) old-style
// Radiance HDR file: the `#?RADIANCE` magic (spec §6), a `FORMAT=` line,
// the `-Y H +X W` resolution line, and W*H RGBE-encoded pixels, one scan
// line at a time, top to bottom.
func SaveRadianceHDR(path string, width, height int, pixels []vmath.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("filmio: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprint(w, "#?RADIANCE\n")
	fmt.Fprint(w, "FORMAT=32-bit_rle_rgbe\n\n")
	fmt.Fprintf(w, "-Y %d +X %d\n", height, width)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, e := rgbe(pixels[y*width+x])
			w.Write([]byte{r, g, b, e})
		}
	}
	return w.Flush()
}

// rgbe encodes an RGB float triple into the 4-byte shared-exponent form
// Radiance HDR scanlines use.
func rgbe(c vmath.Vec3) (r, g, b, e byte) {
	maxVal := math.Max(c.X, math.Max(c.Y, c.Z))
	if maxVal < 1e-32 {
		return 0, 0, 0, 0
	}
	mantissa, exp := math.Frexp(maxVal)
	scale := mantissa * 256.0 / maxVal
	r = clampByte(c.X * scale)
	g = clampByte(c.Y * scale)
	b = clampByte(c.Z * scale)
	e = byte(exp + 128)
	return
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// decodeRGBE is the inverse of rgbe, exercised by radiance_test.go's
// round-trip property check.
func decodeRGBE(r, g, b, e byte) vmath.Vec3 {
	if e == 0 {
		return vmath.Vec3{}
	}
	f := math.Ldexp(1.0, int(e)-128-8)
	return vmath.Vec3{X: float64(r) * f, Y: float64(g) * f, Z: float64(b) * f}
}

var _ io.Writer = (*bufio.Writer)(nil)
