package filmio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// SaveWebP writes a tonemapped, gamma-corrected WebP preview of the film
// alongside the mandated HDR/EXR output (SPEC_FULL.md DOMAIN STACK: "a
// lossy WebP preview of the film ... for quick visual inspection of a
// render without an HDR-capable viewer"). This is additive, never a
// substitute for SaveRadianceHDR/SaveEXR.
func SaveWebP(path string, width, height int, pixels []vmath.Vec3) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, toSRGB(pixels[y*width+x]))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("filmio: create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("filmio: webp encode %s: %w", path, err)
	}
	return nil
}

// toSRGB applies a Reinhard-style tonemap (c/(1+c)) followed by the
// standard 1/2.2 gamma curve, matching the teacher's PNG output path's
// simpler gamma-only conversion but adding tone compression since HDR
// film values routinely exceed 1.0.
func toSRGB(c vmath.Vec3) color.RGBA {
	tm := func(v float64) uint8 {
		v = v / (1 + v)
		v = math.Pow(math.Max(0, v), 1/2.2)
		return uint8(math.Min(255, v*255+0.5))
	}
	return color.RGBA{R: tm(c.X), G: tm(c.Y), B: tm(c.Z), A: 255}
}
