package gbsdf

import "github.com/lumetra/pathbench/pkg/vmath"

// ColorSource provides spatially varying reflectance/emission, adapted
// from the teacher's material.ColorSource (pkg/assets.ImageTexture is the
// image-backed implementation; SolidColor covers untextured surfaces).
type ColorSource interface {
	Evaluate(uv vmath.Vec2) vmath.Vec3
}

type SolidColor struct {
	Color vmath.Vec3
}

func NewSolidColor(c vmath.Vec3) SolidColor { return SolidColor{Color: c} }

func (s SolidColor) Evaluate(vmath.Vec2) vmath.Vec3 { return s.Color }
