// Package config implements the JSON-encoded configuration tree (spec
// §6): named assets (meshes, BSDFs, textures, films, cameras, lights), a
// scene node tree with composed transforms, and renderer settings.
// Grounded on the only config-driven repo in the retrieved pack,
// drsaluml-mu-bmd-to-webp's internal/config package (declarative
// encoding/json struct tags, flat optional-field structs rather than a
// tagged-union decoder).
package config

import "github.com/lumetra/pathbench/pkg/vmath"

// Config is the root of the configuration tree (spec §6).
type Config struct {
	Assets   Assets     `json:"assets"`
	Scene    SceneNode  `json:"scene"`
	Renderer RendererConfig `json:"renderer"`
}

// Assets collects every named, typed asset declaration (spec §6
// "assets").
type Assets struct {
	Meshes   map[string]MeshConfig   `json:"meshes"`
	BSDFs    map[string]BSDFConfig   `json:"bsdfs"`
	Textures map[string]string       `json:"textures"` // name -> file path
	Films    map[string]FilmConfig   `json:"films"`
	Cameras  map[string]CameraConfig `json:"cameras"`
	Lights   map[string]LightConfig  `json:"lights"`
}

// MeshConfig names either a file to load (format inferred from
// extension: .obj, .ply, .gltf/.glb) or an inline raw mesh.
type MeshConfig struct {
	Path      string      `json:"path,omitempty"`
	Positions [][3]float64 `json:"positions,omitempty"`
	Normals   [][3]float64 `json:"normals,omitempty"`
	Indices   []int32     `json:"indices,omitempty"`
}

// BSDFConfig declares a named BSDF (spec §6). Accepted types are diffuse,
// mirror, glass and dielectric (both of the last two build a gbsdf.Glass);
// any other type, including all, is rejected with a ConfigError.
type BSDFConfig struct {
	Type    string  `json:"type"`
	Albedo  [3]float64 `json:"albedo,omitempty"`
	Texture string  `json:"texture,omitempty"` // references Assets.Textures
	IOR     float64 `json:"ior,omitempty"`      // dielectric/glass refractive index
	Fuzz    float64 `json:"fuzz,omitempty"`     // parsed but not read; the mirror is perfectly specular
}

// FilmConfig declares a named film output target (spec §6 "hdr" film).
type FilmConfig struct {
	Type      string `json:"type"` // "hdr"
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Output    string `json:"output"`
	ImageType string `json:"image_type"` // "radiancehdr" | "openexr"
}

// CameraConfig declares a named perspective camera, optionally with a
// thin-lens extension (spec §6).
type CameraConfig struct {
	Type      string    `json:"type"` // "perspective"
	Fovy      float64   `json:"fovy"`
	Film      string    `json:"film"` // references Assets.Films
	LookFrom  [3]float64 `json:"look_from"`
	LookAt    [3]float64 `json:"look_at"`
	Up        [3]float64 `json:"up,omitempty"`
	ThinLens  *ThinLensConfig `json:"thinlens,omitempty"`
}

// ThinLensConfig is the optional depth-of-field extension of a camera
// (spec §6).
type ThinLensConfig struct {
	Aperture float64 `json:"aperture"`
	Focus    float64 `json:"focus"`
}

// LightConfig declares a named emitter (spec §6: area, environment --
// environment is accepted but rejected at build time, spec §9 Open
// Questions: "the reference's environment-light support ... is
// incomplete; this spec intentionally excludes it").
type LightConfig struct {
	Type      string  `json:"type"` // "area" | "environment"
	Luminance [3]float64 `json:"luminance,omitempty"`
}

// SceneNode is one node of the scene graph (spec §6 "scene"): an
// optional transform (composed down the tree) and optional references
// to a declared mesh/BSDF/camera/light, plus child nodes.
type SceneNode struct {
	Name      string          `json:"name,omitempty"`
	Transform *TransformConfig `json:"transform,omitempty"`
	Mesh      string          `json:"mesh,omitempty"`
	BSDF      string          `json:"bsdf,omitempty"`
	Camera    string          `json:"camera,omitempty"`
	Light     string          `json:"light,omitempty"`
	Children  []SceneNode     `json:"children,omitempty"`
}

// TransformConfig is either an explicit 4x4 matrix or a composition of
// translate/rotate/scale (spec §6 "transform").
type TransformConfig struct {
	Matrix    *[16]float64   `json:"matrix,omitempty"`
	Translate *[3]float64    `json:"translate,omitempty"`
	Rotate    *RotateConfig  `json:"rotate,omitempty"`
	Scale     *[3]float64    `json:"scale,omitempty"`
}

// RotateConfig is an axis-angle rotation, angle in degrees (spec §6
// "rotate (angle, axis Vec3)").
type RotateConfig struct {
	AngleDegrees float64    `json:"angle"`
	Axis         [3]float64 `json:"axis"`
}

// RendererConfig selects and configures the renderer (spec §6
// "renderer").
type RendererConfig struct {
	Type            string        `json:"type"` // "bpt" or empty; renderConfig rejects any other value
	NumSamples      int64         `json:"num_samples"`
	RRDepth         int           `json:"rr_depth"`
	NumThreads      int           `json:"num_threads"`
	SamplesPerBlock int64         `json:"samples_per_block"`
	Sampler         SamplerConfig `json:"sampler"`
	MISWeight       string        `json:"mis_weight"` // "balance" | "power"
}

// SamplerConfig selects the sample generator and seed (spec §6).
type SamplerConfig struct {
	Type string `json:"type"` // "independent" (only type this core implements)
	Seed int64  `json:"seed"`
}

func vec3From(a [3]float64) vmath.Vec3 { return vmath.Vec3{X: a[0], Y: a[1], Z: a[2]} }
