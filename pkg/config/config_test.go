package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumetra/pathbench/pkg/bpt"
	"github.com/lumetra/pathbench/pkg/gbsdf"
	"github.com/lumetra/pathbench/pkg/rterr"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalSceneJSON = `{
  "assets": {
    "meshes": {
      "floor": {
        "positions": [[-1,-1,0],[1,-1,0],[-1,1,0],[1,1,0]],
        "indices": [0,1,2, 1,3,2]
      }
    },
    "bsdfs": {
      "white": {"type": "diffuse", "albedo": [0.8, 0.8, 0.8]}
    },
    "films": {
      "main": {"type": "hdr", "width": 64, "height": 64, "output": "out.hdr", "image_type": "radiancehdr"}
    },
    "cameras": {
      "eye": {"type": "perspective", "fovy": 40, "film": "main",
        "look_from": [0, 1, 4], "look_at": [0, 0, 0]}
    },
    "lights": {}
  },
  "scene": {
    "name": "root",
    "children": [
      {"name": "floor", "mesh": "floor", "bsdf": "white"},
      {"name": "cam", "camera": "eye"}
    ]
  },
  "renderer": {"type": "bpt", "num_samples": 4}
}`

func TestLoadParsesValidConfig(t *testing.T) {
	path := writeConfig(t, minimalSceneJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assets.Cameras["eye"].Fovy != 40 {
		t.Errorf("expected fovy 40, got %v", cfg.Assets.Cameras["eye"].Fovy)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeConfig(t, "{not valid json")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestBuildMinimalScene(t *testing.T) {
	path := writeConfig(t, minimalSceneJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	built, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.FilmWidth != 64 || built.FilmHeight != 64 {
		t.Errorf("got film %dx%d, want 64x64", built.FilmWidth, built.FilmHeight)
	}
	if built.FilmOutput != "out.hdr" {
		t.Errorf("got film output %q, want out.hdr", built.FilmOutput)
	}
	if built.Camera == nil {
		t.Fatal("expected a resolved camera")
	}
	if built.Render.NumSamples != 4 {
		t.Errorf("got num_samples %d, want 4", built.Render.NumSamples)
	}
	if built.Render.Heuristic != bpt.Power {
		t.Errorf("default mis_weight should be the power heuristic")
	}
	if built.Scene.NumLights() != 0 {
		t.Errorf("scene declares no lights, got %d", built.Scene.NumLights())
	}
}

func TestBuildMissingCameraIsBuildError(t *testing.T) {
	const noCameraJSON = `{
  "assets": {
    "meshes": {"floor": {"positions": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}},
    "bsdfs": {"white": {"type": "diffuse", "albedo": [1,1,1]}},
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {}, "lights": {}
  },
  "scene": {"children": [{"mesh": "floor", "bsdf": "white"}]},
  "renderer": {}
}`
	path := writeConfig(t, noCameraJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(cfg)
	var buildErr *rterr.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected *rterr.BuildError, got %T: %v", err, err)
	}
}

func TestBuildUndeclaredMeshReferenceIsReferenceError(t *testing.T) {
	const badRefJSON = `{
  "assets": {
    "meshes": {}, "bsdfs": {},
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {"eye": {"type": "perspective", "fovy": 40, "film": "main", "look_from": [0,0,1], "look_at": [0,0,0]}},
    "lights": {}
  },
  "scene": {"children": [{"mesh": "nonexistent"}, {"camera": "eye"}]},
  "renderer": {}
}`
	path := writeConfig(t, badRefJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(cfg)
	var refErr *rterr.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *rterr.ReferenceError, got %T: %v", err, err)
	}
}

func TestBuildUnknownBSDFTypeIsConfigError(t *testing.T) {
	const badBSDFJSON = `{
  "assets": {
    "meshes": {"floor": {"positions": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}},
    "bsdfs": {"odd": {"type": "plasma"}},
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {"eye": {"type": "perspective", "fovy": 40, "film": "main", "look_from": [0,0,1], "look_at": [0,0,0]}},
    "lights": {}
  },
  "scene": {"children": [{"mesh": "floor", "bsdf": "odd"}, {"camera": "eye"}]},
  "renderer": {}
}`
	path := writeConfig(t, badBSDFJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(cfg)
	var cfgErr *rterr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *rterr.ConfigError, got %T: %v", err, err)
	}
}

func TestBuildEnvironmentLightRejected(t *testing.T) {
	const envLightJSON = `{
  "assets": {
    "meshes": {}, "bsdfs": {},
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {},
    "lights": {"sky": {"type": "environment", "luminance": [1,1,1]}}
  },
  "scene": {},
  "renderer": {}
}`
	path := writeConfig(t, envLightJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Build(cfg)
	var cfgErr *rterr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("environment lights should be rejected as a *rterr.ConfigError, got %T: %v", err, err)
	}
}

func TestResolveBSDFDispatchesMirrorAndGlass(t *testing.T) {
	const mirrorGlassJSON = `{
  "assets": {
    "meshes": {"floor": {"positions": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}},
    "bsdfs": {
      "mirror": {"type": "mirror", "albedo": [1,1,1]},
      "glass": {"type": "glass", "ior": 1.5}
    },
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {"eye": {"type": "perspective", "fovy": 40, "film": "main", "look_from": [0,0,1], "look_at": [0,0,0]}},
    "lights": {}
  },
  "scene": {"children": [
    {"mesh": "floor", "bsdf": "mirror"},
    {"mesh": "floor", "bsdf": "glass"},
    {"camera": "eye"}
  ]},
  "renderer": {}
}`
	path := writeConfig(t, mirrorGlassJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	built, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prim := built.Scene.Primitives[0]
	if _, ok := prim.BSDF.(gbsdf.Mirror); !ok {
		t.Errorf("expected the floor's BSDF to be a gbsdf.Mirror, got %T", prim.BSDF)
	}
	glassPrim := built.Scene.Primitives[1]
	if _, ok := glassPrim.BSDF.(gbsdf.Glass); !ok {
		t.Errorf("expected the second floor's BSDF to be a gbsdf.Glass, got %T", glassPrim.BSDF)
	}
}

func TestResolveBSDFGlassRequiresPositiveIOR(t *testing.T) {
	const badGlassJSON = `{
  "assets": {
    "meshes": {"floor": {"positions": [[0,0,0],[1,0,0],[0,1,0]], "indices": [0,1,2]}},
    "bsdfs": {"glass": {"type": "glass", "ior": 0}},
    "films": {"main": {"type": "hdr", "width": 4, "height": 4, "output": "o.hdr"}},
    "cameras": {"eye": {"type": "perspective", "fovy": 40, "film": "main", "look_from": [0,0,1], "look_at": [0,0,0]}},
    "lights": {}
  },
  "scene": {"children": [{"mesh": "floor", "bsdf": "glass"}, {"camera": "eye"}]},
  "renderer": {}
}`
	path := writeConfig(t, badGlassJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(cfg); err == nil {
		t.Fatal("expected an error for a non-positive glass IOR")
	}
}

func TestRenderConfigDefaultsAndOverrides(t *testing.T) {
	b := &builder{cfg: &Config{Renderer: RendererConfig{}}}
	cfg, err := b.renderConfig()
	if err != nil {
		t.Fatalf("renderConfig: %v", err)
	}
	if cfg.NumSamples != 16 || cfg.RRDepth != 5 || cfg.SamplesPerBlock != 16384 {
		t.Errorf("expected DefaultConfig values when renderer node is empty, got %+v", cfg)
	}

	b2 := &builder{cfg: &Config{Renderer: RendererConfig{MISWeight: "balance", NumSamples: 100}}}
	cfg2, err := b2.renderConfig()
	if err != nil {
		t.Fatalf("renderConfig: %v", err)
	}
	if cfg2.Heuristic != bpt.Balance {
		t.Errorf("mis_weight=balance should select bpt.Balance")
	}
	if cfg2.NumSamples != 100 {
		t.Errorf("explicit num_samples should override the default, got %d", cfg2.NumSamples)
	}
}

func TestRenderConfigRejectsUnknownHeuristic(t *testing.T) {
	b := &builder{cfg: &Config{Renderer: RendererConfig{MISWeight: "nonsense"}}}
	_, err := b.renderConfig()
	var cfgErr *rterr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *rterr.ConfigError for unknown mis_weight, got %T: %v", err, err)
	}
}

func TestComposeTransformTranslateScale(t *testing.T) {
	scale := [3]float64{2, 2, 2}
	translate := [3]float64{1, 0, 0}
	tc := &TransformConfig{
		Translate: &translate,
		Scale:     &scale,
	}
	m := composeTransform(tc)
	p := m.MulPoint(vec3From([3]float64{1, 1, 1}))
	want := vec3From([3]float64{3, 2, 2}) // translate(scale(p))
	if p != want {
		t.Errorf("composeTransform translate+scale: got %v, want %v", p, want)
	}
}

func TestComposeTransformNilIsIdentity(t *testing.T) {
	m := composeTransform(nil)
	p := vec3From([3]float64{5, -3, 2})
	if got := m.MulPoint(p); got != p {
		t.Errorf("nil transform should be identity, got %v", got)
	}
}
