package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"testing"
)

// minimalGLTF builds a single-triangle glTF document with its vertex
// buffer embedded as a base64 data URI, avoiding any dependency on an
// external .bin sidecar file.
func minimalGLTF(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	positions := [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, p := range positions {
		for _, c := range p {
			binary.Write(&buf, binary.LittleEndian, c)
		}
	}
	dataURI := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "buffers": [{"uri": %q, "byteLength": %d}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d, "target": 34962}],
  "accessors": [{"bufferView": 0, "byteOffset": 0, "componentType": 5126, "count": 3, "type": "VEC3",
    "max": [1, 1, 0], "min": [0, 0, 0]}]
}`, dataURI, buf.Len(), buf.Len())

	return writeTempFile(t, "tri.gltf", doc)
}

func TestLoadGLTFSingleTriangle(t *testing.T) {
	path := minimalGLTF(t)
	mesh, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if mesh.NumVertices() != 3 {
		t.Fatalf("expected 3 vertices, got %d", mesh.NumVertices())
	}
	if mesh.NumFaces() != 1 {
		t.Fatalf("accessor with no explicit indices should fall back to an identity triangle, got %d faces", mesh.NumFaces())
	}
	if mesh.Position(1).X != 1 {
		t.Errorf("vertex 1 X = %v, want 1", mesh.Position(1).X)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.gltf")); err == nil {
		t.Fatal("expected an error for a missing glTF file")
	}
}
